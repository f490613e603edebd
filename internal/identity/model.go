package identity

import "time"

// User represents a registered player account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries the fields accepted at registration and login.
type Credentials struct {
	Name     string
	Email    string
	Password string
}
