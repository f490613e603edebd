package auth

import (
	"errors"
	"time"

	"github.com/gamevault/gamevault/internal/config"
	"github.com/gamevault/gamevault/internal/identity"
)

// Service issues and verifies access tokens.
type Service struct {
	cfg config.Config
}

// NewService creates an auth service bound to the runtime configuration.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// IssueToken signs an access token for the user.
func (s *Service) IssueToken(user identity.User) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
	}
	return SignHS256(claims, []byte(s.cfg.JWTSecret))
}

// VerifyToken checks the signature and expiry and returns the subject.
func (s *Service) VerifyToken(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}
	exp, ok := claims["exp"].(float64)
	if !ok || time.Now().Unix() >= int64(exp) {
		return "", errors.New("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}
