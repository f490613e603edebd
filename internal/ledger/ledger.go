package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidAmount occurs when an operation is requested with a zero or
	// negative amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds occurs when a debit would drive the account
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

const (
	// TypeCredit marks a transaction that increases the account balance.
	TypeCredit = "credit"
	// TypeDebit marks a transaction that decreases the account balance.
	TypeDebit = "debit"
)

// Transaction is one immutable entry in the append-only log. IDs are
// assigned sequentially across the whole log and never reused.
type Transaction struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Reason        string    `json:"reason,omitempty"`
	RelatedUserID string    `json:"related_user_id,omitempty"`
	TransferID    string    `json:"transfer_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Entry describes a transaction to be appended. The store assigns the ID
// and creation time.
type Entry struct {
	UserID        string
	Type          string
	Amount        int64
	Reason        string
	RelatedUserID string
	TransferID    string
}

// Delta returns the signed effect of the entry on its account balance.
func (e Entry) Delta() int64 {
	if e.Type == TypeDebit {
		return -e.Amount
	}
	return e.Amount
}

// Store holds the balance per account and the append-only transaction log.
// Accounts are created lazily with a zero balance on first reference.
type Store interface {
	// EnsureAccount initializes the account balance to zero if absent.
	EnsureAccount(ctx context.Context, userID string) error

	// Balance returns the current balance, initializing the account as a
	// side effect when it does not exist yet.
	Balance(ctx context.Context, userID string) (int64, error)

	// Append records the given entries and adjusts the affected balances as
	// a single unit: either every entry is applied or none is. It fails
	// with ErrInsufficientFunds when any debit would take a balance below
	// zero, and with ErrInvalidAmount for non-positive amounts.
	Append(ctx context.Context, entries ...Entry) ([]Transaction, error)

	// TransactionsFor returns every transaction whose UserID matches, in
	// the order the entries were appended.
	TransactionsFor(ctx context.Context, userID string) ([]Transaction, error)
}
