package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists balances and the transaction log in PostgreSQL.
// The transactions table is append-only with a bigserial id, so insertion
// order, chronological order and id order coincide.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureAccount guarantees a zero-balance row exists for the user.
func (s *PostgresStore) EnsureAccount(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO balances (user_id, balance) VALUES ($1, 0)
        ON CONFLICT (user_id) DO NOTHING`, userID)
	return err
}

// Balance returns the stored balance, creating the account if absent.
func (s *PostgresStore) Balance(ctx context.Context, userID string) (int64, error) {
	if err := s.EnsureAccount(ctx, userID); err != nil {
		return 0, err
	}
	var balance int64
	if err := s.db.QueryRow(ctx, `SELECT balance FROM balances WHERE user_id = $1`, userID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return balance, nil
}

// Append applies every entry inside a single database transaction. Balance
// rows are locked FOR UPDATE in sorted user order so concurrent appends
// touching the same accounts serialize without deadlocking.
func (s *PostgresStore) Append(ctx context.Context, entries ...Entry) ([]Transaction, error) {
	for _, e := range entries {
		if e.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	balances := make(map[string]int64)
	for _, userID := range sortedUsers(entries) {
		if _, err := tx.Exec(ctx, `INSERT INTO balances (user_id, balance) VALUES ($1, 0)
            ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
			return nil, err
		}
		var balance int64
		if err := tx.QueryRow(ctx, `SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance); err != nil {
			return nil, err
		}
		balances[userID] = balance
	}

	for _, e := range entries {
		balances[e.UserID] += e.Delta()
		if balances[e.UserID] < 0 {
			return nil, ErrInsufficientFunds
		}
	}

	created := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		rec := Transaction{
			UserID:        e.UserID,
			Type:          e.Type,
			Amount:        e.Amount,
			Reason:        e.Reason,
			RelatedUserID: e.RelatedUserID,
			TransferID:    e.TransferID,
		}
		err := tx.QueryRow(ctx, `INSERT INTO transactions (user_id, type, amount, reason, related_user_id, transfer_id, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, now())
            RETURNING id, created_at`,
			e.UserID, e.Type, e.Amount, e.Reason, e.RelatedUserID, e.TransferID).Scan(&rec.ID, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		created = append(created, rec)
	}

	for userID, balance := range balances {
		if _, err := tx.Exec(ctx, `UPDATE balances SET balance = $1 WHERE user_id = $2`, balance, userID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// TransactionsFor lists the user's transactions in append order.
func (s *PostgresStore) TransactionsFor(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT id, user_id, type, amount, reason, related_user_id, transfer_id, created_at
        FROM transactions WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var rec Transaction
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Amount, &rec.Reason, &rec.RelatedUserID, &rec.TransferID, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		txs = append(txs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func sortedUsers(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	users := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.UserID]; !ok {
			seen[e.UserID] = struct{}{}
			users = append(users, e.UserID)
		}
	}
	sort.Strings(users)
	return users
}
