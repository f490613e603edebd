package ledger

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	balances map[string]int64
	log      []Transaction
	nextID   int64
}

// NewMemory creates a concurrency-safe in-memory store. It is the backend
// of the reference deployment and of the unit tests.
func NewMemory() Store {
	return &memoryStore{
		balances: make(map[string]int64),
		nextID:   1,
	}
}

func (s *memoryStore) EnsureAccount(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(userID)
	return nil
}

func (s *memoryStore) Balance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(userID)
	return s.balances[userID], nil
}

func (s *memoryStore) Append(_ context.Context, entries ...Entry) ([]Transaction, error) {
	for _, e := range entries {
		if e.Amount <= 0 {
			return nil, ErrInvalidAmount
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Dry-run the balance adjustments before touching anything so a failed
	// append leaves no trace.
	projected := make(map[string]int64, len(entries))
	for _, e := range entries {
		s.ensure(e.UserID)
		if _, ok := projected[e.UserID]; !ok {
			projected[e.UserID] = s.balances[e.UserID]
		}
		projected[e.UserID] += e.Delta()
		if projected[e.UserID] < 0 {
			return nil, ErrInsufficientFunds
		}
	}

	now := time.Now().UTC()
	created := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		tx := Transaction{
			ID:            s.nextID,
			UserID:        e.UserID,
			Type:          e.Type,
			Amount:        e.Amount,
			Reason:        e.Reason,
			RelatedUserID: e.RelatedUserID,
			TransferID:    e.TransferID,
			CreatedAt:     now,
		}
		s.nextID++
		s.log = append(s.log, tx)
		s.balances[e.UserID] += e.Delta()
		created = append(created, tx)
	}
	return created, nil
}

func (s *memoryStore) TransactionsFor(_ context.Context, userID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var txs []Transaction
	for _, tx := range s.log {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// ensure must be called with the write lock held.
func (s *memoryStore) ensure(userID string) {
	if _, ok := s.balances[userID]; !ok {
		s.balances[userID] = 0
	}
}
