package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_UnknownAccountHasZeroBalance(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	balance, err := s.Balance(ctx, "u-never-seen")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
}

func TestMemoryStore_AppendAdjustsBalanceAndLog(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	txs, err := s.Append(ctx, Entry{UserID: "u1", Type: TypeCredit, Amount: 100, Reason: "seed"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	if txs[0].ID != 1 || txs[0].Type != TypeCredit || txs[0].Amount != 100 {
		t.Fatalf("unexpected transaction: %+v", txs[0])
	}
	if txs[0].CreatedAt.IsZero() {
		t.Fatal("expected creation time to be set")
	}

	balance, _ := s.Balance(ctx, "u1")
	if balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}
}

func TestMemoryStore_AppendRejectsNonPositiveAmount(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	for _, amount := range []int64{0, -5} {
		if _, err := s.Append(ctx, Entry{UserID: "u1", Type: TypeCredit, Amount: amount}); err != ErrInvalidAmount {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if txs, _ := s.TransactionsFor(ctx, "u1"); len(txs) != 0 {
		t.Fatalf("expected no transactions recorded, got %d", len(txs))
	}
}

func TestMemoryStore_OverdraftAppliesNothing(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	SeedBalance(s, "u1", 50)

	_, err := s.Append(ctx,
		Entry{UserID: "u1", Type: TypeDebit, Amount: 30},
		Entry{UserID: "u1", Type: TypeDebit, Amount: 30},
	)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := s.Balance(ctx, "u1")
	if balance != 50 {
		t.Fatalf("balance changed on failed append: %d", balance)
	}
	if txs, _ := s.TransactionsFor(ctx, "u1"); len(txs) != 0 {
		t.Fatalf("log changed on failed append: %d entries", len(txs))
	}
}

func TestMemoryStore_IDsStrictlyIncreaseAcrossAccounts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	users := []string{"a", "b", "a", "c", "b"}
	var lastID int64
	for _, u := range users {
		txs, err := s.Append(ctx, Entry{UserID: u, Type: TypeCredit, Amount: 10})
		if err != nil {
			t.Fatalf("append for %s: %v", u, err)
		}
		if txs[0].ID <= lastID {
			t.Fatalf("id %d not greater than previous %d", txs[0].ID, lastID)
		}
		lastID = txs[0].ID
	}
}

func TestMemoryStore_TransactionsForFiltersAndOrders(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	s.Append(ctx, Entry{UserID: "u1", Type: TypeCredit, Amount: 10})
	s.Append(ctx, Entry{UserID: "u2", Type: TypeCredit, Amount: 20, RelatedUserID: "u1"})
	s.Append(ctx, Entry{UserID: "u1", Type: TypeCredit, Amount: 30})

	txs, err := s.TransactionsFor(ctx, "u1")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions for u1, got %d", len(txs))
	}
	if txs[0].Amount != 10 || txs[1].Amount != 30 {
		t.Fatalf("unexpected order: %+v", txs)
	}
	// RelatedUserID matches must not leak into the history.
	for _, tx := range txs {
		if tx.UserID != "u1" {
			t.Fatalf("foreign transaction in history: %+v", tx)
		}
	}
}

func TestMemoryStore_BalanceMatchesLogSum(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	SeedBalance(s, "u1", 0)

	amounts := []Entry{
		{UserID: "u1", Type: TypeCredit, Amount: 500},
		{UserID: "u1", Type: TypeDebit, Amount: 120},
		{UserID: "u1", Type: TypeCredit, Amount: 75},
		{UserID: "u1", Type: TypeDebit, Amount: 55},
	}
	for _, e := range amounts {
		if _, err := s.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	txs, _ := s.TransactionsFor(ctx, "u1")
	var sum int64
	for _, tx := range txs {
		if tx.Type == TypeCredit {
			sum += tx.Amount
		} else {
			sum -= tx.Amount
		}
	}

	balance, _ := s.Balance(ctx, "u1")
	if balance != sum {
		t.Fatalf("balance %d does not match log sum %d", balance, sum)
	}
}

func TestMemoryStore_ConcurrentAppendsConserveTotal(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	SeedBalance(s, "a", 100_000)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			transferID := fmt.Sprintf("t-%d", i)
			_, err := s.Append(ctx,
				Entry{UserID: "a", Type: TypeDebit, Amount: 500, RelatedUserID: "b", TransferID: transferID},
				Entry{UserID: "b", Type: TypeCredit, Amount: 500, RelatedUserID: "a", TransferID: transferID},
			)
			if err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	balA, _ := s.Balance(ctx, "a")
	balB, _ := s.Balance(ctx, "b")
	if balA+balB != 100_000 {
		t.Fatalf("total not conserved: %d", balA+balB)
	}
	if balB != workers*500 {
		t.Fatalf("expected b balance %d, got %d", workers*500, balB)
	}
}
