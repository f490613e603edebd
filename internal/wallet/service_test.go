package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/gamevault/gamevault/internal/events"
	"github.com/gamevault/gamevault/internal/ledger"
)

type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func TestCreditAndDebit(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	res, err := svc.Credit(ctx, "u1", 100, "seed")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if res.Balance != 100 {
		t.Fatalf("expected balance 100, got %d", res.Balance)
	}
	if res.Transaction.Type != ledger.TypeCredit || res.Transaction.Reason != "seed" {
		t.Fatalf("unexpected transaction: %+v", res.Transaction)
	}

	res, err = svc.Debit(ctx, "u1", 30, "rent")
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if res.Balance != 70 {
		t.Fatalf("expected balance 70, got %d", res.Balance)
	}
}

func TestInvalidAmountRejectedBeforeAppend(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, "u1", 0, ""); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("credit zero: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Debit(ctx, "u1", -10, ""); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("debit negative: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Transfer(ctx, "u1", "u2", 0, ""); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("transfer zero: expected ErrInvalidAmount, got %v", err)
	}

	txs, _ := svc.Transactions(ctx, "u1")
	if len(txs) != 0 {
		t.Fatalf("expected no state change, got %d transactions", len(txs))
	}
}

func TestDebitInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, "u1", 70, ""); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := svc.Debit(ctx, "u1", 1000, "too much"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := svc.Balance(ctx, "u1")
	if balance != 70 {
		t.Fatalf("balance changed after failed debit: %d", balance)
	}
	txs, _ := svc.Transactions(ctx, "u1")
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
}

func TestTransferLinksLegsAndConservesTotal(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	svc.Credit(ctx, "u1", 100, "")
	res, err := svc.Transfer(ctx, "u1", "u2", 40, "")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if res.FromBalance != 60 || res.ToBalance != 40 {
		t.Fatalf("unexpected balances: %+v", res)
	}
	if res.DebitTx.Type != ledger.TypeDebit || res.CreditTx.Type != ledger.TypeCredit {
		t.Fatalf("unexpected leg types: %+v", res)
	}
	if res.DebitTx.RelatedUserID != "u2" || res.CreditTx.RelatedUserID != "u1" {
		t.Fatalf("legs not cross-linked: %+v", res)
	}
	if res.DebitTx.TransferID == "" || res.DebitTx.TransferID != res.CreditTx.TransferID {
		t.Fatalf("legs do not share a transfer id: %+v", res)
	}
	if res.DebitTx.Reason != "Transfer to u2" || res.CreditTx.Reason != "Transfer from u1" {
		t.Fatalf("default reasons not applied: %q / %q", res.DebitTx.Reason, res.CreditTx.Reason)
	}
	if res.CreditTx.ID <= res.DebitTx.ID {
		t.Fatalf("credit leg id %d not after debit leg id %d", res.CreditTx.ID, res.DebitTx.ID)
	}
}

func TestTransferInsufficientFundsAppliesNeitherLeg(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	svc.Credit(ctx, "u1", 10, "")
	if _, err := svc.Transfer(ctx, "u1", "u2", 50, ""); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balFrom, _ := svc.Balance(ctx, "u1")
	balTo, _ := svc.Balance(ctx, "u2")
	if balFrom != 10 || balTo != 0 {
		t.Fatalf("partial transfer observed: from=%d to=%d", balFrom, balTo)
	}
	if txs, _ := svc.Transactions(ctx, "u2"); len(txs) != 0 {
		t.Fatalf("credit leg leaked: %d transactions", len(txs))
	}
}

func TestTransferToSelfNetsToZero(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	svc.Credit(ctx, "u1", 100, "")
	res, err := svc.Transfer(ctx, "u1", "u1", 25, "loop")
	if err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if res.FromBalance != 100 || res.ToBalance != 100 {
		t.Fatalf("self transfer changed balance: %+v", res)
	}

	txs, _ := svc.Transactions(ctx, "u1")
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions (credit + both legs), got %d", len(txs))
	}
}

func TestTransferPublishesEvent(t *testing.T) {
	pub := &capturePublisher{}
	svc := NewService(ledger.NewMemory(), pub)
	ctx := context.Background()

	svc.Credit(ctx, "u1", 100, "")
	res, err := svc.Transfer(ctx, "u1", "u2", 50, "gift")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.published))
	}
	last := pub.published[1]
	if last.Kind != events.KindTransfer {
		t.Fatalf("unexpected event kind %q", last.Kind)
	}
	if last.UserID != "u1" || last.RelatedUserID != "u2" || last.Amount != 50 {
		t.Fatalf("unexpected event payload: %+v", last)
	}
	if last.TransferID != res.DebitTx.TransferID {
		t.Fatalf("event transfer id %q does not match legs %q", last.TransferID, res.DebitTx.TransferID)
	}
}

func TestEndToEndScenario(t *testing.T) {
	svc := NewService(ledger.NewMemory(), nil)
	ctx := context.Background()

	if res, err := svc.Credit(ctx, "u1", 100, "seed"); err != nil || res.Balance != 100 {
		t.Fatalf("credit: balance=%d err=%v", res.Balance, err)
	}
	if res, err := svc.Debit(ctx, "u1", 30, "rent"); err != nil || res.Balance != 70 {
		t.Fatalf("debit: balance=%d err=%v", res.Balance, err)
	}
	if _, err := svc.Debit(ctx, "u1", 1000, "too much"); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if bal, _ := svc.Balance(ctx, "u1"); bal != 70 {
		t.Fatalf("expected balance 70, got %d", bal)
	}
	if res, err := svc.Transfer(ctx, "u1", "u2", 50, "gift"); err != nil || res.FromBalance != 20 || res.ToBalance != 50 {
		t.Fatalf("transfer: %+v err=%v", res, err)
	}

	txs1, _ := svc.Transactions(ctx, "u1")
	txs2, _ := svc.Transactions(ctx, "u2")
	if len(txs1) != 3 {
		t.Fatalf("expected 3 transactions for u1, got %d", len(txs1))
	}
	if len(txs2) != 1 {
		t.Fatalf("expected 1 transaction for u2, got %d", len(txs2))
	}
}
