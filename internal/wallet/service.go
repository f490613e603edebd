package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamevault/gamevault/internal/events"
	"github.com/gamevault/gamevault/internal/ledger"
)

// Service enforces business rules on top of the ledger store. It is the
// only component that appends entries.
type Service struct {
	store     ledger.Store
	publisher events.Publisher
}

// NewService builds a wallet service instance.
func NewService(store ledger.Store, publisher events.Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// OperationResult pairs a created transaction with the resulting balance.
type OperationResult struct {
	Transaction ledger.Transaction
	Balance     int64
}

// TransferResult describes the two linked legs of a completed transfer.
type TransferResult struct {
	DebitTx     ledger.Transaction
	CreditTx    ledger.Transaction
	FromBalance int64
	ToBalance   int64
}

// Credit increases the user's balance by amount.
func (s *Service) Credit(ctx context.Context, userID string, amount int64, reason string) (OperationResult, error) {
	if amount <= 0 {
		return OperationResult{}, ledger.ErrInvalidAmount
	}

	txs, err := s.store.Append(ctx, ledger.Entry{
		UserID: userID,
		Type:   ledger.TypeCredit,
		Amount: amount,
		Reason: reason,
	})
	if err != nil {
		return OperationResult{}, err
	}

	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return OperationResult{}, err
	}

	s.emit(ctx, events.Event{
		Kind:          events.KindCredit,
		UserID:        userID,
		Amount:        amount,
		TransactionID: txs[0].ID,
		OccurredAt:    txs[0].CreatedAt,
	})

	return OperationResult{Transaction: txs[0], Balance: balance}, nil
}

// Debit decreases the user's balance by amount. It fails with
// ErrInsufficientFunds when the balance cannot cover it, leaving the
// ledger untouched.
func (s *Service) Debit(ctx context.Context, userID string, amount int64, reason string) (OperationResult, error) {
	if amount <= 0 {
		return OperationResult{}, ledger.ErrInvalidAmount
	}

	txs, err := s.store.Append(ctx, ledger.Entry{
		UserID: userID,
		Type:   ledger.TypeDebit,
		Amount: amount,
		Reason: reason,
	})
	if err != nil {
		return OperationResult{}, err
	}

	balance, err := s.store.Balance(ctx, userID)
	if err != nil {
		return OperationResult{}, err
	}

	s.emit(ctx, events.Event{
		Kind:          events.KindDebit,
		UserID:        userID,
		Amount:        amount,
		TransactionID: txs[0].ID,
		OccurredAt:    txs[0].CreatedAt,
	})

	return OperationResult{Transaction: txs[0], Balance: balance}, nil
}

// Transfer moves amount from one user to another as a linked debit/credit
// pair. Both legs share a transfer id and are applied atomically: a
// failure on either leg leaves both accounts unchanged. Transferring to
// oneself is allowed and nets to zero.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID string, amount int64, reason string) (TransferResult, error) {
	if amount <= 0 {
		return TransferResult{}, ledger.ErrInvalidAmount
	}

	debitReason := reason
	creditReason := reason
	if reason == "" {
		debitReason = fmt.Sprintf("Transfer to %s", toUserID)
		creditReason = fmt.Sprintf("Transfer from %s", fromUserID)
	}

	transferID := uuid.NewString()
	txs, err := s.store.Append(ctx,
		ledger.Entry{
			UserID:        fromUserID,
			Type:          ledger.TypeDebit,
			Amount:        amount,
			Reason:        debitReason,
			RelatedUserID: toUserID,
			TransferID:    transferID,
		},
		ledger.Entry{
			UserID:        toUserID,
			Type:          ledger.TypeCredit,
			Amount:        amount,
			Reason:        creditReason,
			RelatedUserID: fromUserID,
			TransferID:    transferID,
		},
	)
	if err != nil {
		return TransferResult{}, err
	}

	fromBalance, err := s.store.Balance(ctx, fromUserID)
	if err != nil {
		return TransferResult{}, err
	}
	toBalance, err := s.store.Balance(ctx, toUserID)
	if err != nil {
		return TransferResult{}, err
	}

	s.emit(ctx, events.Event{
		Kind:          events.KindTransfer,
		UserID:        fromUserID,
		RelatedUserID: toUserID,
		Amount:        amount,
		TransactionID: txs[0].ID,
		TransferID:    transferID,
		OccurredAt:    txs[0].CreatedAt,
	})

	return TransferResult{
		DebitTx:     txs[0],
		CreditTx:    txs[1],
		FromBalance: fromBalance,
		ToBalance:   toBalance,
	}, nil
}

// Balance returns the user's current balance, zero for unknown users.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Balance(ctx, userID)
}

// Transactions returns the user's history in the order it was written.
func (s *Service) Transactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	return s.store.TransactionsFor(ctx, userID)
}

// emit publishes fire-and-forget; event delivery never fails an operation.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	_ = s.publisher.Publish(ctx, event)
}
