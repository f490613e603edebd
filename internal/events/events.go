package events

import (
	"context"
	"log/slog"
	"time"
)

const (
	// KindCredit indicates a completed credit posting.
	KindCredit = "transaction.credit"
	// KindDebit indicates a completed debit posting.
	KindDebit = "transaction.debit"
	// KindTransfer indicates a completed two-leg transfer.
	KindTransfer = "transaction.transfer"
)

// Event describes a completed ledger mutation for downstream consumers.
type Event struct {
	Kind          string    `json:"kind"`
	UserID        string    `json:"user_id"`
	RelatedUserID string    `json:"related_user_id,omitempty"`
	Amount        int64     `json:"amount"`
	TransactionID int64     `json:"transaction_id"`
	TransferID    string    `json:"transfer_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers events to downstream systems.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LoggerPublisher writes events to the structured logger. It is the
// publisher used when no broker is configured.
type LoggerPublisher struct {
	logger *slog.Logger
}

// NewLoggerPublisher constructs a logging publisher.
func NewLoggerPublisher(logger *slog.Logger) *LoggerPublisher {
	return &LoggerPublisher{logger: logger}
}

// Publish writes the event to the logger.
func (p *LoggerPublisher) Publish(_ context.Context, event Event) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("ledger event",
		"kind", event.Kind,
		"user_id", event.UserID,
		"amount", event.Amount,
		"transaction_id", event.TransactionID,
		"transfer_id", event.TransferID,
	)
	return nil
}
