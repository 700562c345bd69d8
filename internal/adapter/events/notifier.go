package events

import (
	"context"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
)

// Notifier receives post-commit account events. Delivery is at-most-once:
// callers log a failed publish and move on, the committed ledger state is
// never affected.
type Notifier interface {
	Publish(ctx context.Context, event domain.AccountEvent) error
}

// LogNotifier writes events to the application log. Used when no event
// sink is configured.
type LogNotifier struct{}

func NewLogNotifier() LogNotifier {
	return LogNotifier{}
}

func (LogNotifier) Publish(_ context.Context, event domain.AccountEvent) error {
	logger.Info("account event", logger.Fields{
		"eventId":   event.ID,
		"eventType": event.EventType,
		"accountId": event.AccountID,
		"userId":    event.UserID,
		"balance":   event.Balance,
		"currency":  event.Currency,
		"message":   event.Message,
	})
	return nil
}
