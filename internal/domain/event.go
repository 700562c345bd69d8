package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventAccountCreated    EventType = "ACCOUNT_CREATED"
	EventAccountUpdated    EventType = "ACCOUNT_UPDATED"
	EventAccountDeleted    EventType = "ACCOUNT_DELETED"
	EventBalanceChanged    EventType = "BALANCE_CHANGED"
	EventTransferCompleted EventType = "TRANSFER_COMPLETED"
)

// AccountEvent is the payload handed to the event notifier after a
// committed account mutation. Delivery is best-effort.
type AccountEvent struct {
	ID        string          `json:"id"`
	EventType EventType       `json:"eventType"`
	AccountID string          `json:"accountId"`
	UserID    string          `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  Currency        `json:"currency"`
	Timestamp time.Time       `json:"timestamp"`
	Message   string          `json:"message"`
}
