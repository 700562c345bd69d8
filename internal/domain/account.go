package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a user-owned money account. UserID, Currency, AccountNumber
// and CreatedAt are immutable after creation; Balance never goes below
// zero. An inactive account stays readable but rejects every balance
// mutation.
type Account struct {
	ID            string
	UserID        string
	AccountNumber string
	Currency      Currency
	Balance       decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
