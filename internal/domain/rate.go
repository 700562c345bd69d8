package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the value of one unit of CurrencyCode expressed in the base
// currency, effective for RateDate. At most one rate exists per
// (currency, date) pair.
type Rate struct {
	ID           int64
	CurrencyCode Currency
	Rate         decimal.Decimal
	RateDate     time.Time
	CreatedAt    time.Time
}
