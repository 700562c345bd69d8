package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

// RateRepository stores one rate per (currency, date). Records are
// append-mostly: ingestion inserts new dates, never rewrites old ones.
type RateRepository interface {
	Insert(ctx context.Context, rate domain.Rate) (domain.Rate, error)
	GetByCurrencyAndDate(ctx context.Context, code domain.Currency, date time.Time) (domain.Rate, error)
	GetLatestByCurrency(ctx context.Context, code domain.Currency) (domain.Rate, error)
	List(ctx context.Context) ([]domain.Rate, error)
}
