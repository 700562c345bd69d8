package service_interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

type RateService interface {
	// ConversionRate returns the factor converting one unit of from
	// into units of to for the given date, falling back one day when
	// the date has no stored rate.
	ConversionRate(ctx context.Context, from, to domain.Currency, date time.Time) (decimal.Decimal, error)
	SaveRates(ctx context.Context, rates map[domain.Currency]decimal.Decimal, date time.Time) error
	GetRates(ctx context.Context) (commons.Response[[]models.RateResponse], error)
	GetConversion(ctx context.Context, req models.GetConversionRequest) (commons.Response[models.ConversionResponse], error)
}
