package models

import (
	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

type RateResponse struct {
	ID        int64           `json:"id"`
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	RateDate  string          `json:"rateDate"`
	CreatedAt string          `json:"createdAt"`
}

type GetConversionRequest struct {
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
}

func (r GetConversionRequest) Validate() error {
	details := map[string]string{}

	if _, ok := domain.ParseCurrency(r.FromCurrency); !ok {
		details["fromCurrency"] = "fromCurrency is not supported"
	}
	if _, ok := domain.ParseCurrency(r.ToCurrency); !ok {
		details["toCurrency"] = "toCurrency is not supported"
	}

	if len(details) > 0 {
		return commons.ValidationErrorWithDetails("validation failed", details)
	}
	return nil
}

type ConversionResponse struct {
	FromCurrency string          `json:"fromCurrency"`
	ToCurrency   string          `json:"toCurrency"`
	Rate         decimal.Decimal `json:"rate"`
	RateDate     string          `json:"rateDate"`
}
