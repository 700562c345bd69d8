package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
)

type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	details := map[string]string{}

	if strings.TrimSpace(r.FromAccountID) == "" {
		details["fromAccountId"] = "fromAccountId is required"
	}
	if strings.TrimSpace(r.ToAccountID) == "" {
		details["toAccountId"] = "toAccountId is required"
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		details["amount"] = "amount must be greater than zero"
	}

	if len(details) > 0 {
		return commons.ValidationErrorWithDetails("validation failed", details)
	}
	return nil
}

type TransferResponse struct {
	FromAccountID  string          `json:"fromAccountId"`
	ToAccountID    string          `json:"toAccountId"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	DebitCurrency  string          `json:"debitCurrency"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	CreditCurrency string          `json:"creditCurrency"`
	Rate           decimal.Decimal `json:"rate"`
}
