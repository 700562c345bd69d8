package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

type CreateAccountRequest struct {
	UserID         string          `json:"userId"`
	Currency       string          `json:"currency"`
	AccountNumber  string          `json:"accountNumber"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

func (r CreateAccountRequest) Validate() error {
	details := map[string]string{}

	if strings.TrimSpace(r.UserID) == "" {
		details["userId"] = "userId is required"
	}
	if _, ok := domain.ParseCurrency(r.Currency); !ok {
		details["currency"] = "currency is not supported"
	}
	if !isAccountNumber(r.AccountNumber) {
		details["accountNumber"] = "accountNumber must be 1 to 20 digits"
	}
	if r.InitialBalance.IsNegative() {
		details["initialBalance"] = "initialBalance cannot be negative"
	}

	if len(details) > 0 {
		return commons.ValidationErrorWithDetails("validation failed", details)
	}
	return nil
}

type UpdateAccountBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

func (r UpdateAccountBalanceRequest) Validate() error {
	if r.Balance == nil {
		return commons.ValidationErrorWithDetails("validation failed", map[string]string{
			"balance": "balance is required",
		})
	}
	if r.Balance.IsNegative() {
		return commons.ValidationErrorWithDetails("validation failed", map[string]string{
			"balance": "balance cannot be negative",
		})
	}
	return nil
}

type FundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r FundsRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return commons.ValidationErrorWithDetails("validation failed", map[string]string{
			"amount": "amount must be greater than zero",
		})
	}
	return nil
}

type AccountResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	Active        bool            `json:"active"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

func isAccountNumber(raw string) bool {
	number := strings.TrimSpace(raw)
	if len(number) == 0 || len(number) > 20 {
		return false
	}
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
