package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

// AccountRepository is the only component allowed to mutate balances.
// Deposit, Withdraw and Transfer are serialized per account: two
// concurrent mutations of the same account never apply on a stale read.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.Account, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) (domain.Account, error)
	Delete(ctx context.Context, id string) error
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error)

	// Transfer applies the debit and the credit as one atomic unit of
	// work: either both commit or neither is visible.
	Transfer(ctx context.Context, fromID string, debitAmount decimal.Decimal, toID string, creditAmount decimal.Decimal) error
}
