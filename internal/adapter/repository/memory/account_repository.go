package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

// AccountRepository is an in-memory account store with the same
// semantics as the postgres implementation. A single mutex serializes
// every balance mutation, which keeps per-account histories totally
// ordered.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	nextID   int
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]domain.Account),
	}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, commons.ConflictError("account number %s already exists", account.AccountNumber)
		}
	}

	r.nextID++
	account.ID = fmt.Sprintf("acc-%d", r.nextID)
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = account

	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return account, nil
}

func (r *AccountRepository) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *AccountRepository) ListByUserID(_ context.Context, userID string) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Account, 0)
	for _, account := range r.accounts {
		if account.UserID == userID {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AccountRepository) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	account.Balance = balance
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

func (r *AccountRepository) Deposit(_ context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Account{}, commons.ValidationError("deposit amount must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	if !account.Active {
		return domain.Account{}, commons.ValidationError("account is inactive")
	}

	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) Withdraw(_ context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Account{}, commons.ValidationError("withdrawal amount must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	if !account.Active {
		return domain.Account{}, commons.ValidationError("account is inactive")
	}
	if account.Balance.LessThan(amount) {
		return domain.Account{}, commons.ErrInsufficientBalance
	}

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = time.Now().UTC()
	r.accounts[id] = account
	return account, nil
}

// Transfer validates both legs before mutating anything, so a failed
// leg leaves both balances untouched.
func (r *AccountRepository) Transfer(_ context.Context, fromID string, debitAmount decimal.Decimal, toID string, creditAmount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.accounts[fromID]
	if !ok {
		return commons.ErrRecordNotFound
	}
	to, ok := r.accounts[toID]
	if !ok {
		return commons.ErrRecordNotFound
	}

	if !from.Active {
		return commons.ValidationError("account is inactive")
	}
	if from.Balance.LessThan(debitAmount) {
		return commons.ErrInsufficientBalance
	}
	if !to.Active {
		return commons.ValidationError("destination account is inactive")
	}

	now := time.Now().UTC()
	from.Balance = from.Balance.Sub(debitAmount)
	from.UpdatedAt = now
	to.Balance = to.Balance.Add(creditAmount)
	to.UpdatedAt = now
	r.accounts[fromID] = from
	r.accounts[toID] = to

	return nil
}
