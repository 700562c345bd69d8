package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

func seedAccount(t *testing.T, repo *AccountRepository, number string, balance string, active bool) domain.Account {
	t.Helper()
	account, err := repo.Create(context.Background(), domain.Account{
		UserID:        "user-1",
		AccountNumber: number,
		Currency:      domain.CurrencyRUB,
		Balance:       decimal.RequireFromString(balance),
		Active:        active,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return account
}

func TestAccountRepositoryConcurrentWithdrawals(t *testing.T) {
	repo := NewAccountRepository()
	account := seedAccount(t, repo, "40817810000000000001", "1000.00", true)

	amount := decimal.RequireFromString("600.00")
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Withdraw(context.Background(), account.ID, amount)
		}(i)
	}
	wg.Wait()

	rejected := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, commons.ErrInsufficientBalance) {
			t.Fatalf("unexpected withdrawal error: %v", err)
		}
		rejected++
	}
	if rejected != 1 {
		t.Fatalf("expected exactly one rejected withdrawal, got %d", rejected)
	}

	final, err := repo.GetByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !final.Balance.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("expected final balance 400.00, got %s", final.Balance.String())
	}
}

func TestAccountRepositoryTransferMovesBothLegs(t *testing.T) {
	repo := NewAccountRepository()
	from := seedAccount(t, repo, "40817810000000000001", "1000.00", true)
	to := seedAccount(t, repo, "40817840000000000002", "0.00", true)

	err := repo.Transfer(context.Background(), from.ID, decimal.RequireFromString("100.00"), to.ID, decimal.RequireFromString("1.25"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	gotFrom, _ := repo.GetByID(context.Background(), from.ID)
	gotTo, _ := repo.GetByID(context.Background(), to.ID)
	if !gotFrom.Balance.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("expected sender balance 900.00, got %s", gotFrom.Balance.String())
	}
	if !gotTo.Balance.Equal(decimal.RequireFromString("1.25")) {
		t.Fatalf("expected recipient balance 1.25, got %s", gotTo.Balance.String())
	}
}

func TestAccountRepositoryTransferToInactiveLeavesBalances(t *testing.T) {
	repo := NewAccountRepository()
	from := seedAccount(t, repo, "40817810000000000001", "1000.00", true)
	to := seedAccount(t, repo, "40817840000000000002", "0.00", false)

	err := repo.Transfer(context.Background(), from.ID, decimal.RequireFromString("100.00"), to.ID, decimal.RequireFromString("100.00"))
	if err == nil || !commons.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	gotFrom, _ := repo.GetByID(context.Background(), from.ID)
	gotTo, _ := repo.GetByID(context.Background(), to.ID)
	if !gotFrom.Balance.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected sender balance unchanged, got %s", gotFrom.Balance.String())
	}
	if !gotTo.Balance.IsZero() {
		t.Fatalf("expected recipient balance unchanged, got %s", gotTo.Balance.String())
	}
}

func TestAccountRepositoryTransferInsufficientFunds(t *testing.T) {
	repo := NewAccountRepository()
	from := seedAccount(t, repo, "40817810000000000001", "50.00", true)
	to := seedAccount(t, repo, "40817840000000000002", "0.00", true)

	err := repo.Transfer(context.Background(), from.ID, decimal.RequireFromString("100.00"), to.ID, decimal.RequireFromString("100.00"))
	if !errors.Is(err, commons.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}
}

func TestAccountRepositoryCreateDuplicateNumber(t *testing.T) {
	repo := NewAccountRepository()
	seedAccount(t, repo, "40817810000000000001", "0.00", true)

	_, err := repo.Create(context.Background(), domain.Account{
		UserID:        "user-2",
		AccountNumber: "40817810000000000001",
		Currency:      domain.CurrencyUSD,
		Balance:       decimal.Zero,
		Active:        true,
	})
	if err == nil || !commons.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAccountRepositoryDeleteIsIdempotent(t *testing.T) {
	repo := NewAccountRepository()
	account := seedAccount(t, repo, "40817810000000000001", "0.00", true)

	if err := repo.Delete(context.Background(), account.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repo.Delete(context.Background(), account.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), account.ID); !commons.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
