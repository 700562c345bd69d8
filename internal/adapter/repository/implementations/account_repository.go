package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
)

const accountColumns = `id, user_id, account_number, currency_code, balance, is_active, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"userId":        account.UserID,
		"accountNumber": account.AccountNumber,
		"currency":      account.Currency,
	})

	const query = `
INSERT INTO bank_accounts (
	user_id,
	account_number,
	currency_code,
	balance,
	is_active
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	var id string
	var createdAt time.Time
	var updatedAt time.Time

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.AccountNumber,
		account.Currency,
		account.Balance,
		account.Active,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository duplicate account number", logger.Fields{
				"accountNumber": account.AccountNumber,
			})
			return domain.Account{}, commons.ConflictError("account number %s already exists", account.AccountNumber)
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"userId":        account.UserID,
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM bank_accounts
WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", logger.Fields{
				"accountId": id,
			})
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM bank_accounts
	WHERE account_number = $1
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		logger.Error("account repository exists by account number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return false, fmt.Errorf("check account number existence: %w", err)
	}

	return exists, nil
}

func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM bank_accounts
ORDER BY created_at DESC, id
LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM bank_accounts
WHERE user_id = $1
ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error("account repository list by user failed", err, logger.Fields{
			"userId": userID,
		})
		return nil, fmt.Errorf("list accounts by user: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository update balance", logger.Fields{
		"accountId": id,
		"balance":   balance,
	})

	const query = `
UPDATE bank_accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, balance))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository update balance failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("update account balance: %w", err)
	}

	return account, nil
}

// Delete is a no-op when the account is already absent.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM bank_accounts WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		logger.Error("account repository delete failed", err, logger.Fields{
			"accountId": id,
		})
		return fmt.Errorf("delete account: %w", err)
	}

	logger.Info("account repository delete success", logger.Fields{
		"accountId": id,
	})
	return nil
}

func (r *AccountRepository) Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository deposit", logger.Fields{
		"accountId": id,
		"amount":    amount,
	})

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Account{}, commons.ValidationError("deposit amount must be positive")
	}

	const query = `
UPDATE bank_accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND is_active
RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, r.diagnoseMutationFailure(ctx, id, decimal.Zero)
		}
		logger.Error("account repository deposit failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("deposit: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account repository withdraw", logger.Fields{
		"accountId": id,
		"amount":    amount,
	})

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Account{}, commons.ValidationError("withdrawal amount must be positive")
	}

	// The balance condition makes concurrent withdrawals race-safe: the
	// row update is atomic and one of two competing debits loses.
	const query = `
UPDATE bank_accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND is_active
  AND balance >= $2::numeric
RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, r.diagnoseMutationFailure(ctx, id, amount)
		}
		logger.Error("account repository withdraw failed", err, logger.Fields{
			"accountId": id,
		})
		return domain.Account{}, fmt.Errorf("withdraw: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Transfer(ctx context.Context, fromID string, debitAmount decimal.Decimal, toID string, creditAmount decimal.Decimal) error {
	logger.Info("account repository transfer", logger.Fields{
		"fromAccountId": fromID,
		"debitAmount":   debitAmount,
		"toAccountId":   toID,
		"creditAmount":  creditAmount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account repository begin tx failed", err, nil)
		return fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const debitQuery = `
UPDATE bank_accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND is_active
  AND balance >= $2::numeric`
	var rows int64
	if rows, err = execRows(ctx, tx, debitQuery, fromID, debitAmount); err != nil {
		return err
	}
	if rows == 0 {
		err = commons.ErrInsufficientBalance
		return err
	}

	const creditQuery = `
UPDATE bank_accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND is_active`
	if rows, err = execRows(ctx, tx, creditQuery, toID, creditAmount); err != nil {
		return err
	}
	if rows == 0 {
		err = commons.ValidationError("destination account is inactive")
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account repository commit tx failed", err, nil)
		return fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("account repository transfer success", logger.Fields{
		"fromAccountId": fromID,
		"toAccountId":   toID,
	})
	return nil
}

// diagnoseMutationFailure explains a zero-row conditional update:
// missing row, inactive account, or insufficient balance.
func (r *AccountRepository) diagnoseMutationFailure(ctx context.Context, id string, amount decimal.Decimal) error {
	account, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.Active {
		return commons.ValidationError("account is inactive")
	}
	if amount.GreaterThan(decimal.Zero) && account.Balance.LessThan(amount) {
		return commons.ErrInsufficientBalance
	}
	return commons.InternalError("account mutation affected no rows")
}

func execRows(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("execute transfer leg: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("transfer leg rows affected: %w", err)
	}

	return rows, nil
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.Currency,
		&account.Balance,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.Currency,
			&account.Balance,
			&account.Active,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
