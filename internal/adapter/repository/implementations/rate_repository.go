package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"time"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
)

type RateRepository struct {
	db *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

func (r *RateRepository) Insert(ctx context.Context, rate domain.Rate) (domain.Rate, error) {
	logger.Info("rate repository insert", logger.Fields{
		"currency": rate.CurrencyCode,
		"rate":     rate.Rate,
		"rateDate": rate.RateDate.Format("2006-01-02"),
	})

	const query = `
INSERT INTO rates (
	currency_code,
	rate,
	rate_date
) VALUES ($1, $2, $3)
ON CONFLICT (currency_code, rate_date) DO UPDATE
SET rate = EXCLUDED.rate
RETURNING id, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		rate.CurrencyCode,
		rate.Rate,
		rate.RateDate,
	).Scan(&rate.ID, &rate.CreatedAt); err != nil {
		logger.Error("rate repository insert failed", err, logger.Fields{
			"currency": rate.CurrencyCode,
		})
		return domain.Rate{}, fmt.Errorf("insert rate: %w", err)
	}

	return rate, nil
}

func (r *RateRepository) GetByCurrencyAndDate(ctx context.Context, code domain.Currency, date time.Time) (domain.Rate, error) {
	const query = `
SELECT id, currency_code, rate, rate_date, created_at
FROM rates
WHERE currency_code = $1
  AND rate_date = $2`

	var rate domain.Rate
	if err := r.db.QueryRowContext(ctx, query, code, date).Scan(
		&rate.ID,
		&rate.CurrencyCode,
		&rate.Rate,
		&rate.RateDate,
		&rate.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Rate{}, commons.ErrRecordNotFound
		}
		logger.Error("rate repository get by currency and date failed", err, logger.Fields{
			"currency": code,
			"rateDate": date.Format("2006-01-02"),
		})
		return domain.Rate{}, fmt.Errorf("get rate: %w", err)
	}

	return rate, nil
}

func (r *RateRepository) GetLatestByCurrency(ctx context.Context, code domain.Currency) (domain.Rate, error) {
	const query = `
SELECT id, currency_code, rate, rate_date, created_at
FROM rates
WHERE currency_code = $1
ORDER BY rate_date DESC
LIMIT 1`

	var rate domain.Rate
	if err := r.db.QueryRowContext(ctx, query, code).Scan(
		&rate.ID,
		&rate.CurrencyCode,
		&rate.Rate,
		&rate.RateDate,
		&rate.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Rate{}, commons.ErrRecordNotFound
		}
		logger.Error("rate repository get latest by currency failed", err, logger.Fields{
			"currency": code,
		})
		return domain.Rate{}, fmt.Errorf("get latest rate: %w", err)
	}

	return rate, nil
}

func (r *RateRepository) List(ctx context.Context) ([]domain.Rate, error) {
	const query = `
SELECT id, currency_code, rate, rate_date, created_at
FROM rates
ORDER BY rate_date DESC, currency_code ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("rate repository list failed", err, nil)
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.Rate, 0)
	for rows.Next() {
		var rate domain.Rate
		if err := rows.Scan(
			&rate.ID,
			&rate.CurrencyCode,
			&rate.Rate,
			&rate.RateDate,
			&rate.CreatedAt,
		); err != nil {
			logger.Error("rate repository scan rate failed", err, nil)
			return nil, fmt.Errorf("scan rate: %w", err)
		}

		rates = append(rates, rate)
	}

	if err := rows.Err(); err != nil {
		logger.Error("rate repository iterate rates failed", err, nil)
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	return rates, nil
}
