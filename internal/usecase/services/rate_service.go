package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/models"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

// Verify that RateService implements the service_interfaces.RateService interface
var _ service_interfaces.RateService = (*RateService)(nil)

const conversionRateScale = 6

type RateService struct {
	rateRepo repo_interfaces.RateRepository
}

func NewRateService(rateRepo repo_interfaces.RateRepository) *RateService {
	return &RateService{rateRepo: rateRepo}
}

// ConversionRate computes units of to received per unit of from sent,
// as rate(from)/rate(to) against the base currency, rounded half-up to
// six decimal places.
func (s *RateService) ConversionRate(ctx context.Context, from, to domain.Currency, date time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rateFrom, err := s.resolveRate(ctx, from, date)
	if err != nil {
		return decimal.Decimal{}, err
	}

	rateTo, err := s.resolveRate(ctx, to, date)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if rateTo.IsZero() {
		return decimal.Decimal{}, commons.InternalError("stored rate for %s is zero", to)
	}

	return rateFrom.DivRound(rateTo, conversionRateScale), nil
}

// resolveRate looks up the rate for the requested date and retries one
// calendar day back, covering the window before the daily feed has
// published.
func (s *RateService) resolveRate(ctx context.Context, code domain.Currency, date time.Time) (decimal.Decimal, error) {
	if code == domain.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}

	day := dateOnly(date)
	rate, err := s.rateRepo.GetByCurrencyAndDate(ctx, code, day)
	if err == nil {
		return rate.Rate, nil
	}
	if !commons.IsNotFound(err) {
		return decimal.Decimal{}, err
	}

	previousDay := day.AddDate(0, 0, -1)
	rate, err = s.rateRepo.GetByCurrencyAndDate(ctx, code, previousDay)
	if err == nil {
		logger.Info("rate service used previous day rate", logger.Fields{
			"currency": code,
			"rateDate": previousDay.Format("2006-01-02"),
		})
		return rate.Rate, nil
	}
	if !commons.IsNotFound(err) {
		return decimal.Decimal{}, err
	}

	return decimal.Decimal{}, commons.ValidationError(
		"rate for %s not found for %s or %s",
		code,
		day.Format("2006-01-02"),
		previousDay.Format("2006-01-02"),
	)
}

// SaveRates ingests a daily batch. Re-ingesting an unchanged value for
// the same date is a no-op; a failure for one currency does not abort
// the rest of the batch.
func (s *RateService) SaveRates(ctx context.Context, rates map[domain.Currency]decimal.Decimal, date time.Time) error {
	day := dateOnly(date)

	codes := make([]domain.Currency, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	saved := 0
	for _, code := range codes {
		if err := s.saveRate(ctx, code, rates[code], day); err != nil {
			logger.Error("rate service save rate failed", err, logger.Fields{
				"currency": code,
				"rateDate": day.Format("2006-01-02"),
			})
			continue
		}
		saved++
	}

	logger.Info("rate service save rates completed", logger.Fields{
		"received": len(rates),
		"saved":    saved,
		"rateDate": day.Format("2006-01-02"),
	})
	return nil
}

func (s *RateService) saveRate(ctx context.Context, code domain.Currency, value decimal.Decimal, day time.Time) error {
	latest, err := s.rateRepo.GetLatestByCurrency(ctx, code)
	if err != nil && !commons.IsNotFound(err) {
		return err
	}

	if err == nil && dateOnly(latest.RateDate).Equal(day) && latest.Rate.Equal(value) {
		logger.Info("rate service rate already current", logger.Fields{
			"currency": code,
			"rateDate": day.Format("2006-01-02"),
		})
		return nil
	}

	_, err = s.rateRepo.Insert(ctx, domain.Rate{
		CurrencyCode: code,
		Rate:         value,
		RateDate:     day,
	})
	return err
}

func (s *RateService) GetRates(ctx context.Context) (commons.Response[[]models.RateResponse], error) {
	logger.Info("rate service get rates request", nil)

	rates, err := s.rateRepo.List(ctx)
	if err != nil {
		logger.Error("rate service get rates failed", err, nil)
		return commons.ErrorResponse[[]models.RateResponse]("failed to get rates", "Unable to fetch rates right now"), err
	}

	resp := make([]models.RateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, mapRateToResponse(rate))
	}

	logger.Info("rate service get rates success", logger.Fields{
		"count": len(resp),
	})

	return commons.SuccessResponse("rates fetched successfully", resp), nil
}

func (s *RateService) GetConversion(ctx context.Context, req models.GetConversionRequest) (commons.Response[models.ConversionResponse], error) {
	logger.Info("rate service get conversion request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service get conversion validation failed", err, nil)
		return commons.ErrorResponseFrom[models.ConversionResponse]("validation failed", err), err
	}

	from, _ := domain.ParseCurrency(req.FromCurrency)
	to, _ := domain.ParseCurrency(req.ToCurrency)
	today := time.Now().UTC()

	rate, err := s.ConversionRate(ctx, from, to, today)
	if err != nil {
		logger.Error("rate service get conversion failed", err, logger.Fields{
			"fromCurrency": from,
			"toCurrency":   to,
		})
		return commons.ErrorResponseFrom[models.ConversionResponse]("failed to get conversion rate", err), err
	}

	response := models.ConversionResponse{
		FromCurrency: string(from),
		ToCurrency:   string(to),
		Rate:         rate,
		RateDate:     dateOnly(today).Format("2006-01-02"),
	}

	return commons.SuccessResponse("conversion rate fetched successfully", response), nil
}

func mapRateToResponse(rate domain.Rate) models.RateResponse {
	return models.RateResponse{
		ID:        rate.ID,
		Currency:  string(rate.CurrencyCode),
		Rate:      rate.Rate,
		RateDate:  rate.RateDate.Format("2006-01-02"),
		CreatedAt: rate.CreatedAt.Format(time.RFC3339),
	}
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
