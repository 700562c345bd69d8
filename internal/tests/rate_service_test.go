package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/commons"
	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/services"
)

type rateRepoStub struct {
	insertFn               func(ctx context.Context, rate domain.Rate) (domain.Rate, error)
	getByCurrencyAndDateFn func(ctx context.Context, code domain.Currency, date time.Time) (domain.Rate, error)
	getLatestByCurrencyFn  func(ctx context.Context, code domain.Currency) (domain.Rate, error)
	listFn                 func(ctx context.Context) ([]domain.Rate, error)
}

func (s rateRepoStub) Insert(ctx context.Context, rate domain.Rate) (domain.Rate, error) {
	if s.insertFn != nil {
		return s.insertFn(ctx, rate)
	}
	return rate, nil
}

func (s rateRepoStub) GetByCurrencyAndDate(ctx context.Context, code domain.Currency, date time.Time) (domain.Rate, error) {
	if s.getByCurrencyAndDateFn != nil {
		return s.getByCurrencyAndDateFn(ctx, code, date)
	}
	return domain.Rate{}, commons.ErrRecordNotFound
}

func (s rateRepoStub) GetLatestByCurrency(ctx context.Context, code domain.Currency) (domain.Rate, error) {
	if s.getLatestByCurrencyFn != nil {
		return s.getLatestByCurrencyFn(ctx, code)
	}
	return domain.Rate{}, commons.ErrRecordNotFound
}

func (s rateRepoStub) List(ctx context.Context) ([]domain.Rate, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRateServiceConversionRateSameCurrency(t *testing.T) {
	svc := services.NewRateService(nil)

	rate, err := svc.ConversionRate(context.Background(), domain.CurrencyUSD, domain.CurrencyUSD, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected rate 1, got %s", rate.String())
	}
}

func TestRateServiceConversionRateCrossCurrency(t *testing.T) {
	rates := map[domain.Currency]decimal.Decimal{
		domain.CurrencyUSD: decimal.NewFromInt(80),
		domain.CurrencyEUR: decimal.NewFromInt(90),
	}
	svc := services.NewRateService(rateRepoStub{
		getByCurrencyAndDateFn: func(_ context.Context, code domain.Currency, _ time.Time) (domain.Rate, error) {
			value, ok := rates[code]
			if !ok {
				return domain.Rate{}, commons.ErrRecordNotFound
			}
			return domain.Rate{CurrencyCode: code, Rate: value}, nil
		},
	})

	rate, err := svc.ConversionRate(context.Background(), domain.CurrencyEUR, domain.CurrencyUSD, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("1.125")) {
		t.Fatalf("expected rate 1.125, got %s", rate.String())
	}
}

func TestRateServiceConversionRateFromBaseCurrency(t *testing.T) {
	svc := services.NewRateService(rateRepoStub{
		getByCurrencyAndDateFn: func(_ context.Context, code domain.Currency, _ time.Time) (domain.Rate, error) {
			if code != domain.CurrencyUSD {
				t.Fatalf("unexpected lookup for %s", code)
			}
			return domain.Rate{CurrencyCode: code, Rate: decimal.NewFromInt(80)}, nil
		},
	})

	rate, err := svc.ConversionRate(context.Background(), domain.CurrencyRUB, domain.CurrencyUSD, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.0125")) {
		t.Fatalf("expected rate 0.0125, got %s", rate.String())
	}
}

func TestRateServiceConversionRateRoundsToSixPlaces(t *testing.T) {
	rates := map[domain.Currency]decimal.Decimal{
		domain.CurrencyUSD: decimal.NewFromInt(80),
		domain.CurrencyEUR: decimal.NewFromInt(90),
	}
	svc := services.NewRateService(rateRepoStub{
		getByCurrencyAndDateFn: func(_ context.Context, code domain.Currency, _ time.Time) (domain.Rate, error) {
			return domain.Rate{CurrencyCode: code, Rate: rates[code]}, nil
		},
	})

	// 80/90 = 0.888888... rounds half-up at the sixth place.
	rate, err := svc.ConversionRate(context.Background(), domain.CurrencyUSD, domain.CurrencyEUR, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.888889")) {
		t.Fatalf("expected rate 0.888889, got %s", rate.String())
	}
}

func TestRateServiceConversionRateFallsBackOneDay(t *testing.T) {
	requested := day("2026-09-01")
	svc := services.NewRateService(rateRepoStub{
		getByCurrencyAndDateFn: func(_ context.Context, code domain.Currency, date time.Time) (domain.Rate, error) {
			if date.Equal(requested) {
				return domain.Rate{}, commons.ErrRecordNotFound
			}
			if !date.Equal(day("2026-08-31")) {
				t.Fatalf("unexpected fallback date %s", date.Format("2006-01-02"))
			}
			return domain.Rate{CurrencyCode: code, Rate: decimal.NewFromInt(80)}, nil
		},
	})

	rate, err := svc.ConversionRate(context.Background(), domain.CurrencyUSD, domain.CurrencyRUB, requested)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected rate 80, got %s", rate.String())
	}
}

func TestRateServiceConversionRateMissingBothDays(t *testing.T) {
	svc := services.NewRateService(rateRepoStub{})

	_, err := svc.ConversionRate(context.Background(), domain.CurrencyUSD, domain.CurrencyRUB, day("2026-09-01"))
	if err == nil {
		t.Fatal("expected error when no rate is stored for either day")
	}
	if !commons.IsValidation(err) {
		t.Fatalf("expected validation error, got kind %s", commons.KindOf(err))
	}
}

func TestRateServiceSaveRatesSkipsUnchangedValue(t *testing.T) {
	inserted := 0
	svc := services.NewRateService(rateRepoStub{
		getLatestByCurrencyFn: func(_ context.Context, code domain.Currency) (domain.Rate, error) {
			return domain.Rate{
				CurrencyCode: code,
				Rate:         decimal.NewFromInt(80),
				RateDate:     day("2026-09-01"),
			}, nil
		},
		insertFn: func(_ context.Context, rate domain.Rate) (domain.Rate, error) {
			inserted++
			return rate, nil
		},
	})

	err := svc.SaveRates(context.Background(), map[domain.Currency]decimal.Decimal{
		domain.CurrencyUSD: decimal.NewFromInt(80),
	}, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected no inserts for unchanged rate, got %d", inserted)
	}
}

func TestRateServiceSaveRatesInsertsNewDate(t *testing.T) {
	var got domain.Rate
	svc := services.NewRateService(rateRepoStub{
		getLatestByCurrencyFn: func(_ context.Context, code domain.Currency) (domain.Rate, error) {
			return domain.Rate{
				CurrencyCode: code,
				Rate:         decimal.NewFromInt(79),
				RateDate:     day("2026-08-31"),
			}, nil
		},
		insertFn: func(_ context.Context, rate domain.Rate) (domain.Rate, error) {
			got = rate
			return rate, nil
		},
	})

	err := svc.SaveRates(context.Background(), map[domain.Currency]decimal.Decimal{
		domain.CurrencyUSD: decimal.NewFromInt(80),
	}, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.CurrencyCode != domain.CurrencyUSD || !got.Rate.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("unexpected inserted rate %+v", got)
	}
	if !got.RateDate.Equal(day("2026-09-01")) {
		t.Fatalf("unexpected inserted rate date %s", got.RateDate.Format("2006-01-02"))
	}
}

func TestRateServiceSaveRatesIsolatesPerCurrencyFailure(t *testing.T) {
	inserted := make([]domain.Currency, 0, 2)
	svc := services.NewRateService(rateRepoStub{
		insertFn: func(_ context.Context, rate domain.Rate) (domain.Rate, error) {
			if rate.CurrencyCode == domain.CurrencyEUR {
				return domain.Rate{}, commons.InternalError("insert failed")
			}
			inserted = append(inserted, rate.CurrencyCode)
			return rate, nil
		},
	})

	err := svc.SaveRates(context.Background(), map[domain.Currency]decimal.Decimal{
		domain.CurrencyEUR: decimal.NewFromInt(90),
		domain.CurrencyUSD: decimal.NewFromInt(80),
	}, day("2026-09-01"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(inserted) != 1 || inserted[0] != domain.CurrencyUSD {
		t.Fatalf("expected USD to be saved despite EUR failure, got %v", inserted)
	}
}

func TestRateServiceGetRatesSuccess(t *testing.T) {
	svc := services.NewRateService(rateRepoStub{
		listFn: func(context.Context) ([]domain.Rate, error) {
			return []domain.Rate{
				{
					ID:           1,
					CurrencyCode: domain.CurrencyUSD,
					Rate:         decimal.NewFromInt(80),
					RateDate:     day("2026-09-01"),
					CreatedAt:    time.Now().UTC(),
				},
			}, nil
		},
	})

	resp, err := svc.GetRates(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil || len(*resp.Data) != 1 {
		t.Fatal("expected one rate in successful response")
	}
}
