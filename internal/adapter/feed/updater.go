package feed

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
)

// rateUpdateSchedule runs shortly after the central bank publishes the
// daily document.
const rateUpdateSchedule = "0 3 * * *"

type Updater interface {
	UpdateRates(ctx context.Context) error
}

// CentralBankUpdater pulls the daily document, parses it and stores the
// quotes through the rate service.
type CentralBankUpdater struct {
	client *Client
	rates  service_interfaces.RateService
}

func NewCentralBankUpdater(client *Client, rates service_interfaces.RateService) *CentralBankUpdater {
	return &CentralBankUpdater{client: client, rates: rates}
}

func (u *CentralBankUpdater) UpdateRates(ctx context.Context) error {
	logger.Info("rate feed update started", nil)

	raw, err := u.client.Fetch(ctx)
	if err != nil {
		logger.Error("rate feed fetch failed", err, nil)
		return err
	}

	rates, err := ParseValCurs(raw)
	if err != nil {
		logger.Error("rate feed parse failed", err, nil)
		return err
	}

	// The base currency never appears in its own feed.
	rates[domain.BaseCurrency] = decimal.NewFromInt(1)

	if err := u.rates.SaveRates(ctx, rates, time.Now().UTC()); err != nil {
		logger.Error("rate feed save failed", err, nil)
		return err
	}

	logger.Info("rate feed update finished", logger.Fields{
		"currencies": len(rates),
	})
	return nil
}

// StaticUpdater stands in when no feed endpoint is configured; rates
// must then be seeded through the rate ingestion path directly.
type StaticUpdater struct{}

func (StaticUpdater) UpdateRates(ctx context.Context) error {
	logger.Info("rate feed not configured, skipping update", nil)
	return nil
}

// Schedule registers the daily update on the given cron runner.
func Schedule(c *cron.Cron, updater Updater) error {
	_, err := c.AddFunc(rateUpdateSchedule, func() {
		if err := updater.UpdateRates(context.Background()); err != nil {
			logger.Error("scheduled rate feed update failed", err, nil)
		}
	})
	return err
}
