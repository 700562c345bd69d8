package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/multicurrency-ledger/internal/adapter/events"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/feed"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/controller"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/http/router"
	"github.com/api-sage/multicurrency-ledger/internal/adapter/repository/implementations"
	"github.com/api-sage/multicurrency-ledger/internal/config"
	"github.com/api-sage/multicurrency-ledger/internal/logger"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/service_interfaces"
	"github.com/api-sage/multicurrency-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := implementations.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		cancelMigrate()
		log.Fatalf("run migrations: %v", err)
	}
	cancelMigrate()

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := implementations.Open(connectCtx, cfg.DatabaseDSN)
	cancelConnect()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := implementations.NewAccountRepository(db)
	userRepo := implementations.NewUserRepository(db)
	rateRepo := implementations.NewRateRepository(db)

	var notifier events.Notifier = events.NewLogNotifier()
	if cfg.EventSinkURL != "" {
		notifier = events.NewWebhookNotifier(cfg.EventSinkURL)
	}

	rateService := services.NewRateService(rateRepo)
	accountService := services.NewAccountService(accountRepo, userRepo, rateService, notifier)
	userService := services.NewUserService(userRepo)

	channelKeyHash, err := bcrypt.GenerateFromPassword([]byte(cfg.ChannelKey), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash channel key: %v", err)
	}
	authMiddleware := middleware.BasicAuth(cfg.ChannelID, channelKeyHash)

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewUserController(userService),
		controller.NewRateController(rateService),
		authMiddleware,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := startRateUpdates(ctx, cfg, rateService)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server starting", logger.Fields{
			"addr": cfg.HTTPAddr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	logger.Info("server stopped", nil)
}

// startRateUpdates runs one update at boot and registers the daily
// refresh. Boot failures are logged only; the stored rates keep serving
// until the next successful pull.
func startRateUpdates(ctx context.Context, cfg config.Config, rateService service_interfaces.RateService) *cron.Cron {
	var updater feed.Updater = feed.StaticUpdater{}
	if cfg.RateFeedURL != "" {
		updater = feed.NewCentralBankUpdater(feed.NewClient(cfg.RateFeedURL), rateService)
	}

	if err := updater.UpdateRates(ctx); err != nil {
		logger.Error("initial rate feed update failed", err, nil)
	}

	scheduler := cron.New()
	if err := feed.Schedule(scheduler, updater); err != nil {
		log.Fatalf("schedule rate updates: %v", err)
	}
	scheduler.Start()
	return scheduler
}
