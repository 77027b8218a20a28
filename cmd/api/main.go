package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalfit/vitalfit-backend/api/controllers"
	"github.com/vitalfit/vitalfit-backend/api/routes"
	billingsvc "github.com/vitalfit/vitalfit-backend/internal/billing"
	catalogsvc "github.com/vitalfit/vitalfit-backend/internal/catalog"
	checkoutsvc "github.com/vitalfit/vitalfit-backend/internal/checkout"
	"github.com/vitalfit/vitalfit-backend/internal/cron"
	"github.com/vitalfit/vitalfit-backend/internal/members"
	receiptsvc "github.com/vitalfit/vitalfit-backend/internal/receipts"
	"github.com/vitalfit/vitalfit-backend/internal/selection"
	"github.com/vitalfit/vitalfit-backend/internal/wishlist"
	"github.com/vitalfit/vitalfit-backend/pkg/config"
	"github.com/vitalfit/vitalfit-backend/pkg/db"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/metrics"
	"github.com/vitalfit/vitalfit-backend/pkg/migrate"
	"github.com/vitalfit/vitalfit-backend/pkg/redis"
	"github.com/vitalfit/vitalfit-backend/pkg/storage/gcs"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

	core, err := vitalfit.NewClient(context.Background(), cfg.Core, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create core api client", err)
		os.Exit(1)
	}

	store, err := selection.NewStore(selection.StoreParams{
		TTL:    cfg.Checkout.SessionTTL,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create selection store", err)
		os.Exit(1)
	}

	catalog, err := catalogsvc.NewService(catalogsvc.ServiceParams{
		Client:         core,
		Logger:         logg,
		ServicePageLen: cfg.Checkout.ServicePageLen,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	checkout, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:   store,
		Catalog: catalog,
		Billing: core,
		Logger:  logg,
		Metrics: metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer),
		Locale:  cfg.Core.DefaultLocale,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	// The catalog fronts the resolver so wishlist adds reuse pages the member
	// already browsed instead of refetching from the core API.
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(dbClient.DB()),
		Resolver: catalog,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	membersSvc, err := members.NewService(members.ServiceParams{
		Repo: members.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create members service", err)
		os.Exit(1)
	}

	activity, err := members.NewActivity(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity tracker", err)
		os.Exit(1)
	}

	receipts, err := receiptsvc.NewService(receiptsvc.ServiceParams{
		Storage:      gcsClient,
		Logger:       logg,
		KeyPrefix:    cfg.Receipts.KeyPrefix,
		MaxSizeBytes: cfg.Receipts.MaxSizeBytes,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create receipts service", err)
		os.Exit(1)
	}

	billing, err := billingsvc.NewService(billingsvc.ServiceParams{
		Client: core,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	// Session sweeping and catalog cache refresh act on process-local state,
	// so every api replica runs them with a local lock. The wishlist snapshot
	// job runs in cmd/cron-worker behind the Redis lock.
	sweepJob, err := cron.NewSessionSweepJob(cron.SessionSweepJobParams{Logger: logg, Store: store})
	if err != nil {
		logg.Error(context.Background(), "failed to create session sweep job", err)
		os.Exit(1)
	}
	refreshJob, err := cron.NewCatalogRefreshJob(cron.CatalogRefreshJobParams{Logger: logg, Catalog: catalog})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog refresh job", err)
		os.Exit(1)
	}
	maintenance, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob, refreshJob),
		Lock:     cron.LocalLock{},
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create maintenance service", err)
		os.Exit(1)
	}

	maintenanceCtx, stopMaintenance := context.WithCancel(context.Background())
	defer stopMaintenance()
	go func() {
		if err := maintenance.Run(maintenanceCtx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(maintenanceCtx, "maintenance loop stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config: cfg,
			Logger: logg,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"storage":  gcsClient,
			},
			Checkout: checkout,
			Catalog:  catalog,
			Wishlist: wishlistSvc,
			Members:  membersSvc,
			Activity: activity,
			Receipts: receipts,
			Billing:  billing,
			Metrics:  promhttp.Handler(),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
