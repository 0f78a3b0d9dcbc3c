package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/MOR6969/vape-bill/api/controllers"
	"github.com/MOR6969/vape-bill/api/routes"
	"github.com/MOR6969/vape-bill/internal/billing"
	"github.com/MOR6969/vape-bill/internal/catalog"
	"github.com/MOR6969/vape-bill/internal/cron"
	"github.com/MOR6969/vape-bill/internal/history"
	"github.com/MOR6969/vape-bill/internal/invoice"
	"github.com/MOR6969/vape-bill/pkg/config"
	"github.com/MOR6969/vape-bill/pkg/db"
	"github.com/MOR6969/vape-bill/pkg/enums"
	"github.com/MOR6969/vape-bill/pkg/instance"
	"github.com/MOR6969/vape-bill/pkg/logger"
	"github.com/MOR6969/vape-bill/pkg/metrics"
	"github.com/MOR6969/vape-bill/pkg/migrate"
	"github.com/MOR6969/vape-bill/pkg/redis"
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
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	billingMetrics := metrics.NewBillingMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cronMetrics := metrics.NewCronJobMetrics(registry)

	catalogStore, err := loadCatalog(ctx, cfg, logg, redisClient)
	requireResource(ctx, logg, "catalog", err)

	var (
		sessionStore billing.Store
		memoryStore  *billing.MemoryStore
	)
	if cfg.Session.UsesRedis() {
		sessionStore = billing.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		memoryStore = billing.NewMemoryStore(cfg.Session.TTL)
		sessionStore = memoryStore
	}

	builder, err := invoice.NewBuilder(invoice.Options{
		Company: invoice.Company{
			Name:    cfg.Export.CompanyName,
			Address: cfg.Export.CompanyAddress,
			Phone:   cfg.Export.CompanyPhone,
			Email:   cfg.Export.CompanyEmail,
		},
		NodeID: cfg.Export.SnowflakeNode,
	})
	requireResource(ctx, logg, "invoice builder", err)

	historyService, err := history.NewService(history.NewRepository(dbClient.DB()), dbClient)
	requireResource(ctx, logg, "history service", err)

	defaultLanguage, err := enums.ParseLanguage(cfg.Export.DefaultLanguage)
	requireResource(ctx, logg, "default language", err)

	billingParams := billing.ServiceParams{
		Store:           sessionStore,
		Catalog:         catalogStore,
		Builder:         builder,
		Metrics:         billingMetrics,
		Logger:          logg,
		DefaultLanguage: defaultLanguage,
	}
	if cfg.Export.RecordHistory {
		billingParams.History = historyService
	}
	billingService, err := billing.NewService(billingParams)
	requireResource(ctx, logg, "billing service", err)

	if cfg.Cron.Enabled {
		cronService, err := buildCron(cfg, logg, cronMetrics, redisClient, memoryStore, catalogStore)
		requireResource(ctx, logg, "cron service", err)
		go func() {
			if err := cronService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "cron service stopped", err)
			}
		}()
	}

	checks := []controllers.ReadinessCheck{{Name: "database", Pinger: dbClient}}
	if redisClient != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Checks:      checks,
			Catalog:     catalogStore,
			Billing:     billingService,
			History:     historyService,
			Gatherer:    registry,
			HTTPMetrics: httpMetrics,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	closeErr := server.Shutdown(shutdownCtx)
	if err := catalogStore.PersistCache(shutdownCtx); err != nil {
		closeErr = multierr.Append(closeErr, err)
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		os.Exit(1)
	}
}

func loadCatalog(ctx context.Context, cfg *config.Config, logg *logger.Logger, redisClient *redis.Client) (*catalog.Store, error) {
	var (
		seed catalog.Catalog
		err  error
	)
	if cfg.Catalog.Path != "" {
		seed, err = catalog.LoadFile(cfg.Catalog.Path)
	} else {
		seed, err = catalog.Default()
	}
	if err != nil {
		return nil, err
	}

	var cache catalog.Cache
	if redisClient != nil {
		cache = catalog.NewRedisCache(redisClient, cfg.Catalog.CacheTTL)
	}
	store := catalog.NewStore(seed, cache, logg)

	restored, err := store.Restore(ctx)
	if err != nil {
		logg.Error(ctx, "catalog cache unavailable, using seed catalog", err)
	} else if restored {
		logg.Info(ctx, "catalog restored from cache")
	}
	return store, nil
}

func buildCron(
	cfg *config.Config,
	logg *logger.Logger,
	cronMetrics *metrics.CronJobMetrics,
	redisClient *redis.Client,
	memoryStore *billing.MemoryStore,
	catalogStore *catalog.Store,
) (*cron.Service, error) {
	jobs := cron.NewRegistry()
	if memoryStore != nil {
		job, err := cron.NewSessionSweepJob(cron.SessionSweepJobParams{Logger: logg, Store: memoryStore})
		if err != nil {
			return nil, err
		}
		if err := jobs.Register(job); err != nil {
			return nil, err
		}
	}
	if redisClient != nil {
		job, err := cron.NewCatalogCacheJob(cron.CatalogCacheJobParams{Logger: logg, Catalog: catalogStore})
		if err != nil {
			return nil, err
		}
		if err := jobs.Register(job); err != nil {
			return nil, err
		}
	}

	var lock cron.Lock = &cron.LocalLock{}
	if redisClient != nil {
		redisLock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron"), cfg.Cron.Interval)
		if err != nil {
			return nil, err
		}
		lock = redisLock
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
		Instance: instance.GetID(),
	})
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
