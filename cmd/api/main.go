package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rafaelortiz/vendtrack-backend/api/routes"
	"github.com/rafaelortiz/vendtrack-backend/internal/auth"
	"github.com/rafaelortiz/vendtrack-backend/internal/commerce"
	"github.com/rafaelortiz/vendtrack-backend/internal/products"
	"github.com/rafaelortiz/vendtrack-backend/internal/users"
	"github.com/rafaelortiz/vendtrack-backend/internal/vending"
	"github.com/rafaelortiz/vendtrack-backend/pkg/config"
	"github.com/rafaelortiz/vendtrack-backend/pkg/db"
	"github.com/rafaelortiz/vendtrack-backend/pkg/logger"
	"github.com/rafaelortiz/vendtrack-backend/pkg/metrics"
	"github.com/rafaelortiz/vendtrack-backend/pkg/migrate"
	"github.com/rafaelortiz/vendtrack-backend/pkg/redis"
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

	userRepo, err := users.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build user repository", err)
		os.Exit(1)
	}
	productRepo, err := products.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build product repository", err)
		os.Exit(1)
	}
	machineRepo, err := vending.NewRepository(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to build vending machine repository", err)
		os.Exit(1)
	}

	vendingService := vending.NewService(machineRepo, logg)
	commerceService, err := commerce.NewService(dbClient, userRepo, machineRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce service", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Tx:             dbClient,
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promRegistry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg,
			dbClient, redisClient,
			promRegistry, httpMetrics,
			authService, vendingService, commerceService,
			userRepo, productRepo, machineRepo,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
