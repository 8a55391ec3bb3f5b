package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/vitrinehq/vitrine/internal/adapter/copywriter"
	vhttp "github.com/vitrinehq/vitrine/internal/adapter/http"
	"github.com/vitrinehq/vitrine/internal/adapter/mailer"
	vnats "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/adapter/payments"
	"github.com/vitrinehq/vitrine/internal/adapter/postgres"
	"github.com/vitrinehq/vitrine/internal/adapter/ristretto"
	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/logger"
	"github.com/vitrinehq/vitrine/internal/middleware"
	pay "github.com/vitrinehq/vitrine/internal/port/payments"
	"github.com/vitrinehq/vitrine/internal/service"
)

// Trial reminders go out inside this window, checked on the interval.
const (
	trialWindow        = 72 * time.Hour
	trialCheckInterval = 6 * time.Hour
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	shutdownTelemetry, err := otel.Setup(ctx, cfg.Telemetry, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := vnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	cache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	mail := mailer.New(cfg.Mail)
	copyGen := copywriter.New(cfg.Copywriter)
	gateways := []pay.Gateway{
		payments.NewStripe(cfg.Billing.Stripe),
		payments.NewMercadoPago(cfg.Billing.MercadoPago),
	}

	// --- Services ---
	store := postgres.NewStore(pool)
	authSvc := service.NewAuthService(store, &cfg.Auth)
	subSvc := service.NewSubscriptionService(store)
	billingSvc := service.NewBillingService(store, gateways, queue, mail, cfg.Billing, metrics)

	handlers := &vhttp.Handlers{
		Auth:          authSvc,
		Tenants:       service.NewTenantService(store, queue, mail),
		Subscriptions: subSvc,
		Catalog:       service.NewCatalogService(store, subSvc, copyGen, metrics),
		Themes:        service.NewThemeService(store, subSvc, cfg.Themes.ProPlans, metrics),
		Quotes:        service.NewQuoteService(store, queue, metrics),
		Storefront:    service.NewStorefrontService(store, cache, cfg.Storefront, cfg.Cache.StorefrontTTL, metrics),
		Billing:       billingSvc,
		Notifications: service.NewNotificationService(store),
		Superadmin:    service.NewSuperadminService(store, queue, cache),
	}

	// --- HTTP ---
	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(limiter.Handler)
	r.Use(vhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(vhttp.SecurityHeaders)
	r.Use(vhttp.Logger)

	vhttp.MountRoutes(r, handlers, authSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(trialCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := billingSvc.NotifyTrialsEnding(gctx, trialWindow); err != nil {
					slog.Warn("trial reminder sweep failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
