package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/mailauth"
	"github.com/dmitrymomot/mailauth/httpapi"
	"github.com/dmitrymomot/mailauth/pkg/db"
	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
	"github.com/dmitrymomot/mailauth/pkg/dnsresolver"
	"github.com/dmitrymomot/mailauth/pkg/health"
	"github.com/dmitrymomot/mailauth/pkg/logger"
	"github.com/dmitrymomot/mailauth/pkg/mailer"
	"github.com/dmitrymomot/mailauth/pkg/mailer/resend"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
	"github.com/dmitrymomot/mailauth/postgres"
)

type config struct {
	DB       db.Config
	DNS      dnscheck.Config
	Resolver dnsresolver.Config
	Mailer   mailer.Config
	Resend   resend.Config
	HTTP     httpapi.Config
	Sentry   logger.SentryConfig

	// DKIMKeyPath points at the platform's PEM-encoded RSA signing key.
	DKIMKeyPath string `env:"DKIM_KEY_PATH,required"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.RequestID)

	keyPEM, err := os.ReadFile(cfg.DKIMKeyPath)
	if err != nil {
		return err
	}
	cfg.DNS.DKIMKey, err = dnscheck.ParseDKIMKey(keyPEM)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, postgres.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	resolver := dnsresolver.New(cfg.Resolver)
	store := postgres.NewStore(pool)
	service := mailauth.NewService(
		store,
		verifier.New(resolver),
		dnscheck.NewChecker(cfg.DNS, resolver, log),
		mailer.New(resend.New(cfg.Resend), mailauth.Templates(), cfg.Mailer),
		log,
	)

	router := httpapi.NewHandler(service, store, log).Router()
	router.Get("/health/live", health.Liveness())
	router.Get("/health/ready", health.Readiness(health.Checks{
		"postgres": db.Healthcheck(pool),
	}, 5*time.Second))

	server := httpapi.NewServer(cfg.HTTP, router, log)
	return server.Run(ctx)
}
