package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"payment-reports/internal/clock"
	"payment-reports/internal/config"
	"payment-reports/internal/migrations"
	"payment-reports/internal/payments"
	"payment-reports/internal/payments/entities"
	"payment-reports/internal/payments/repository"
	"payment-reports/internal/redis"
	"time"
)

// importLockTTL bounds how long a crashed loader blocks the next one; WithLock
// keeps extending it while an import is running.
const importLockTTL = 30 * time.Second

type App struct {
	Config  *config.Config
	Store   repository.Payment
	Service *payments.Service

	redis *redis.Client
}

// New opens the store selected by cfg and builds the query service on top of it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	if err := a.openStore(ctx, loc); err != nil {
		return nil, err
	}

	a.Service = payments.NewPaymentService(a.Store, clock.NewSystem(loc))
	return a, nil
}

func (a *App) openStore(ctx context.Context, loc *time.Location) error {
	cfg := a.Config

	switch cfg.Source {
	case config.SourceMemory:
		if cfg.PaymentsFile == "" {
			a.Store = payments.NewInMemoryPaymentDB()
			return nil
		}
		seed, err := payments.ReadPaymentsFile(cfg.PaymentsFile)
		if err != nil {
			return err
		}
		slog.Info("loaded payments fixture", "file", cfg.PaymentsFile, "payments", len(seed))
		a.Store = payments.NewInMemoryPaymentDB(seed...)

	case config.SourceSQLite:
		repo, err := payments.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.Store = repo

	case config.SourcePostgres:
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			return err
		}
		repo, err := payments.NewPaymentPostgresRepository(ctx, cfg.DatabaseURL, loc)
		if err != nil {
			return err
		}
		a.Store = repo

	case config.SourceRedis:
		a.redis = redis.NewClient(cfg.RedisURL)
		if err := a.redis.Client.Ping(ctx).Err(); err != nil {
			a.redis.Close()
			return fmt.Errorf("error pinging redis: %w", err)
		}
		a.Store = payments.NewPaymentRedisRepository(a.redis.Client)

	default:
		return fmt.Errorf("unknown payments source %q", cfg.Source)
	}
	return nil
}

// Import writes payments into the store, optionally purging it first. On the
// redis source the whole import runs under a distributed lock.
func (a *App) Import(ctx context.Context, records []entities.Payment, purge bool) error {
	run := func(ctx context.Context) error {
		if purge {
			if err := a.Store.Purge(ctx); err != nil {
				return err
			}
		}
		for _, p := range records {
			if err := a.Store.Save(ctx, p); err != nil {
				return err
			}
		}
		return nil
	}

	if a.redis != nil {
		return a.redis.WithLock(ctx, "payments:import", importLockTTL, run)
	}
	return run(ctx)
}

func (a *App) Close() error {
	err := a.Store.Close()
	if a.redis != nil {
		err = errors.Join(err, a.redis.Close())
	}
	return err
}
