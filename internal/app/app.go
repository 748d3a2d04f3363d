// Package app assembles the storage, session, notifier and HTTP layers from
// a loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/api"
	"github.com/healthassist-server/internal/database"
	"github.com/healthassist-server/internal/domain"
	"github.com/healthassist-server/internal/health"
	"github.com/healthassist-server/internal/litestore"
	"github.com/healthassist-server/internal/notify"
	"github.com/healthassist-server/internal/repository"
	"github.com/healthassist-server/internal/service"
	"github.com/healthassist-server/internal/session"
)

// Version is reported by the health endpoint.
var Version = "v0.1.0"

const maxGoroutines = 10000

// App is a fully wired HealthAssist+ server.
type App struct {
	Config   *domain.Config
	Logger   *logrus.Logger
	Store    domain.Store
	Sessions domain.SessionStore
	Notifier *notify.BreakerNotifier
	Health   *health.Checker
	HTTP     *api.Server

	closers []func() error
}

// New opens every backend named in cfg and builds the HTTP server. On error
// anything already opened is closed again.
func New(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	store, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)

	sessions, closeSessions, err := OpenSessions(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Sessions = sessions
	if closeSessions != nil {
		a.closers = append(a.closers, closeSessions)
	}

	a.Notifier = notify.NewBreakerNotifier(notify.NewLogNotifier(logger), cfg.Notifier, logger)

	a.Health = health.NewChecker(Version, 5*time.Second, logger)
	a.Health.RegisterCheck(health.NewPingCheck("database", store, time.Second))
	a.Health.RegisterCheck(health.NewPingCheck("sessions", sessions, 500*time.Millisecond))
	a.Health.RegisterCheck(health.NewBreakerCheck("notifier", a.Notifier.State))
	a.Health.RegisterCheck(health.NewRuntimeCheck(maxGoroutines))

	a.HTTP, err = api.NewServer(cfg, api.Dependencies{
		Auth:      service.NewAuthService(store, cfg.Security.BcryptCost, logger),
		Symptoms:  service.NewSymptomService(store, logger),
		Reminders: service.NewReminderService(store, logger),
		Emergency: service.NewEmergencyService(store, a.Notifier),
		Sessions:  sessions,
		Health:    a.Health,
		Logger:    logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building HTTP server: %w", err)
	}

	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.HTTP.Start(ctx)
}

// Close releases the backends in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore connects the configured storage backend. Postgres schemas are
// migrated first when AutoMigrate is set.
func OpenStore(ctx context.Context, cfg domain.DatabaseConfig, logger *logrus.Logger) (domain.Store, error) {
	switch cfg.Driver {
	case domain.DriverSQLite:
		store, err := litestore.NewSQLiteStore(cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil

	case domain.DriverPostgres, "":
		dbConfig := database.ConfigFrom(cfg)
		if cfg.AutoMigrate {
			if err := Migrate(ctx, dbConfig.URL(), logger); err != nil {
				return nil, err
			}
		}

		db, err := database.NewConnection(ctx, dbConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return repository.NewPostgresStore(db, logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies every pending migration to the database at databaseURL.
func Migrate(ctx context.Context, databaseURL string, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(databaseURL, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// OpenSessions builds the configured session backend. The returned close
// func is nil when there is nothing to release.
func OpenSessions(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (domain.SessionStore, func() error, error) {
	switch cfg.Session.Backend {
	case domain.SessionBackendRedis:
		store, err := session.NewRedisStore(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store, store.Close, nil

	case domain.SessionBackendMemory, "":
		store, err := session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL)
		if err != nil {
			return nil, nil, fmt.Errorf("creating memory session store: %w", err)
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unsupported session backend %q", cfg.Session.Backend)
	}
}
