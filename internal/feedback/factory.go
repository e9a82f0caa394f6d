package feedback

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wellness-advisor-server/internal/database"
	"github.com/wellness-advisor-server/internal/domain"
)

// Backend names accepted in feedback.driver
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds the configured feedback store, metered and, for Postgres, behind a circuit breaker.
// databaseURL is only used to run migrations when database.run_migrations is set.
func Open(ctx context.Context, cfg *domain.Config, databaseURL string, logger *logrus.Logger) (Store, error) {
	switch cfg.Feedback.Driver {
	case DriverSQLite, "":
		store, err := NewSQLiteStore(cfg.Feedback.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite feedback store: %w", err)
		}
		logger.WithField("path", cfg.Feedback.SQLitePath).Info("Using SQLite feedback store")
		return NewMeteredStore(store, DriverSQLite), nil

	case DriverPostgres:
		if cfg.Database.RunMigrations {
			if err := migrate(databaseURL, logger); err != nil {
				return nil, err
			}
		}

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		store, err := NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, err
		}

		breaker := NewBreakerStore(&poolOwningStore{Store: store, db: db}, BreakerSettings{
			Name:        "feedback-postgres",
			MaxRequests: cfg.Feedback.BreakerMaxRequests,
			Interval:    cfg.Feedback.BreakerInterval,
			Timeout:     cfg.Feedback.BreakerTimeout,
		}, logger)
		logger.WithField("database", cfg.Database.Database).Info("Using PostgreSQL feedback store")
		return NewMeteredStore(breaker, DriverPostgres), nil

	default:
		return nil, fmt.Errorf("unsupported feedback driver: %s", cfg.Feedback.Driver)
	}
}

func migrate(databaseURL string, logger *logrus.Logger) error {
	runner, err := database.NewMigrationRunner(databaseURL, logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.Up()
}

// poolOwningStore closes the connection pool along with the store.
type poolOwningStore struct {
	Store
	db *database.DB
}

func (s *poolOwningStore) Close() error {
	err := s.Store.Close()
	s.db.Close()
	return err
}
