package repository

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/database"
	"github.com/healthassist-server/internal/domain"
)

var _ domain.Store = (*PostgresStore)(nil)

// PostgresStore bundles the PostgreSQL repositories behind domain.Store.
type PostgresStore struct {
	*UserRepository
	*ReminderRepository
	*SymptomCheckRepository

	db *database.DB
}

// NewPostgresStore wires every repository onto one connection pool.
func NewPostgresStore(db *database.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		UserRepository:         NewUserRepository(db.Pool, logger),
		ReminderRepository:     NewReminderRepository(db.Pool, logger),
		SymptomCheckRepository: NewSymptomCheckRepository(db.Pool, logger),
		db:                     db,
	}
}

// Ping checks the underlying pool.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
