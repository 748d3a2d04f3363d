// Package litestore is the embedded SQLite storage backend used when no
// PostgreSQL server is configured.
package litestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/healthassist-server/internal/domain"
)

var _ domain.Store = (*SQLiteStore)(nil)

// SQLiteStore implements domain.Store on a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	log    *logrus.Logger
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the schema exists.
func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets readers proceed while a request writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.WithField("path", dbPath).Info("SQLite store opened")

	store := newStore(db, logger)
	store.dbPath = dbPath
	return store, nil
}

func newStore(db *sql.DB, logger *logrus.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: logger}
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		emergency_contact TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS medicine_reminders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		medicine_name TEXT NOT NULL,
		dosage TEXT NOT NULL,
		time TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reminders_user ON medicine_reminders(user_id, created_at);

	CREATE TABLE IF NOT EXISTS symptom_checks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		symptoms TEXT NOT NULL,
		results TEXT NOT NULL,
		checked_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_symptom_checks_user ON symptom_checks(user_id, checked_at);
	`

	_, err := db.Exec(schema)
	return err
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// Timestamps are stored as Unix nanoseconds so ORDER BY is exact.
func toUnix(t time.Time) int64 { return t.UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// CreateUser inserts a new account. A duplicate email yields domain.ErrEmailTaken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, emergency_contact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Phone, user.EmergencyContact, toUnix(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		s.log.WithFields(logrus.Fields{"user_id": user.ID, "error": err}).Error("Failed to create user")
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	user := &domain.User{}
	var createdAt int64
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.EmergencyContact, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = fromUnix(createdAt)
	return user, nil
}

func (s *SQLiteStore) getUser(ctx context.Context, column, value string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, phone, emergency_contact, created_at
		FROM users
		WHERE `+column+` = ?
	`, value)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves an account by its ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves an account by its normalized email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, "email", email)
}

// CreateReminder inserts a new reminder.
func (s *SQLiteStore) CreateReminder(ctx context.Context, r *domain.MedicineReminder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medicine_reminders (id, user_id, medicine_name, dosage, time, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.UserID, r.MedicineName, r.Dosage, r.Time, r.Description, toUnix(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// ListReminders returns the user's reminders, oldest first.
func (s *SQLiteStore) ListReminders(ctx context.Context, userID string) ([]*domain.MedicineReminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, medicine_name, dosage, time, description, created_at
		FROM medicine_reminders
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	result := []*domain.MedicineReminder{}
	for rows.Next() {
		r := &domain.MedicineReminder{}
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.UserID, &r.MedicineName, &r.Dosage, &r.Time, &r.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		r.CreatedAt = fromUnix(createdAt)
		result = append(result, r)
	}
	return result, rows.Err()
}

// DeleteReminder removes a reminder owned by userID.
func (s *SQLiteStore) DeleteReminder(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM medicine_reminders WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reminder not found: %w", domain.ErrNotFound)
	}
	return nil
}

// CreateSymptomCheck records a completed check.
func (s *SQLiteStore) CreateSymptomCheck(ctx context.Context, check *domain.SymptomCheck) error {
	symptoms, err := json.Marshal(check.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to marshal symptoms: %w", err)
	}
	results, err := json.Marshal(check.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO symptom_checks (id, user_id, symptoms, results, checked_at)
		VALUES (?, ?, ?, ?, ?)
	`, check.ID, check.UserID, string(symptoms), string(results), toUnix(check.CheckedAt))
	if err != nil {
		return fmt.Errorf("failed to insert symptom check: %w", err)
	}
	return nil
}

// ListSymptomChecks returns up to limit checks for userID, newest first.
func (s *SQLiteStore) ListSymptomChecks(ctx context.Context, userID string, limit int) ([]*domain.SymptomCheck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, symptoms, results, checked_at
		FROM symptom_checks
		WHERE user_id = ?
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query symptom checks: %w", err)
	}
	defer rows.Close()

	result := []*domain.SymptomCheck{}
	for rows.Next() {
		check := &domain.SymptomCheck{}
		var symptoms, results string
		var checkedAt int64
		if err := rows.Scan(&check.ID, &check.UserID, &symptoms, &results, &checkedAt); err != nil {
			return nil, fmt.Errorf("failed to scan symptom check: %w", err)
		}
		if err := json.Unmarshal([]byte(symptoms), &check.Symptoms); err != nil {
			return nil, fmt.Errorf("failed to decode symptoms: %w", err)
		}
		if err := json.Unmarshal([]byte(results), &check.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results: %w", err)
		}
		check.CheckedAt = fromUnix(checkedAt)
		result = append(result, check)
	}
	return result, rows.Err()
}

// Ping checks that the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
