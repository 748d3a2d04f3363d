package domain

import (
	"context"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// ReminderRepository persists medicine reminders. Deletes are scoped to the owner.
type ReminderRepository interface {
	CreateReminder(ctx context.Context, reminder *MedicineReminder) error
	ListReminders(ctx context.Context, userID string) ([]*MedicineReminder, error)
	DeleteReminder(ctx context.Context, userID, id string) error
}

// SymptomCheckRepository persists the symptom check log.
type SymptomCheckRepository interface {
	CreateSymptomCheck(ctx context.Context, check *SymptomCheck) error
	ListSymptomChecks(ctx context.Context, userID string, limit int) ([]*SymptomCheck, error)
}

// Store bundles every repository a storage backend provides.
type Store interface {
	UserRepository
	ReminderRepository
	SymptomCheckRepository
	Ping(ctx context.Context) error
	Close() error
}

// SessionStore keeps authenticated sessions. Get returns ErrSessionNotFound
// for unknown or expired sessions.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Notifier dispatches emergency alerts.
type Notifier interface {
	Notify(ctx context.Context, alert *EmergencyAlert) error
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	GetSessionConfig() *SessionConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetDatabaseURL() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
