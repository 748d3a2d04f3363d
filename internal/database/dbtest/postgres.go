// Package dbtest starts throwaway PostgreSQL containers for integration tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres describes a running test database.
type Postgres struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

// URL returns a postgres:// URL for golang-migrate.
func (p Postgres) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.Username, p.Password, p.Host, p.Port, p.Database)
}

// StartPostgres runs a postgres:15-alpine container for the duration of t.
// Set SKIP_CONTAINER_TESTS to skip instead.
func StartPostgres(t *testing.T) Postgres {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_CONTAINER_TESTS") != "" {
		t.Skip("skipping container-backed test")
	}

	ctx := context.Background()
	password := generateTestPassword()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return Postgres{
		Host:     host,
		Port:     port.Int(),
		Database: "testdb",
		Username: "testuser",
		Password: password,
	}
}

func generateTestPassword() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "test_fallback_password_123"
	}
	return "test_" + hex.EncodeToString(buf)
}
