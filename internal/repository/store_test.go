package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/database"
	"github.com/healthassist-server/internal/database/dbtest"
	"github.com/healthassist-server/internal/domain"
)

func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	ctx := context.Background()
	pg := dbtest.StartPostgres(t)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(ctx, database.Config{
		Host:        pg.Host,
		Port:        pg.Port,
		Database:    pg.Database,
		Username:    pg.Username,
		Password:    pg.Password,
		MaxConns:    10,
		MinConns:    2,
		MaxConnLife: time.Hour,
		MaxConnIdle: time.Minute * 30,
		SSLMode:     "disable",
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}

	migrationRunner, err := database.NewMigrationRunner(pg.URL(), logger)
	if err != nil {
		t.Fatalf("Failed to create migration runner: %v", err)
	}
	if err := migrationRunner.Up(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	store := NewPostgresStore(db, logger)
	t.Cleanup(func() {
		migrationRunner.Close()
		store.Close()
	})
	return store
}

func newTestUser(email string) *domain.User {
	return &domain.User{
		ID:               uuid.New().String(),
		Name:             "Test User",
		Email:            email,
		PasswordHash:     "$2a$10$abcdefghijklmnopqrstuv",
		Phone:            "555-0100",
		EmergencyContact: "555-0199",
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgresStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	alice := newTestUser("alice@example.com")
	bob := newTestUser("bob@example.com")
	for _, u := range []*domain.User{alice, bob} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	t.Run("Users", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != alice.ID || got.EmergencyContact != "555-0199" {
			t.Errorf("unexpected user: %+v", got)
		}

		got, err = store.GetUserByID(ctx, bob.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Email != bob.Email {
			t.Errorf("Expected email %s, got %s", bob.Email, got.Email)
		}

		dup := newTestUser("alice@example.com")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}

		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, uuid.New().String()); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Reminders", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Microsecond)
		first := &domain.MedicineReminder{
			ID: uuid.New().String(), UserID: alice.ID, MedicineName: "Metformin",
			Dosage: "500mg", Time: "08:00", CreatedAt: base,
		}
		second := &domain.MedicineReminder{
			ID: uuid.New().String(), UserID: alice.ID, MedicineName: "Atorvastatin",
			Dosage: "20mg", Time: "21:00", Description: "after dinner", CreatedAt: base.Add(time.Minute),
		}
		for _, r := range []*domain.MedicineReminder{second, first} {
			if err := store.CreateReminder(ctx, r); err != nil {
				t.Fatalf("CreateReminder failed: %v", err)
			}
		}

		list, err := store.ListReminders(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListReminders failed: %v", err)
		}
		if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
			t.Fatalf("expected oldest-first order, got %+v", list)
		}

		empty, err := store.ListReminders(ctx, bob.ID)
		if err != nil || len(empty) != 0 {
			t.Errorf("expected no reminders for bob, got %d (%v)", len(empty), err)
		}

		if err := store.DeleteReminder(ctx, bob.ID, first.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("deleting another user's reminder: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteReminder(ctx, alice.ID, first.ID); err != nil {
			t.Fatalf("DeleteReminder failed: %v", err)
		}
		if err := store.DeleteReminder(ctx, alice.ID, first.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}

		list, _ = store.ListReminders(ctx, alice.ID)
		if len(list) != 1 || list[0].ID != second.ID {
			t.Errorf("unexpected reminders after delete: %+v", list)
		}
	})

	t.Run("SymptomChecks", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Microsecond)
		for i := 0; i < 3; i++ {
			check := &domain.SymptomCheck{
				ID:        uuid.New().String(),
				UserID:    alice.ID,
				Symptoms:  []string{"Fever", "Cough"},
				Results:   []string{"Common Cold"},
				CheckedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := store.CreateSymptomCheck(ctx, check); err != nil {
				t.Fatalf("CreateSymptomCheck failed: %v", err)
			}
		}

		checks, err := store.ListSymptomChecks(ctx, alice.ID, 2)
		if err != nil {
			t.Fatalf("ListSymptomChecks failed: %v", err)
		}
		if len(checks) != 2 {
			t.Fatalf("expected limit of 2, got %d", len(checks))
		}
		if !checks[0].CheckedAt.After(checks[1].CheckedAt) {
			t.Errorf("expected newest first")
		}
		if len(checks[0].Symptoms) != 2 || checks[0].Results[0] != "Common Cold" {
			t.Errorf("unexpected payload: %+v", checks[0])
		}
	})
}
