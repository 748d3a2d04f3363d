package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthassist-server/internal/domain"
)

// AuthService registers and authenticates accounts.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAuthService creates a new auth service. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewAuthService(users domain.UserRepository, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Register validates the form, hashes the password and stores the account.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, domain.NewValidationError("name", "Name is required", nil)
	case email == "":
		return nil, domain.NewValidationError("email", "Email is required", nil)
	case in.Password == "":
		return nil, domain.NewValidationError("password", "Password is required", nil)
	case in.Password != in.ConfirmPassword:
		return nil, domain.NewValidationError("confirmPassword", "Passwords do not match", nil)
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:               uuid.New().String(),
		Name:             name,
		Email:            email,
		PasswordHash:     string(hash),
		Phone:            strings.TrimSpace(in.Phone),
		EmergencyContact: strings.TrimSpace(in.EmergencyContact),
		CreatedAt:        s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
	}).Info("User registered")

	return user, nil
}

// Authenticate checks the credentials and returns the account.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Login rejected: invalid password")
		return nil, domain.ErrInvalidPassword
	}

	return user, nil
}

// GetUser loads an account by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
