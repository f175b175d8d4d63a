package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user together with the default role mapping.
	//
	// Both rows are written in one transaction: either the user exists with a
	// role, or nothing is inserted. The generated id is written back to "user".
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by email.
	//
	// If no user has that email, shared.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method ListRoleNames retrieves the role name list for a user id.
	//
	// An empty list is returned for a user without role rows (should not occur
	// for a properly registered user).
	ListRoleNames(ctx context.Context, userID int) ([]string, error)
}

// authService implements registration, credential verification and role resolution
type authService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new user account with the default role.
//
// The duplicate check is a read immediately preceding the insert, not an
// atomic upsert: sequential duplicates fail with shared.ErrDuplicateEmail,
// while concurrent registrations with the same email can both succeed.
// The schema carries no uniqueness constraint that would close that race.
func (s *authService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.ErrDuplicateEmail
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		RegisteredAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("userId", user.ID))
	return user, nil
}

// VerifyCredentials checks an email/password pair and returns the matching user.
//
// Returns shared.ErrNotFound for an unknown email and
// shared.ErrInvalidCredential for a password mismatch. Side-effect free.
func (s *authService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredential
	}

	return user, nil
}

// RolesFor returns the role-name set for a user id
func (s *authService) RolesFor(ctx context.Context, userID int) ([]string, error) {
	roles, err := s.userRepo.ListRoleNames(ctx, userID)
	if err != nil {
		s.logger.Error("failed to resolve roles", zap.Int("userId", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}
	return roles, nil
}
