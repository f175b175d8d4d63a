package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boardhub/backend/internal/models"
	"github.com/boardhub/backend/internal/shared"
	"go.uber.org/zap"
)

// userRepository implements UserRepository over the users, roles and user_roles tables
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user and the default role mapping in a single
// transaction, so a failure midway never leaves a user without a role.
// The generated id is written back to user.ID.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (name, email, password_hash, registered_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.RegisteredAt)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	roleQuery := `INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, roleQuery, id, models.RoleUserID); err != nil {
		r.logger.Error("failed to map user role", zap.Int64("userId", id), zap.Error(err))
		return fmt.Errorf("failed to map user role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit user creation", zap.Error(err))
		return fmt.Errorf("failed to commit user creation: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, registered_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RegisteredAt,
	)

	if err == sql.ErrNoRows {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email.
//
// There is no uniqueness constraint on users.email; this pre-insert read
// is the only duplicate check, so two concurrent registrations with the
// same email can both pass it.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ListRoleNames retrieves the role names assigned to a user
func (r *userRepository) ListRoleNames(ctx context.Context, userID int) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON ur.role_id = r.role_id
		WHERE ur.user_id = ?
		ORDER BY r.role_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list role names", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to list role names: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			r.logger.Error("failed to scan role name", zap.Error(err))
			return nil, fmt.Errorf("failed to scan role name: %w", err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role names: %w", err)
	}

	return roles, nil
}
