package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/MelissaSequeira/reimburse-portal/internal/application/port"
	"github.com/MelissaSequeira/reimburse-portal/internal/domain/entity"
)

// UserRepository handles identity store database operations
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a user record and fills in its id.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, email, role, department, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := queryerFrom(ctx, r.db).ExecContext(ctx, query,
		user.Name,
		user.Email,
		string(user.Role),
		user.Department,
		user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, name, email, role, department, created_at FROM users WHERE email = ?`

	var user entity.User
	var role string
	err := queryerFrom(ctx, r.db).QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.Department,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", email, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = entity.Role(role)
	return &user, nil
}

// EmailsByRole returns the addresses of every user holding a role.
func (r *UserRepository) EmailsByRole(ctx context.Context, role entity.Role) ([]string, error) {
	query := `SELECT email FROM users WHERE role = ? ORDER BY email`
	return r.queryEmails(ctx, query, string(role))
}

// EmailsByRoleAndDepartment returns the addresses of users holding a role
// within one department.
func (r *UserRepository) EmailsByRoleAndDepartment(ctx context.Context, role entity.Role, department string) ([]string, error) {
	query := `SELECT email FROM users WHERE role = ? AND department = ? ORDER BY email`
	return r.queryEmails(ctx, query, string(role), department)
}

// List returns every user for the admin roster.
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT id, name, email, role, department, created_at FROM users ORDER BY id`

	rows, err := queryerFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		var role string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &role, &user.Department, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = entity.Role(role)
		users = append(users, &user)
	}
	return users, rows.Err()
}

func (r *UserRepository) queryEmails(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := queryerFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query emails", zap.Error(err))
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
