package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/fixora/expense-tracker/application/port/outbound"
	"github.com/fixora/expense-tracker/domain/entity"
	"github.com/fixora/expense-tracker/domain/valueobject"
)

// uniqueViolation is the postgres SQLSTATE for a unique index conflict.
const uniqueViolation = pq.ErrorCode("23505")

const userColumns = `id, first_name, last_name, username, email, password_hash, role, created_at, updated_at`

type UserRepositoryAdapter struct {
	db *sql.DB
}

func NewUserRepositoryAdapter(db *sql.DB) outbound.UserRepository {
	return &UserRepositoryAdapter{
		db: db,
	}
}

// FindByLogin matches the username exactly first, then the email without
// regard to case.
func (r *UserRepositoryAdapter) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fmt.Errorf("login cannot be empty")
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR LOWER(email) = LOWER($1)
		ORDER BY (username = $1) DESC
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, login))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by login: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}
	if user.ID == "" || user.Username == "" || user.Email == "" || user.PasswordHash == "" {
		return fmt.Errorf("user ID, username, email and password hash are required")
	}
	if !user.Role.IsValid() {
		return fmt.Errorf("%w: %q", valueobject.ErrInvalidRole, string(user.Role))
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return outbound.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// scanUser reads one row. A role outside the closed set is an error, never a
// silently accepted value.
func scanUser(row *sql.Row) (*entity.User, error) {
	var (
		user entity.User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role, err = valueobject.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	return &user, nil
}
