package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dailydiet/internal/database"
)

var (
	// ErrUserNotFound is returned when user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when email is already registered
	ErrEmailExists = errors.New("email already registered")
)

// Repository persists users
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

// PostgresRepository handles all database operations for users
type PostgresRepository struct {
	db database.Service
}

// NewPostgresRepository creates a users repository on the users table
func NewPostgresRepository(db database.Service) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user; a duplicate email maps to ErrEmailExists
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, user.ID, user.FirstName, user.LastName, user.Email, user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, first_name, last_name, email, created_at FROM users WHERE id = $1`

	var user User
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ExistsByEmail reports whether an account already uses email
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// List returns every user in registration order
func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name, email, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Delete removes a user; only registration uses it to undo a half-finished signup
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
