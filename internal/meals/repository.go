package meals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dailydiet/internal/database"
)

// ErrMealNotFound is returned when the meal does not exist or belongs to another user
var ErrMealNotFound = errors.New("meal not found")

// Repository persists meals. Every method is scoped by owner.
type Repository interface {
	Create(ctx context.Context, meal *Meal) error
	ListByUser(ctx context.Context, userID string) ([]Meal, error)
	ListByUserByDateDesc(ctx context.Context, userID string) ([]Meal, error)
	GetByID(ctx context.Context, userID, mealID string) (*Meal, error)
	Update(ctx context.Context, userID, mealID string, patch MealPatch) error
	Delete(ctx context.Context, userID, mealID string) error
}

// PostgresRepository handles all database operations for meals
type PostgresRepository struct {
	db database.Service
}

// NewPostgresRepository creates a new meals repository
func NewPostgresRepository(db database.Service) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const mealColumns = `id, user_id, name, description, date, diet`

// Create inserts a new meal into the database
func (r *PostgresRepository) Create(ctx context.Context, meal *Meal) error {
	query := `
		INSERT INTO meals (id, user_id, name, description, date, diet)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, meal.ID, meal.UserID, meal.Name, meal.Description, meal.Date, meal.Diet)
	if err != nil {
		slog.ErrorContext(ctx, "Error creating meal", "error", err)
		return fmt.Errorf("failed to create meal: %w", err)
	}

	return nil
}

// ListByUser returns the user's meals in insertion order
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	return r.queryRows(ctx, query, userID)
}

// ListByUserByDateDesc returns the user's meals, most recent date first
func (r *PostgresRepository) ListByUserByDateDesc(ctx context.Context, userID string) ([]Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
	`
	return r.queryRows(ctx, query, userID)
}

// GetByID retrieves a single meal owned by userID
func (r *PostgresRepository) GetByID(ctx context.Context, userID, mealID string) (*Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE id = $1 AND user_id = $2
	`

	meal := &Meal{}
	err := r.db.QueryRow(ctx, query, mealID, userID).Scan(
		&meal.ID,
		&meal.UserID,
		&meal.Name,
		&meal.Description,
		&meal.Date,
		&meal.Diet,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "Error getting meal by ID", "error", err)
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

// Update writes only the fields present in patch
func (r *PostgresRepository) Update(ctx context.Context, userID, mealID string, patch MealPatch) error {
	if patch.IsEmpty() {
		// nothing to write, but the meal must still exist for this owner
		_, err := r.GetByID(ctx, userID, mealID)
		return err
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Date != nil {
		add("date", *patch.Date)
	}
	if patch.Diet != nil {
		add("diet", Flag(*patch.Diet))
	}

	args = append(args, mealID, userID)
	query := fmt.Sprintf(`UPDATE meals SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "Error updating meal", "error", err)
		return fmt.Errorf("failed to update meal: %w", err)
	}

	return requireAffected(result)
}

// Delete removes a meal owned by userID
func (r *PostgresRepository) Delete(ctx context.Context, userID, mealID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM meals WHERE id = $1 AND user_id = $2`, mealID, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Error deleting meal", "error", err)
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}

// Helper method to scan multiple rows
func (r *PostgresRepository) queryRows(ctx context.Context, query string, args ...any) ([]Meal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		slog.ErrorContext(ctx, "Error querying meals", "error", err)
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	meals := []Meal{}
	for rows.Next() {
		var meal Meal
		err := rows.Scan(
			&meal.ID,
			&meal.UserID,
			&meal.Name,
			&meal.Description,
			&meal.Date,
			&meal.Diet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}
