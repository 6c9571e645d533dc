// Package meals implements owner-scoped meal records and the diet metrics.
package meals

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Service defines the meals service interface.
// userID always comes from the authorized session.
type Service interface {
	Create(ctx context.Context, userID string, in NewMeal) (*Meal, error)
	List(ctx context.Context, userID string) ([]Meal, error)
	Get(ctx context.Context, userID, mealID string) (*Meal, error)
	Update(ctx context.Context, userID, mealID string, patch MealPatch) error
	Delete(ctx context.Context, userID, mealID string) error
	Metrics(ctx context.Context, userID string) (Metrics, error)
}

type service struct {
	repo Repository
}

// NewService creates a new meals service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, in NewMeal) (*Meal, error) {
	meal := &Meal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Date:        in.Date,
		Diet:        Flag(in.Diet),
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Meal created", "meal_id", meal.ID, "user_id", userID)
	return meal, nil
}

func (s *service) List(ctx context.Context, userID string) ([]Meal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, mealID string) (*Meal, error) {
	return s.repo.GetByID(ctx, userID, mealID)
}

func (s *service) Update(ctx context.Context, userID, mealID string, patch MealPatch) error {
	if err := s.repo.Update(ctx, userID, mealID, patch); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Meal updated", "meal_id", mealID, "user_id", userID)
	return nil
}

func (s *service) Delete(ctx context.Context, userID, mealID string) error {
	if err := s.repo.Delete(ctx, userID, mealID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Meal deleted", "meal_id", mealID, "user_id", userID)
	return nil
}

// Metrics summarises the user's meals ordered by date, most recent first
func (s *service) Metrics(ctx context.Context, userID string) (Metrics, error) {
	meals, err := s.repo.ListByUserByDateDesc(ctx, userID)
	if err != nil {
		return Metrics{}, err
	}
	return ComputeMetrics(meals), nil
}
