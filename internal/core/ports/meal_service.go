package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

// CreateMealInput carries the data needed to log a meal.
type CreateMealInput struct {
	UserID         string
	Name           string
	Description    *string
	DateTime       time.Time
	InDiet         bool
	IdempotencyKey string
}

// UpdateMealInput carries a partial update scoped to the owner.
type UpdateMealInput struct {
	MealID string
	UserID string
	Patch  domain.MealPatch
}

// MealService defines use-case operations for meals.
type MealService interface {
	CreateMeal(ctx context.Context, input CreateMealInput) (*domain.Meal, error)
	ListMeals(ctx context.Context, userID string) ([]domain.Meal, error)
	GetMeal(ctx context.Context, mealID, userID string) ([]domain.Meal, error)
	UpdateMeal(ctx context.Context, input UpdateMealInput) error
	DeleteMeal(ctx context.Context, mealID, userID string) error
	Metrics(ctx context.Context, userID string) (domain.MealMetrics, error)
}
