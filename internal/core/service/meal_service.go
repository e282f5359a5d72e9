package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

type MealService struct {
	repo        ports.MealRepository
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
}

// NewMealService returns a MealService. idempotency may be nil, in which case
// Idempotency-Key headers are ignored.
func NewMealService(repo ports.MealRepository, idempotency ports.IdempotencyStore, logger zerolog.Logger) *MealService {
	return &MealService{repo: repo, idempotency: idempotency, logger: logger}
}

// CreateMeal logs a meal for the owner. If an idempotency key is provided and
// was already claimed by the same owner, nothing is inserted and (nil, nil) is returned.
func (s *MealService) CreateMeal(ctx context.Context, input ports.CreateMealInput) (*domain.Meal, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	if input.DateTime.IsZero() {
		return nil, domain.NewValidationError("date_time is required")
	}

	if input.IdempotencyKey != "" && s.idempotency != nil {
		first, err := s.idempotency.Claim(ctx, input.UserID, input.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency check failed, creating anyway")
		} else if !first {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("user_id", input.UserID).Msg("idempotent replay")
			return nil, nil
		}
	}

	now := time.Now().UTC()
	meal := &domain.Meal{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		DateTime:    input.DateTime.UTC(),
		InDiet:      input.InDiet,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		if input.IdempotencyKey != "" && s.idempotency != nil {
			if relErr := s.idempotency.Release(ctx, input.UserID, input.IdempotencyKey); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Msg("failed to create meal")
		return nil, fmt.Errorf("create meal: %w", err)
	}

	s.logger.Info().Str("meal_id", meal.ID).Str("user_id", meal.UserID).Msg("meal created")
	return meal, nil
}

func (s *MealService) ListMeals(ctx context.Context, userID string) ([]domain.Meal, error) {
	meals, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return nonNil(meals), nil
}

// GetMeal returns the owner's meal with the given id, as a zero or one element slice.
func (s *MealService) GetMeal(ctx context.Context, mealID, userID string) ([]domain.Meal, error) {
	if err := validateMealID(mealID); err != nil {
		return nil, err
	}
	meals, err := s.repo.FindByIDAndOwner(ctx, mealID, userID)
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return nonNil(meals), nil
}

// UpdateMeal applies the supplied fields to the owner's meal. Missing meals and
// empty patches are silently ignored.
func (s *MealService) UpdateMeal(ctx context.Context, input ports.UpdateMealInput) error {
	if err := validateMealID(input.MealID); err != nil {
		return err
	}
	if input.Patch.IsEmpty() {
		return nil
	}
	if err := s.repo.Update(ctx, input.MealID, input.UserID, input.Patch); err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	s.logger.Info().Str("meal_id", input.MealID).Str("user_id", input.UserID).Msg("meal updated")
	return nil
}

func (s *MealService) DeleteMeal(ctx context.Context, mealID, userID string) error {
	if err := validateMealID(mealID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, mealID, userID); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.logger.Info().Str("meal_id", mealID).Str("user_id", userID).Msg("meal deleted")
	return nil
}

// Metrics computes totals and the best in-diet streak over all of the owner's meals.
func (s *MealService) Metrics(ctx context.Context, userID string) (domain.MealMetrics, error) {
	meals, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return domain.MealMetrics{}, fmt.Errorf("meal metrics: %w", err)
	}
	return domain.ComputeMealMetrics(meals), nil
}

func validateMealID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewValidationError("mealId must be a valid uuid")
	}
	return nil
}

func nonNil(meals []domain.Meal) []domain.Meal {
	if meals == nil {
		return []domain.Meal{}
	}
	return meals
}
