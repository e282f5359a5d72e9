package ports

import (
	"context"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

// MealRepository persists meals. Every lookup and mutation is filtered by owner.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error
	ListByOwner(ctx context.Context, userID string) ([]domain.Meal, error)
	// FindByIDAndOwner returns an empty slice when the meal does not exist or
	// belongs to someone else.
	FindByIDAndOwner(ctx context.Context, id, userID string) ([]domain.Meal, error)
	// Update applies patch to the meal matching id and userID. A miss is not an error.
	Update(ctx context.Context, id, userID string, patch domain.MealPatch) error
	// Delete removes the meal matching id and userID. A miss is not an error.
	Delete(ctx context.Context, id, userID string) error
}

// IdempotencyStore remembers create requests so a retried request is not applied twice.
type IdempotencyStore interface {
	// Claim returns true the first time a key is seen for the owner.
	Claim(ctx context.Context, userID, key string) (bool, error)
	Release(ctx context.Context, userID, key string) error
}
