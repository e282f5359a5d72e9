package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

const collectionMeals = "meals"

type MealRepository struct {
	col *mongo.Collection
}

func NewMealRepository(db *mongo.Database) *MealRepository {
	return &MealRepository{col: db.Collection(collectionMeals)}
}

// Create inserts a new meal document.
func (r *MealRepository) Create(ctx context.Context, m *domain.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *m
	doc.DateTime = m.DateTime.UTC()
	doc.CreatedAt = m.CreatedAt.UTC()
	doc.UpdatedAt = m.UpdatedAt.UTC()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (r *MealRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Meal, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MealRepository) FindByIDAndOwner(ctx context.Context, id, userID string) ([]domain.Meal, error) {
	return r.find(ctx, ownerFilter(id, userID))
}

// Update applies a $set built from the non-nil patch fields.
func (r *MealRepository) Update(ctx context.Context, id, userID string, patch domain.MealPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateOne(ctx, ownerFilter(id, userID), bson.M{"$set": patchSet(patch, time.Now().UTC())}); err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, ownerFilter(id, userID)); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

// EnsureIndexes creates the owner lookup index on the meals collection.
func (r *MealRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date_time", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *MealRepository) find(ctx context.Context, filter bson.M) ([]domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer cur.Close(ctx)

	meals := []domain.Meal{}
	for cur.Next(ctx) {
		var m domain.Meal
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode meal: %w", err)
		}
		m.DateTime = m.DateTime.UTC()
		m.CreatedAt = m.CreatedAt.UTC()
		m.UpdatedAt = m.UpdatedAt.UTC()
		meals = append(meals, m)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	return meals, nil
}

func ownerFilter(id, userID string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

func patchSet(patch domain.MealPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DateTime != nil {
		set["date_time"] = patch.DateTime.UTC()
	}
	if patch.InDiet != nil {
		set["in_diet"] = *patch.InDiet
	}
	return set
}
