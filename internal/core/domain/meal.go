package domain

import (
	"sort"
	"time"
)

// Meal is a single logged meal. It always belongs to exactly one user.
type Meal struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Name        string    `json:"name" bson:"name"`
	Description *string   `json:"description" bson:"description,omitempty"`
	DateTime    time.Time `json:"date_time" bson:"date_time"`
	InDiet      bool      `json:"in_diet" bson:"in_diet"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// MealPatch carries the fields of a partial update. Nil fields are left untouched.
type MealPatch struct {
	Name        *string
	Description *string
	DateTime    *time.Time
	InDiet      *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p MealPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DateTime == nil && p.InDiet == nil
}

// MealMetrics summarises a user's meal log.
type MealMetrics struct {
	Total              int `json:"total"`
	TotalInDiet        int `json:"total_in_diet"`
	TotalOffDiet       int `json:"total_off_diet"`
	BestOnDietSequence int `json:"best_on_diet_sequence"`
}

// ComputeMealMetrics counts meals and finds the longest run of consecutive
// in-diet meals when ordered by DateTime. Meals sharing a timestamp keep their
// input order. The input slice is not modified.
func ComputeMealMetrics(meals []Meal) MealMetrics {
	ordered := make([]Meal, len(meals))
	copy(ordered, meals)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DateTime.Before(ordered[j].DateTime)
	})

	var m MealMetrics
	current := 0
	for _, meal := range ordered {
		m.Total++
		if !meal.InDiet {
			m.TotalOffDiet++
			current = 0
			continue
		}
		m.TotalInDiet++
		current++
		if current > m.BestOnDietSequence {
			m.BestOnDietSequence = current
		}
	}
	return m
}
