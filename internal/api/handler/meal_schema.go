package handler

import (
	"time"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

type createMealRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"date_time" validate:"required"`
	InDiet      *bool      `json:"in_diet" validate:"required"`
}

type mealParams struct {
	MealID string `param:"mealId" json:"-" validate:"required,uuid"`
}

// updateMealRequest accepts any subset of the meal fields.
type updateMealRequest struct {
	MealID      string     `param:"mealId" json:"-" validate:"required,uuid"`
	Name        *string    `json:"name" validate:"omitnil,min=1"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"date_time"`
	InDiet      *bool      `json:"in_diet"`
}

type mealsResponse struct {
	Meals []domain.Meal `json:"meals"`
}

type mealMetricsResponse struct {
	Total              int `json:"total"`
	TotalInDiet        int `json:"total_in_diet"`
	TotalOffDiet       int `json:"total_off_diet"`
	BestOnDietSequence int `json:"best_on_diet_sequence"`
}
