package handler

import (
	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

func toCreateMealInput(req createMealRequest, userID, idempotencyKey string) ports.CreateMealInput {
	in := ports.CreateMealInput{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		IdempotencyKey: idempotencyKey,
	}
	if req.DateTime != nil {
		in.DateTime = req.DateTime.UTC()
	}
	if req.InDiet != nil {
		in.InDiet = *req.InDiet
	}
	return in
}

func toUpdateMealInput(req updateMealRequest, userID string) ports.UpdateMealInput {
	return ports.UpdateMealInput{
		MealID: req.MealID,
		UserID: userID,
		Patch: domain.MealPatch{
			Name:        req.Name,
			Description: req.Description,
			DateTime:    req.DateTime,
			InDiet:      req.InDiet,
		},
	}
}

func toMealMetricsResponse(m domain.MealMetrics) mealMetricsResponse {
	return mealMetricsResponse{
		Total:              m.Total,
		TotalInDiet:        m.TotalInDiet,
		TotalOffDiet:       m.TotalOffDiet,
		BestOnDietSequence: m.BestOnDietSequence,
	}
}
