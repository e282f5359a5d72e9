package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/daily-diet/internal/api/metrics"
	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /meals without logging the meal twice.
const HeaderIdempotencyKey = "Idempotency-Key"

// MealHandler handles HTTP requests for the authenticated user's meals.
type MealHandler struct {
	service ports.MealService
}

func NewMealHandler(service ports.MealService) *MealHandler {
	return &MealHandler{service: service}
}

// Create handles POST /meals.
//
// @Summary      Log a meal
// @Tags         meals
// @Accept       json
// @Security     BearerAuth
// @Param        Idempotency-Key  header  string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body    createMealRequest  true   "Meal details"
// @Success      201
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /meals [post]
func (h *MealHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createMealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	meal, err := h.service.CreateMeal(c.Request().Context(), toCreateMealInput(req, id.UserID, key))
	if err != nil {
		return err
	}

	if meal == nil {
		metrics.IdempotentReplaysTotal.Inc()
	} else {
		metrics.ObserveMealCreated(meal.InDiet)
	}
	return c.NoContent(http.StatusCreated)
}

// List handles GET /meals.
//
// @Summary      List my meals
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mealsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /meals [get]
func (h *MealHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	meals, err := h.service.ListMeals(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mealsResponse{Meals: orEmpty(meals)})
}

// Get handles GET /meals/:mealId. A meal that is missing or owned by someone
// else yields an empty list, not an error.
//
// @Summary      Get a meal
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Param        mealId  path      string  true  "Meal id (uuid)"
// @Success      200     {object}  mealsResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Router       /meals/{mealId} [get]
func (h *MealHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var params mealParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}

	meals, err := h.service.GetMeal(c.Request().Context(), params.MealID, id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mealsResponse{Meals: orEmpty(meals)})
}

// Update handles PUT /meals/:mealId with a partial body.
//
// @Summary      Update a meal
// @Tags         meals
// @Accept       json
// @Security     BearerAuth
// @Param        mealId  path  string             true  "Meal id (uuid)"
// @Param        body    body  updateMealRequest  true  "Fields to change"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /meals/{mealId} [put]
func (h *MealHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateMealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateMeal(c.Request().Context(), toUpdateMealInput(req, id.UserID)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /meals/:mealId. Unknown ids still answer 204.
//
// @Summary      Delete a meal
// @Tags         meals
// @Security     BearerAuth
// @Param        mealId  path  string  true  "Meal id (uuid)"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /meals/{mealId} [delete]
func (h *MealHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var params mealParams
	if err := bindAndValidate(c, &params); err != nil {
		return err
	}

	if err := h.service.DeleteMeal(c.Request().Context(), params.MealID, id.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Metrics handles GET /meals/metrics.
//
// @Summary      Diet metrics
// @Tags         meals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mealMetricsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /meals/metrics [get]
func (h *MealHandler) Metrics(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	m, err := h.service.Metrics(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMealMetricsResponse(m))
}

func orEmpty(meals []domain.Meal) []domain.Meal {
	if meals == nil {
		return []domain.Meal{}
	}
	return meals
}
