package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/daily-diet/internal/api/metrics"
	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signUpResponse struct {
	User *domain.User `json:"user"`
}

type signInResponse struct {
	AccessToken string `json:"accessToken"`
}

type listUsersResponse struct {
	Users []domain.User `json:"users"`
}

// SignUp creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "User registration details"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.SignUpsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.SignUpsTotal.WithLabelValues("duplicate").Inc()
		case errors.As(err, &ve):
			metrics.SignUpsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.SignUpsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignUpsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, signUpResponse{User: user})
}

// SignIn authenticates a user and returns a bearer token valid for one hour.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Login credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.SignInsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, signInResponse{AccessToken: token})
}

// ListUsers returns every registered user without credentials.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}
