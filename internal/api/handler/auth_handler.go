package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusmarket/campus-market/internal/api/metrics"
	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string              `json:"token,omitempty"`
	User  *domain.UserProfile `json:"user,omitempty"`
}

// Signup creates a new account and profile.
//
// @Summary      Sign up with an institution email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: profile})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: profile})
}
