package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusmarket/campus-market/internal/core/domain"
	"github.com/campusmarket/campus-market/internal/core/ports"
)

// ProfileHandler serves profile reads and subscription tier changes.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type profileResponse struct {
	Profile *domain.UserProfile `json:"profile"`
}

type subscriptionRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free poster premium"`
}

// Get handles GET /profile.
//
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Profile: profile})
}

// UpdateSubscription handles POST /subscription.
//
// @Summary      Change the caller's subscription tier
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscriptionRequest  true  "New tier"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /subscription [post]
func (h *ProfileHandler) UpdateSubscription(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req subscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.service.SetTier(c.Request().Context(), userID, req.Tier)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{Profile: profile})
}
