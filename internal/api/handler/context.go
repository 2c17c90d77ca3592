package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the user id injected by the Auth middleware. Its
// presence proves the middleware ran; a handler on an authenticated route
// seeing an empty id means a wiring mistake, rejected as 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
