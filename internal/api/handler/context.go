package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the verified user id injected by the Auth middleware.
// Presence proves the middleware ran; an empty value on a protected route
// means the route was wired without it — reject rather than proceed unowned.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxOptionalUserID returns the user id when a credential was verified and
// the empty string for anonymous requests.
func ctxOptionalUserID(c echo.Context) string {
	userID, _ := c.Get("user_id").(string)
	return userID
}
