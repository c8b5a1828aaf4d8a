package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// Auth verifies the bearer credential and injects the user id into context.
// Requests without a usable credential are rejected.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, verifyMessage(err))
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}

// OptionalAuth verifies the credential when one is supplied and lets the
// request through anonymously otherwise. A supplied-but-bad credential is
// still rejected; silently downgrading it to anonymous would mask expiry.
func OptionalAuth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}

			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, verifyMessage(err))
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

func verifyMessage(err error) string {
	if errors.Is(err, domain.ErrTokenExpired) {
		return "token expired"
	}
	return "invalid token"
}
