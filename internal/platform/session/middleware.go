package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie the browser carries.
const CookieName = "portal_session"

type ctxKey int

const tokenKey ctxKey = iota

// TokenFromContext returns the bearer token resolved by Require, or "" when
// the request is unauthenticated.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// Require rejects requests without a live session and stashes the upstream
// token in the request context for the API client.
func Require(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			token, err := m.Token(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
			}
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), tokenKey, token)))
			return next(c)
		}
	}
}
