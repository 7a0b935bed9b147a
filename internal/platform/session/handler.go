package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/psisafety/clinic-portal/internal/platform/recordsapi"
)

// Authenticator exchanges credentials for an upstream token.
type Authenticator interface {
	Login(ctx context.Context, creds recordsapi.Credentials) (*recordsapi.LoginResult, error)
}

type Handler struct {
	auth    Authenticator
	manager *Manager
	secure  bool
	logger  zerolog.Logger
}

// NewHandler wires the login proxy. secure controls the cookie's Secure
// flag and should be true everywhere except local development.
func NewHandler(auth Authenticator, manager *Manager, secure bool, logger zerolog.Logger) *Handler {
	return &Handler{
		auth:    auth,
		manager: manager,
		secure:  secure,
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/auth/login", h.Login)
	g.POST("/auth/logout", h.Logout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Login forwards credentials upstream and, on success, sets the session
// cookie. The upstream token itself never appears in the response.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.auth.Login(c.Request().Context(), recordsapi.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var apiErr *recordsapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		h.logger.Error().Err(err).Msg("upstream login failed")
		return echo.NewHTTPError(http.StatusBadGateway, "login service unavailable")
	}

	id, err := h.manager.Create(c.Request().Context(), result.Token)
	if err != nil {
		h.logger.Error().Err(err).Msg("session create failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to establish session")
	}

	c.SetCookie(h.cookie(id, h.manager.TTL()))
	return c.JSON(http.StatusOK, loginResponse{
		FirstName: result.FirstName,
		LastName:  result.LastName,
		Email:     result.Email,
	})
}

// Logout destroys the session and clears the cookie. Always succeeds, even
// when no session exists.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := h.manager.Destroy(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("session destroy failed")
		}
	}
	c.SetCookie(h.cookie("", -time.Second))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) cookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
