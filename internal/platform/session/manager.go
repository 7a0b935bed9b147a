package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager issues and resolves session ids.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

func NewManager(store Store, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Create stores the upstream token under a fresh session id. The session
// never outlives the token: when the token is a JWT with an exp claim, the
// TTL is capped to it. The signature is not verified here; the upstream
// service is the authority, we only read the expiry it stamped.
func (m *Manager) Create(ctx context.Context, token string) (string, error) {
	ttl := m.ttl
	if exp, ok := tokenExpiry(token); ok {
		if until := time.Until(exp); until > 0 && until < ttl {
			ttl = until
		}
	}
	id := uuid.NewString()
	if err := m.store.Set(ctx, id, token, ttl); err != nil {
		return "", err
	}
	m.logger.Debug().Dur("ttl", ttl).Msg("session created")
	return id, nil
}

// Token resolves a session id back to its bearer token.
func (m *Manager) Token(ctx context.Context, id string) (string, error) {
	return m.store.Get(ctx, id)
}

// Destroy removes the session. Unknown ids are not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// TTL reports the configured session lifetime, used for the cookie Max-Age.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
