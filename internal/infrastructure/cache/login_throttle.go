package cache

import (
	"context"
	"time"

	"github.com/jhoicas/happyshop-api/internal/application/auth"
)

const loginFailuresKeyPrefix = "login_failures:"

var _ auth.LoginThrottle = (*LoginThrottle)(nil)

// LoginThrottle cuenta fallos de login por usuario en Redis. Sin Redis nunca bloquea.
type LoginThrottle struct {
	cache       *Client
	maxFailures int64
	window      time.Duration
}

// NewLoginThrottle bloquea a un usuario tras maxFailures fallos seguidos durante window.
func NewLoginThrottle(cache *Client, maxFailures int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{cache: cache, maxFailures: int64(maxFailures), window: window}
}

// Locked indica si el usuario alcanzó el máximo de fallos.
func (t *LoginThrottle) Locked(ctx context.Context, username string) bool {
	if t.maxFailures <= 0 {
		return false
	}
	return t.cache.GetInt(ctx, loginFailuresKeyPrefix+username) >= t.maxFailures
}

// RecordFailure suma un fallo; la ventana empieza en el primero.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t.maxFailures <= 0 {
		return
	}
	t.cache.Incr(ctx, loginFailuresKeyPrefix+username, t.window)
}

// Reset borra el contador tras un login correcto.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	t.cache.Delete(ctx, loginFailuresKeyPrefix+username)
}
