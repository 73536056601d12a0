package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a server-side console session record. The browser cookie holds
// only the opaque token; everything else lives in Redis and expires with the
// key.
type Session struct {
	Token     string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionRepository abstracts the server-side session store.
type SessionRepository interface {
	Create(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, error)
	// Touch slides the expiry forward; it is a no-op for unknown tokens.
	Touch(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
	// DeleteAllForUser revokes every session of one user (ban, role demotion).
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// LoginLimiter throttles credential attempts per email+IP pair before any
// password work happens.
type LoginLimiter interface {
	// Allow consumes one attempt and reports whether it is within budget.
	Allow(ctx context.Context, email, ip string) (bool, error)
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email, ip string) error
}
