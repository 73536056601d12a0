package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// LoginLimiter throttles credential attempts with a fixed window counter per
// email+IP pair. The check runs before any password hashing so a flood never
// reaches argon2.
type LoginLimiter struct {
	rdb      *goredis.Client
	clock    clockwork.Clock
	attempts int
	window   time.Duration
}

var _ domain.LoginLimiter = (*LoginLimiter)(nil)

// NewLoginLimiter creates a limiter allowing attempts per window for each
// email+IP pair.
func NewLoginLimiter(rdb *goredis.Client, clock clockwork.Clock, attempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, clock: clock, attempts: attempts, window: window}
}

func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	key := l.key(email, ip)

	pipe := l.rdb.Pipeline()
	count := pipe.Incr(ctx, key)
	// NX keeps the window anchored at the first attempt.
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("login rate limit check failed: %w", err)
	}

	return count.Val() <= int64(l.attempts), nil
}

func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if err := l.rdb.Del(ctx, l.key(email, ip)).Err(); err != nil {
		return fmt.Errorf("failed to reset login rate limit: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email, ip string) string {
	return "login_attempts:" + strings.ToLower(email) + ":" + ip
}
