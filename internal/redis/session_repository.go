package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// Redis hash field names for session keys.
const (
	fieldUserID    = "user_id"
	fieldRole      = "role"
	fieldIP        = "ip"
	fieldCreatedAt = "created_at"
)

// SessionRepo stores console sessions as hashes keyed by the opaque token.
// A per-user set indexes tokens so a ban can revoke every session at once.
// Both key families carry a TTL, so Redis expiry is the ground truth for
// session lifetime.
type SessionRepo struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

func NewSessionRepo(rdb *goredis.Client, clock clockwork.Clock) *SessionRepo {
	return &SessionRepo{rdb: rdb, clock: clock}
}

func (s *SessionRepo) Create(ctx context.Context, sess domain.Session, ttl time.Duration) error {
	sk := sessionKey(sess.Token)
	uk := userSessionsKey(sess.UserID)

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, sk, map[string]any{
		fieldUserID:    sess.UserID.String(),
		fieldRole:      string(sess.Role),
		fieldIP:        sess.IP,
		fieldCreatedAt: strconv.FormatInt(sess.CreatedAt.UnixMilli(), 10),
	})
	pipe.Expire(ctx, sk, ttl)
	pipe.SAdd(ctx, uk, sess.Token)
	// The index outlives individual sessions by one TTL; stale members are
	// tolerated because Get checks the session key itself.
	pipe.Expire(ctx, uk, 2*ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *SessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	sk := sessionKey(token)

	pipe := s.rdb.Pipeline()
	fields := pipe.HGetAll(ctx, sk)
	ttl := pipe.TTL(ctx, sk)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	values := fields.Val()
	if len(values) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	userID, err := uuid.Parse(values[fieldUserID])
	if err != nil {
		return nil, fmt.Errorf("failed to parse session user id: %w", err)
	}
	createdMs, err := strconv.ParseInt(values[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session created_at: %w", err)
	}

	sess := &domain.Session{
		Token:     token,
		UserID:    userID,
		Role:      domain.Role(values[fieldRole]),
		IP:        values[fieldIP],
		CreatedAt: time.UnixMilli(createdMs).UTC(),
	}
	if d := ttl.Val(); d > 0 {
		sess.ExpiresAt = s.clock.Now().Add(d).UTC()
	}
	return sess, nil
}

func (s *SessionRepo) Touch(ctx context.Context, token string, ttl time.Duration) error {
	// Expire on a missing key returns false, which is the documented no-op.
	if err := s.rdb.Expire(ctx, sessionKey(token), ttl).Err(); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (s *SessionRepo) Delete(ctx context.Context, token string) error {
	sk := sessionKey(token)

	userID, err := s.rdb.HGet(ctx, sk, fieldUserID).Result()
	if errors.Is(err, goredis.Nil) {
		return domain.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, sk)
	if id, parseErr := uuid.Parse(userID); parseErr == nil {
		pipe.SRem(ctx, userSessionsKey(id), token)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	uk := userSessionsKey(userID)

	tokens, err := s.rdb.SMembers(ctx, uk).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := s.rdb.Pipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, uk)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return nil
}

// --- Key helpers ---

func sessionKey(token string) string {
	return "console_session:" + token
}

func userSessionsKey(userID uuid.UUID) string {
	return "user_sessions:" + userID.String()
}
