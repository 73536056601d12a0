package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/crypto"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100

	// History slices shown in the user detail drawer.
	detailHistoryLimit = 50
)

// Service is the application layer. It is the only component that references
// multiple repositories; all console operations route through here.
type Service struct {
	users       domain.UserRepository
	generations domain.GenerationRepository
	moderation  domain.ModerationRepository
	analytics   domain.AnalyticsRepository
	sessions    domain.SessionRepository
	limiter     domain.LoginLimiter
	hasher      crypto.Hasher
	clock       clockwork.Clock
	sessionTTL  time.Duration

	cache  *analyticsCache
	flight singleflight.Group
}

var _ domain.AdminService = (*Service)(nil)

// NewService creates the application layer service.
func NewService(
	users domain.UserRepository,
	generations domain.GenerationRepository,
	moderation domain.ModerationRepository,
	analytics domain.AnalyticsRepository,
	sessions domain.SessionRepository,
	limiter domain.LoginLimiter,
	hasher crypto.Hasher,
	clock clockwork.Clock,
	sessionTTL time.Duration,
	analyticsCacheTTL time.Duration,
) *Service {
	return &Service{
		users:       users,
		generations: generations,
		moderation:  moderation,
		analytics:   analytics,
		sessions:    sessions,
		limiter:     limiter,
		hasher:      hasher,
		clock:       clock,
		sessionTTL:  sessionTTL,
		cache:       newAnalyticsCache(analyticsCacheTTL, clock),
	}
}

// --- Sessions ---

// Login runs the credential gauntlet: rate limit, account lookup, device
// block, password, role, then status. Every attempt against a known account
// lands in the login history, and a blocked device is rejected before any
// password work happens.
func (s *Service) Login(ctx context.Context, in domain.LoginInput) (*domain.User, *domain.Session, error) {
	allowed, err := s.limiter.Allow(ctx, in.Email, in.IP)
	if err != nil {
		return nil, nil, fmt.Errorf("login rate limit: %w", err)
	}
	if !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, nil, domain.ErrLoginThrottled
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		// Unknown accounts get the same answer as wrong passwords.
		return nil, nil, domain.ErrInvalidCredentials
	}

	if in.DeviceHash != "" {
		blocked, err := s.moderation.IsDeviceBlocked(ctx, in.DeviceHash)
		if err != nil {
			return nil, nil, fmt.Errorf("device block check: %w", err)
		}
		if blocked {
			s.recordLogin(ctx, user.ID, in, false)
			metrics.LoginsTotal.WithLabelValues("device_blocked").Inc()
			return nil, nil, domain.ErrDeviceBlocked
		}
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("password verify: %w", err)
	}
	if !ok {
		s.recordLogin(ctx, user.ID, in, false)
		metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.Role.CanUseConsole() {
		s.recordLogin(ctx, user.ID, in, false)
		metrics.LoginsTotal.WithLabelValues("forbidden").Inc()
		return nil, nil, domain.ErrConsoleForbidden
	}

	switch user.Status {
	case domain.StatusBanned:
		s.recordLogin(ctx, user.ID, in, false)
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		return nil, nil, domain.ErrAccountBanned
	case domain.StatusSuspended:
		healed, err := s.healSuspension(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		if healed == nil {
			s.recordLogin(ctx, user.ID, in, false)
			metrics.LoginsTotal.WithLabelValues("suspended").Inc()
			return nil, nil, domain.ErrAccountSuspended
		}
		user = healed
	}

	s.recordLogin(ctx, user.ID, in, true)
	if err := s.limiter.Reset(ctx, in.Email, in.IP); err != nil {
		slog.Warn("failed to reset login rate limit", "error", err)
	}

	now := s.clock.Now().UTC()
	sess := domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		IP:        in.IP,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess, s.sessionTTL); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	slog.Info("console login", "user_id", user.ID, "role", user.Role, "ip", in.IP)
	return user, &sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}
	metrics.SessionsActive.Dec()
	return nil
}

// VerifySession resolves the session token and re-checks the account behind
// it, so a ban or demotion takes effect on the next request rather than at
// cookie expiry. Valid sessions get their TTL slid forward.
func (s *Service) VerifySession(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		_ = s.sessions.Delete(ctx, token)
		return nil, nil, domain.ErrSessionNotFound
	}

	if !user.Role.CanUseConsole() {
		_ = s.sessions.Delete(ctx, token)
		return nil, nil, domain.ErrConsoleForbidden
	}

	switch user.Status {
	case domain.StatusBanned:
		_ = s.sessions.Delete(ctx, token)
		return nil, nil, domain.ErrAccountBanned
	case domain.StatusSuspended:
		healed, err := s.healSuspension(ctx, user)
		if err != nil {
			return nil, nil, err
		}
		if healed == nil {
			_ = s.sessions.Delete(ctx, token)
			return nil, nil, domain.ErrAccountSuspended
		}
		user = healed
	}

	if err := s.sessions.Touch(ctx, token, s.sessionTTL); err != nil {
		slog.Warn("failed to touch session", "error", err)
	}
	return sess, user, nil
}

// healSuspension lazily reactivates an account whose suspension has lapsed.
// Returns the refreshed user, or nil when the suspension still holds.
func (s *Service) healSuspension(ctx context.Context, user *domain.User) (*domain.User, error) {
	if !user.SuspensionLapsed(s.clock.Now()) {
		return nil, nil
	}
	healed, err := s.users.SetStatus(ctx, user.ID, domain.StatusActive, nil, "")
	if err != nil {
		return nil, fmt.Errorf("heal lapsed suspension: %w", err)
	}
	return healed, nil
}

func (s *Service) recordLogin(ctx context.Context, userID uuid.UUID, in domain.LoginInput, succeeded bool) {
	err := s.moderation.InsertLoginEntry(ctx, domain.LoginEntry{
		UserID:     userID,
		IP:         in.IP,
		UserAgent:  in.UserAgent,
		DeviceHash: in.DeviceHash,
		Succeeded:  succeeded,
	})
	if err != nil {
		slog.Error("failed to record login entry", "user_id", userID, "error", err)
	}
}

// --- Users and moderation ---

func (s *Service) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	filter.Limit = clampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.users.List(ctx, filter)
}

func (s *Service) GetUserDetail(ctx context.Context, userID uuid.UUID) (*domain.UserDetail, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == domain.StatusSuspended {
		if healed, err := s.healSuspension(ctx, user); err != nil {
			return nil, err
		} else if healed != nil {
			user = healed
		}
	}

	warnings, err := s.moderation.ListWarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	credits, err := s.moderation.ListCreditEntries(ctx, userID, detailHistoryLimit)
	if err != nil {
		return nil, err
	}
	logins, err := s.moderation.ListLoginEntries(ctx, userID, detailHistoryLimit)
	if err != nil {
		return nil, err
	}
	blocks, err := s.moderation.ListDeviceBlocks(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.UserDetail{
		User:          *user,
		Warnings:      warnings,
		CreditEntries: credits,
		LoginEntries:  logins,
		DeviceBlocks:  blocks,
	}, nil
}

func (s *Service) CreateUser(ctx context.Context, n domain.NewUser) (*domain.User, error) {
	if n.Role == "" {
		n.Role = domain.RoleUser
	}
	hash, err := s.hasher.Hash(n.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, n, hash)
	if err != nil {
		return nil, err
	}
	slog.Info("user created from console", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	var hash string
	if upd.Password != nil {
		var err error
		hash, err = s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}
	return s.users.Update(ctx, userID, upd, hash)
}

func (s *Service) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if actorID == userID {
		return nil, domain.ErrSelfModeration
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.SetRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	// Losing console access invalidates any live console sessions.
	if !role.CanUseConsole() {
		if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
			slog.Error("failed to revoke sessions after demotion", "user_id", userID, "error", err)
		}
	}

	metrics.ModerationActionsTotal.WithLabelValues("role_change").Inc()
	slog.Info("role changed", "actor_id", actorID, "user_id", userID, "role", role)
	return updated, nil
}

func (s *Service) SuspendUser(ctx context.Context, actorID, userID uuid.UUID, until time.Time, reason string) (*domain.User, error) {
	if actorID == userID {
		return nil, domain.ErrSelfModeration
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.SetStatus(ctx, userID, domain.StatusSuspended, &until, reason)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		slog.Error("failed to revoke sessions after suspension", "user_id", userID, "error", err)
	}

	metrics.ModerationActionsTotal.WithLabelValues("suspend").Inc()
	slog.Info("user suspended", "actor_id", actorID, "user_id", userID, "until", until)
	return updated, nil
}

func (s *Service) BanUser(ctx context.Context, actorID, userID uuid.UUID, reason string) (*domain.User, error) {
	if actorID == userID {
		return nil, domain.ErrSelfModeration
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target.Role == domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.SetStatus(ctx, userID, domain.StatusBanned, nil, reason)
	if err != nil {
		return nil, err
	}
	// A ban takes effect immediately, not at next cookie expiry.
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		slog.Error("failed to revoke sessions after ban", "user_id", userID, "error", err)
	}

	metrics.ModerationActionsTotal.WithLabelValues("ban").Inc()
	slog.Info("user banned", "actor_id", actorID, "user_id", userID, "reason", reason)
	return updated, nil
}

func (s *Service) ReactivateUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	updated, err := s.users.SetStatus(ctx, userID, domain.StatusActive, nil, "")
	if err != nil {
		return nil, err
	}
	metrics.ModerationActionsTotal.WithLabelValues("reactivate").Inc()
	return updated, nil
}

func (s *Service) AdjustCredits(ctx context.Context, actorID, userID uuid.UUID, delta int64, reason string) (*domain.User, *domain.CreditEntry, error) {
	user, entry, err := s.users.AdjustCredits(ctx, userID, delta, reason, &actorID)
	if err != nil {
		return nil, nil, err
	}
	metrics.ModerationActionsTotal.WithLabelValues("credit_adjust").Inc()
	slog.Info("credits adjusted", "actor_id", actorID, "user_id", userID, "delta", delta, "balance", entry.Balance)
	return user, entry, nil
}

func (s *Service) WarnUser(ctx context.Context, actorID, userID uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error) {
	warning, err := s.moderation.InsertWarning(ctx, userID, actorID, reason, severity)
	if err != nil {
		return nil, err
	}
	metrics.ModerationActionsTotal.WithLabelValues("warn").Inc()
	return warning, nil
}

func (s *Service) DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error {
	return s.moderation.DeleteWarning(ctx, userID, warningID)
}

func (s *Service) ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error) {
	return s.moderation.ListLoginEntries(ctx, userID, clampLimit(limit))
}

func (s *Service) BlockDevice(ctx context.Context, actorID, userID uuid.UUID, deviceHash, reason string) (*domain.DeviceBlock, error) {
	block, err := s.moderation.InsertDeviceBlock(ctx, deviceHash, userID, actorID, reason)
	if err != nil {
		return nil, err
	}
	metrics.ModerationActionsTotal.WithLabelValues("device_block").Inc()
	return block, nil
}

func (s *Service) UnblockDevice(ctx context.Context, deviceHash string) error {
	if err := s.moderation.DeleteDeviceBlock(ctx, deviceHash); err != nil {
		return err
	}
	metrics.ModerationActionsTotal.WithLabelValues("device_unblock").Inc()
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return domain.ErrSelfModeration
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.Role == domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		slog.Error("failed to revoke sessions before delete", "user_id", userID, "error", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	metrics.ModerationActionsTotal.WithLabelValues("delete").Inc()
	slog.Info("user deleted", "actor_id", actorID, "user_id", userID)
	return nil
}

// guardLastAdmin rejects operations that would leave the console without an
// active admin.
func (s *Service) guardLastAdmin(ctx context.Context) error {
	count, err := s.users.CountActiveAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}

// --- Feed curation ---

func (s *Service) ListGenerations(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error) {
	filter.Limit = clampLimit(filter.Limit)
	return s.generations.List(ctx, filter)
}

func (s *Service) GetGeneration(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	return s.generations.GetByID(ctx, id)
}

func (s *Service) ScoreGeneration(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error) {
	if score != nil && (*score < domain.MinScore || *score > domain.MaxScore) {
		return nil, domain.ErrInvalidScore
	}

	gen, err := s.generations.SetScore(ctx, id, score, featured)
	if err != nil {
		return nil, err
	}

	if score != nil {
		metrics.GenerationReviewsTotal.WithLabelValues("scored").Inc()
	}
	if featured != nil {
		verdict := "unfeatured"
		if *featured {
			verdict = "featured"
		}
		metrics.GenerationReviewsTotal.WithLabelValues(verdict).Inc()
	}
	return gen, nil
}

func (s *Service) RemoveGeneration(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error) {
	gen, err := s.generations.SoftDelete(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	metrics.GenerationReviewsTotal.WithLabelValues("removed").Inc()
	slog.Info("generation removed", "generation_id", id, "reason", reason)
	return gen, nil
}

func (s *Service) HardDeleteGeneration(ctx context.Context, id uuid.UUID) error {
	if err := s.generations.HardDelete(ctx, id); err != nil {
		return err
	}
	metrics.GenerationReviewsTotal.WithLabelValues("hard_deleted").Inc()
	slog.Info("generation hard deleted", "generation_id", id)
	return nil
}

// --- Analytics ---

func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	v, err := s.cached(ctx, "stats", "stats", func() (any, error) {
		return s.analytics.Stats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Stats), nil
}

func (s *Service) Timeline(ctx context.Context, days int) ([]domain.TimelinePoint, error) {
	days = clampWindow(days, domain.DefaultTimelineDays, domain.MaxTimelineDays)
	v, err := s.cached(ctx, "timeline", fmt.Sprintf("timeline:%d", days), func() (any, error) {
		return s.analytics.Timeline(ctx, days)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.TimelinePoint), nil
}

func (s *Service) KindBreakdown(ctx context.Context, days int) ([]domain.KindBreakdown, error) {
	days = clampWindow(days, domain.DefaultTimelineDays, domain.MaxTimelineDays)
	v, err := s.cached(ctx, "breakdown", fmt.Sprintf("breakdown:%d", days), func() (any, error) {
		return s.analytics.KindBreakdown(ctx, days)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.KindBreakdown), nil
}

func (s *Service) Growth(ctx context.Context, weeks int) ([]domain.GrowthPoint, error) {
	weeks = clampWindow(weeks, domain.DefaultGrowthWeeks, domain.MaxGrowthWeeks)
	v, err := s.cached(ctx, "growth", fmt.Sprintf("growth:%d", weeks), func() (any, error) {
		return s.analytics.Growth(ctx, weeks)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.GrowthPoint), nil
}

func (s *Service) ModelPerformance(ctx context.Context) ([]domain.ModelPerformance, error) {
	v, err := s.cached(ctx, "models", "models", func() (any, error) {
		return s.analytics.ModelPerformance(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ModelPerformance), nil
}

// cached wraps an analytics fetch with the TTL cache plus singleflight, so a
// dashboard full of polling tabs costs one SQL aggregate per TTL window.
func (s *Service) cached(_ context.Context, query, key string, fetch func() (any, error)) (any, error) {
	if v, ok := s.cache.get(key); ok {
		metrics.AnalyticsCacheHits.WithLabelValues(query).Inc()
		return v, nil
	}
	metrics.AnalyticsCacheMisses.WithLabelValues(query).Inc()

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if v, ok := s.cache.get(key); ok {
			return v, nil
		}
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		s.cache.set(key, v)
		return v, nil
	})
	return v, err
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func clampWindow(n, fallback, max int) int {
	if n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
