package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
)

// --- Mock implementations ---

type mockUserRepo struct {
	createFn            func(ctx context.Context, n domain.NewUser, passwordHash string) (*domain.User, error)
	getByIDFn           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getByEmailFn        func(ctx context.Context, email string) (*domain.User, error)
	listFn              func(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
	updateFn            func(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate, passwordHash string) (*domain.User, error)
	setRoleFn           func(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error)
	setStatusFn         func(ctx context.Context, userID uuid.UUID, status domain.Status, until *time.Time, reason string) (*domain.User, error)
	adjustCreditsFn     func(ctx context.Context, userID uuid.UUID, delta int64, reason string, adjustedBy *uuid.UUID) (*domain.User, *domain.CreditEntry, error)
	deleteFn            func(ctx context.Context, userID uuid.UUID) error
	countActiveAdminsFn func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, n domain.NewUser, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, n, passwordHash)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) Update(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate, passwordHash string) (*domain.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, upd, passwordHash)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) SetRole(ctx context.Context, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if m.setRoleFn != nil {
		return m.setRoleFn(ctx, userID, role)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) SetStatus(ctx context.Context, userID uuid.UUID, status domain.Status, until *time.Time, reason string) (*domain.User, error) {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, userID, status, until, reason)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) AdjustCredits(ctx context.Context, userID uuid.UUID, delta int64, reason string, adjustedBy *uuid.UUID) (*domain.User, *domain.CreditEntry, error) {
	if m.adjustCreditsFn != nil {
		return m.adjustCreditsFn(ctx, userID, delta, reason, adjustedBy)
	}
	return nil, nil, fmt.Errorf("not implemented")
}

func (m *mockUserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockUserRepo) CountActiveAdmins(ctx context.Context) (int64, error) {
	if m.countActiveAdminsFn != nil {
		return m.countActiveAdminsFn(ctx)
	}
	return 2, nil
}

type mockGenerationRepo struct {
	insertFn     func(ctx context.Context, n domain.NewGeneration) (*domain.Generation, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
	listFn       func(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error)
	setScoreFn   func(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error)
	softDeleteFn func(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error)
	hardDeleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockGenerationRepo) Insert(ctx context.Context, n domain.NewGeneration) (*domain.Generation, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, n)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGenerationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGenerationRepo) List(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, domain.Cursor{}, fmt.Errorf("not implemented")
}

func (m *mockGenerationRepo) SetScore(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error) {
	if m.setScoreFn != nil {
		return m.setScoreFn(ctx, id, score, featured)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGenerationRepo) SoftDelete(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error) {
	if m.softDeleteFn != nil {
		return m.softDeleteFn(ctx, id, reason)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockGenerationRepo) HardDelete(ctx context.Context, id uuid.UUID) error {
	if m.hardDeleteFn != nil {
		return m.hardDeleteFn(ctx, id)
	}
	return fmt.Errorf("not implemented")
}

type mockModerationRepo struct {
	insertWarningFn     func(ctx context.Context, userID, issuedBy uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error)
	listWarningsFn      func(ctx context.Context, userID uuid.UUID) ([]domain.Warning, error)
	deleteWarningFn     func(ctx context.Context, userID, warningID uuid.UUID) error
	listCreditEntriesFn func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CreditEntry, error)
	insertLoginEntryFn  func(ctx context.Context, e domain.LoginEntry) error
	listLoginEntriesFn  func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error)
	insertDeviceBlockFn func(ctx context.Context, deviceHash string, userID, blockedBy uuid.UUID, reason string) (*domain.DeviceBlock, error)
	deleteDeviceBlockFn func(ctx context.Context, deviceHash string) error
	listDeviceBlocksFn  func(ctx context.Context, userID uuid.UUID) ([]domain.DeviceBlock, error)
	isDeviceBlockedFn   func(ctx context.Context, deviceHash string) (bool, error)
}

func (m *mockModerationRepo) InsertWarning(ctx context.Context, userID, issuedBy uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error) {
	if m.insertWarningFn != nil {
		return m.insertWarningFn(ctx, userID, issuedBy, reason, severity)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockModerationRepo) ListWarnings(ctx context.Context, userID uuid.UUID) ([]domain.Warning, error) {
	if m.listWarningsFn != nil {
		return m.listWarningsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockModerationRepo) DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error {
	if m.deleteWarningFn != nil {
		return m.deleteWarningFn(ctx, userID, warningID)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockModerationRepo) ListCreditEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.CreditEntry, error) {
	if m.listCreditEntriesFn != nil {
		return m.listCreditEntriesFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockModerationRepo) InsertLoginEntry(ctx context.Context, e domain.LoginEntry) error {
	if m.insertLoginEntryFn != nil {
		return m.insertLoginEntryFn(ctx, e)
	}
	return nil
}

func (m *mockModerationRepo) ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error) {
	if m.listLoginEntriesFn != nil {
		return m.listLoginEntriesFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockModerationRepo) InsertDeviceBlock(ctx context.Context, deviceHash string, userID, blockedBy uuid.UUID, reason string) (*domain.DeviceBlock, error) {
	if m.insertDeviceBlockFn != nil {
		return m.insertDeviceBlockFn(ctx, deviceHash, userID, blockedBy, reason)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockModerationRepo) DeleteDeviceBlock(ctx context.Context, deviceHash string) error {
	if m.deleteDeviceBlockFn != nil {
		return m.deleteDeviceBlockFn(ctx, deviceHash)
	}
	return fmt.Errorf("not implemented")
}

func (m *mockModerationRepo) ListDeviceBlocks(ctx context.Context, userID uuid.UUID) ([]domain.DeviceBlock, error) {
	if m.listDeviceBlocksFn != nil {
		return m.listDeviceBlocksFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockModerationRepo) IsDeviceBlocked(ctx context.Context, deviceHash string) (bool, error) {
	if m.isDeviceBlockedFn != nil {
		return m.isDeviceBlockedFn(ctx, deviceHash)
	}
	return false, nil
}

type mockAnalyticsRepo struct {
	statsFn            func(ctx context.Context) (*domain.Stats, error)
	timelineFn         func(ctx context.Context, days int) ([]domain.TimelinePoint, error)
	kindBreakdownFn    func(ctx context.Context, days int) ([]domain.KindBreakdown, error)
	growthFn           func(ctx context.Context, weeks int) ([]domain.GrowthPoint, error)
	modelPerformanceFn func(ctx context.Context) ([]domain.ModelPerformance, error)
}

func (m *mockAnalyticsRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &domain.Stats{}, nil
}

func (m *mockAnalyticsRepo) Timeline(ctx context.Context, days int) ([]domain.TimelinePoint, error) {
	if m.timelineFn != nil {
		return m.timelineFn(ctx, days)
	}
	return nil, nil
}

func (m *mockAnalyticsRepo) KindBreakdown(ctx context.Context, days int) ([]domain.KindBreakdown, error) {
	if m.kindBreakdownFn != nil {
		return m.kindBreakdownFn(ctx, days)
	}
	return nil, nil
}

func (m *mockAnalyticsRepo) Growth(ctx context.Context, weeks int) ([]domain.GrowthPoint, error) {
	if m.growthFn != nil {
		return m.growthFn(ctx, weeks)
	}
	return nil, nil
}

func (m *mockAnalyticsRepo) ModelPerformance(ctx context.Context) ([]domain.ModelPerformance, error) {
	if m.modelPerformanceFn != nil {
		return m.modelPerformanceFn(ctx)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn           func(ctx context.Context, s domain.Session, ttl time.Duration) error
	getFn              func(ctx context.Context, token string) (*domain.Session, error)
	touchFn            func(ctx context.Context, token string, ttl time.Duration) error
	deleteFn           func(ctx context.Context, token string) error
	deleteAllForUserFn func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session, ttl time.Duration) error {
	if m.createFn != nil {
		return m.createFn(ctx, s, ttl)
	}
	return nil
}

func (m *mockSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	if m.getFn != nil {
		return m.getFn(ctx, token)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepo) Touch(ctx context.Context, token string, ttl time.Duration) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, token, ttl)
	}
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	if m.deleteAllForUserFn != nil {
		return m.deleteAllForUserFn(ctx, userID)
	}
	return nil
}

type mockLoginLimiter struct {
	allowFn func(ctx context.Context, email, ip string) (bool, error)
	resetFn func(ctx context.Context, email, ip string) error
}

func (m *mockLoginLimiter) Allow(ctx context.Context, email, ip string) (bool, error) {
	if m.allowFn != nil {
		return m.allowFn(ctx, email, ip)
	}
	return true, nil
}

func (m *mockLoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, email, ip)
	}
	return nil
}
