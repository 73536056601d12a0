package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/config"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	apperrors "github.com/rajdeep564/admin-panel-wildmind-sub001/internal/errors"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAdminService struct {
	loginFn         func(ctx context.Context, in domain.LoginInput) (*domain.User, *domain.Session, error)
	logoutFn        func(ctx context.Context, token string) error
	verifySessionFn func(ctx context.Context, token string) (*domain.Session, *domain.User, error)

	listUsersFn        func(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
	getUserDetailFn    func(ctx context.Context, userID uuid.UUID) (*domain.UserDetail, error)
	createUserFn       func(ctx context.Context, n domain.NewUser) (*domain.User, error)
	updateUserFn       func(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error)
	changeRoleFn       func(ctx context.Context, actorID, userID uuid.UUID, role domain.Role) (*domain.User, error)
	suspendUserFn      func(ctx context.Context, actorID, userID uuid.UUID, until time.Time, reason string) (*domain.User, error)
	banUserFn          func(ctx context.Context, actorID, userID uuid.UUID, reason string) (*domain.User, error)
	reactivateUserFn   func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	adjustCreditsFn    func(ctx context.Context, actorID, userID uuid.UUID, delta int64, reason string) (*domain.User, *domain.CreditEntry, error)
	warnUserFn         func(ctx context.Context, actorID, userID uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error)
	deleteWarningFn    func(ctx context.Context, userID, warningID uuid.UUID) error
	listLoginEntriesFn func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error)
	blockDeviceFn      func(ctx context.Context, actorID, userID uuid.UUID, deviceHash, reason string) (*domain.DeviceBlock, error)
	unblockDeviceFn    func(ctx context.Context, deviceHash string) error
	deleteUserFn       func(ctx context.Context, actorID, userID uuid.UUID) error

	listGenerationsFn      func(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error)
	getGenerationFn        func(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
	scoreGenerationFn      func(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error)
	removeGenerationFn     func(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error)
	hardDeleteGenerationFn func(ctx context.Context, id uuid.UUID) error

	statsFn            func(ctx context.Context) (*domain.Stats, error)
	timelineFn         func(ctx context.Context, days int) ([]domain.TimelinePoint, error)
	kindBreakdownFn    func(ctx context.Context, days int) ([]domain.KindBreakdown, error)
	growthFn           func(ctx context.Context, weeks int) ([]domain.GrowthPoint, error)
	modelPerformanceFn func(ctx context.Context) ([]domain.ModelPerformance, error)
}

func (m *mockAdminService) Login(ctx context.Context, in domain.LoginInput) (*domain.User, *domain.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, in)
	}
	return nil, nil, errors.New("not implemented")
}

func (m *mockAdminService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAdminService) VerifySession(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	if m.verifySessionFn != nil {
		return m.verifySessionFn(ctx, token)
	}
	return nil, nil, domain.ErrSessionNotFound
}

func (m *mockAdminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	if m.listUsersFn != nil {
		return m.listUsersFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockAdminService) GetUserDetail(ctx context.Context, userID uuid.UUID) (*domain.UserDetail, error) {
	if m.getUserDetailFn != nil {
		return m.getUserDetailFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) CreateUser(ctx context.Context, n domain.NewUser) (*domain.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, n)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) UpdateUser(ctx context.Context, userID uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(ctx, userID, upd)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role domain.Role) (*domain.User, error) {
	if m.changeRoleFn != nil {
		return m.changeRoleFn(ctx, actorID, userID, role)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) SuspendUser(ctx context.Context, actorID, userID uuid.UUID, until time.Time, reason string) (*domain.User, error) {
	if m.suspendUserFn != nil {
		return m.suspendUserFn(ctx, actorID, userID, until, reason)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) BanUser(ctx context.Context, actorID, userID uuid.UUID, reason string) (*domain.User, error) {
	if m.banUserFn != nil {
		return m.banUserFn(ctx, actorID, userID, reason)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ReactivateUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.reactivateUserFn != nil {
		return m.reactivateUserFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) AdjustCredits(ctx context.Context, actorID, userID uuid.UUID, delta int64, reason string) (*domain.User, *domain.CreditEntry, error) {
	if m.adjustCreditsFn != nil {
		return m.adjustCreditsFn(ctx, actorID, userID, delta, reason)
	}
	return nil, nil, errors.New("not implemented")
}

func (m *mockAdminService) WarnUser(ctx context.Context, actorID, userID uuid.UUID, reason string, severity domain.WarningSeverity) (*domain.Warning, error) {
	if m.warnUserFn != nil {
		return m.warnUserFn(ctx, actorID, userID, reason, severity)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) DeleteWarning(ctx context.Context, userID, warningID uuid.UUID) error {
	if m.deleteWarningFn != nil {
		return m.deleteWarningFn(ctx, userID, warningID)
	}
	return nil
}

func (m *mockAdminService) ListLoginEntries(ctx context.Context, userID uuid.UUID, limit int) ([]domain.LoginEntry, error) {
	if m.listLoginEntriesFn != nil {
		return m.listLoginEntriesFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockAdminService) BlockDevice(ctx context.Context, actorID, userID uuid.UUID, deviceHash, reason string) (*domain.DeviceBlock, error) {
	if m.blockDeviceFn != nil {
		return m.blockDeviceFn(ctx, actorID, userID, deviceHash, reason)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) UnblockDevice(ctx context.Context, deviceHash string) error {
	if m.unblockDeviceFn != nil {
		return m.unblockDeviceFn(ctx, deviceHash)
	}
	return nil
}

func (m *mockAdminService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(ctx, actorID, userID)
	}
	return nil
}

func (m *mockAdminService) ListGenerations(ctx context.Context, filter domain.GenerationFilter) ([]domain.Generation, domain.Cursor, error) {
	if m.listGenerationsFn != nil {
		return m.listGenerationsFn(ctx, filter)
	}
	return nil, domain.Cursor{}, nil
}

func (m *mockAdminService) GetGeneration(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	if m.getGenerationFn != nil {
		return m.getGenerationFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ScoreGeneration(ctx context.Context, id uuid.UUID, score *int, featured *bool) (*domain.Generation, error) {
	if m.scoreGenerationFn != nil {
		return m.scoreGenerationFn(ctx, id, score, featured)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) RemoveGeneration(ctx context.Context, id uuid.UUID, reason string) (*domain.Generation, error) {
	if m.removeGenerationFn != nil {
		return m.removeGenerationFn(ctx, id, reason)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) HardDeleteGeneration(ctx context.Context, id uuid.UUID) error {
	if m.hardDeleteGenerationFn != nil {
		return m.hardDeleteGenerationFn(ctx, id)
	}
	return nil
}

func (m *mockAdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &domain.Stats{}, nil
}

func (m *mockAdminService) Timeline(ctx context.Context, days int) ([]domain.TimelinePoint, error) {
	if m.timelineFn != nil {
		return m.timelineFn(ctx, days)
	}
	return nil, nil
}

func (m *mockAdminService) KindBreakdown(ctx context.Context, days int) ([]domain.KindBreakdown, error) {
	if m.kindBreakdownFn != nil {
		return m.kindBreakdownFn(ctx, days)
	}
	return nil, nil
}

func (m *mockAdminService) Growth(ctx context.Context, weeks int) ([]domain.GrowthPoint, error) {
	if m.growthFn != nil {
		return m.growthFn(ctx, weeks)
	}
	return nil, nil
}

func (m *mockAdminService) ModelPerformance(ctx context.Context) ([]domain.ModelPerformance, error) {
	if m.modelPerformanceFn != nil {
		return m.modelPerformanceFn(ctx)
	}
	return nil, nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app domain.AdminService) *Server {
	t.Helper()

	tmpl := template.Must(template.New("login.html").Parse(`Login {{.CSRFToken}}`))
	template.Must(tmpl.New("console.html").Parse(`Console {{.Username}}`))

	store := sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!!"))
	store.Options = &sessions.Options{
		Path:   "/",
		MaxAge: 3600,
	}

	e := echo.New()

	srv := &Server{
		echo:         e,
		config:       &config.Config{Port: "0", LoginRatePerSecond: 100, LoginBurst: 100},
		app:          app,
		sessionStore: store,
		templates:    tmpl,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

// callHandler wraps a handler with the error middleware, matching production
// behavior.
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return apperrors.Middleware()(handler)(c)
}

func testUser(role domain.Role) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "op@wildmind.dev",
		Username: "operator",
		Role:     role,
		Status:   domain.StatusActive,
	}
}

// withSessionCookie saves a session cookie carrying token onto req.
func withSessionCookie(t *testing.T, srv *Server, req *http.Request, token string) {
	t.Helper()
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.New(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyToken] = token
	require.NoError(t, session.Save(req, rec))
	req.Header.Set("Cookie", rec.Header().Get("Set-Cookie"))
}
