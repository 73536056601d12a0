package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	apperrors "github.com/rajdeep564/admin-panel-wildmind-sub001/internal/errors"
)

// requireSession resolves the session cookie to a Redis session plus the live
// account behind it. API routes answer 401 envelopes; page routes redirect to
// the login screen.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := s.sessionToken(c)
		if !ok {
			return s.rejectUnauthenticated(c, "missing session")
		}

		sess, user, err := s.app.VerifySession(c.Request().Context(), token)
		if err != nil {
			s.clearSessionCookie(c)
			return s.rejectUnauthenticated(c, "session expired")
		}

		c.Set(ctxKeySession, sess)
		c.Set(ctxKeyUser, user)
		c.Set("userID", user.ID)
		return next(c)
	}
}

// requireAdmin gates admin-only operations. It assumes requireSession already
// ran.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := currentUser(c)
		if user == nil || user.Role != domain.RoleAdmin {
			return apperrors.ForbiddenError("admin role required")
		}
		return next(c)
	}
}

func (s *Server) sessionToken(c echo.Context) (string, bool) {
	cookie, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return "", false
	}
	token, ok := cookie.Values[sessionKeyToken].(string)
	return token, ok && token != ""
}

func (s *Server) clearSessionCookie(c echo.Context) {
	cookie, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return
	}
	cookie.Options.MaxAge = -1
	_ = cookie.Save(c.Request(), c.Response().Writer)
}

func (s *Server) rejectUnauthenticated(c echo.Context, message string) error {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return apperrors.UnauthorizedError(message)
	}
	return c.Redirect(http.StatusFound, "/login")
}

func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(ctxKeyUser).(*domain.User)
	return user
}

// translateError maps domain sentinels onto the structured error types the
// envelope middleware renders. Anything unmapped is an internal error and the
// client sees a generic message.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrGenerationNotFound),
		errors.Is(err, domain.ErrWarningNotFound),
		errors.Is(err, domain.ErrDeviceBlockNotFound):
		return apperrors.NotFoundError(err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrLastAdmin),
		errors.Is(err, domain.ErrInsufficientCredits):
		return apperrors.ConflictError(err.Error())
	case errors.Is(err, domain.ErrInvalidCursor),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrSelfModeration):
		return apperrors.ValidationError(err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrConsoleForbidden),
		errors.Is(err, domain.ErrAccountSuspended),
		errors.Is(err, domain.ErrAccountBanned),
		errors.Is(err, domain.ErrDeviceBlocked),
		errors.Is(err, domain.ErrSessionNotFound):
		return apperrors.UnauthorizedError(err.Error())
	case errors.Is(err, domain.ErrLoginThrottled):
		return apperrors.TooManyRequestsError(err.Error())
	default:
		return apperrors.InternalError("internal server error", err)
	}
}
