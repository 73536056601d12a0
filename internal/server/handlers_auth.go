package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	apperrors "github.com/rajdeep564/admin-panel-wildmind-sub001/internal/errors"
)

func (s *Server) registerAuthRoutes(csrf, loginLimiter echo.MiddlewareFunc) {
	s.echo.POST("/api/auth/login", s.handleLogin, loginLimiter, csrf)
	s.echo.POST("/api/auth/logout", s.handleLogout, s.requireSession, csrf)
	s.echo.GET("/api/auth/verify", s.handleVerify, s.requireSession)
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceHash string `json:"device_hash"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("email and password are required")
	}

	user, sess, err := s.app.Login(c.Request().Context(), domain.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		IP:         c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
		DeviceHash: req.DeviceHash,
	})
	if err != nil {
		return translateError(err)
	}

	cookie, err := s.sessionStore.New(c.Request(), sessionName)
	if err != nil {
		return apperrors.InternalError("failed to create session cookie", err)
	}
	cookie.Values[sessionKeyToken] = sess.Token
	if err := cookie.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session cookie", err)
	}

	return respond(c, http.StatusOK, map[string]any{
		"user":       user,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	token, _ := s.sessionToken(c)
	if err := s.app.Logout(c.Request().Context(), token); err != nil {
		slog.Warn("logout with stale session", "error", err)
	}
	s.clearSessionCookie(c)
	return respond(c, http.StatusOK, map[string]any{"logged_out": true})
}

func (s *Server) handleVerify(c echo.Context) error {
	sess, _ := c.Get(ctxKeySession).(*domain.Session)
	return respond(c, http.StatusOK, map[string]any{
		"user":       currentUser(c),
		"expires_at": sess.ExpiresAt,
	})
}
