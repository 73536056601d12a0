package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/config"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/web"
)

// Server hosts the admin REST API and the thin console pages that drive it.
type Server struct {
	echo   *echo.Echo
	config *config.Config

	app domain.AdminService

	sessionStore *sessions.CookieStore
	templates    *template.Template
	healthChecks []HealthCheck
	startTime    time.Time
}

// Session cookie keys. The cookie carries only the opaque token; the session
// record itself lives in Redis.
const (
	sessionName     = "wildmind-admin"
	sessionKeyToken = "token"
)

// Context keys set by requireSession.
const (
	ctxKeyUser    = "user"
	ctxKeySession = "session"
)

func NewServer(cfg *config.Config, app domain.AdminService, healthChecks []HealthCheck) (*Server, error) {
	templates, err := template.ParseFS(web.TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		sessionStore: setupSessionStore(cfg),
		templates:    templates,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// successEnvelope mirrors the failure envelope rendered by the error
// middleware: every /api body is one of the two.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func respond(c echo.Context, status int, data any) error {
	if err := c.JSON(status, successEnvelope{Success: true, Data: data}); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(http.StatusOK, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

func setupSessionStore(cfg *config.Config) *sessions.CookieStore {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return sessionStore
}
