package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerPageRoutes(csrf echo.MiddlewareFunc) {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/login", s.handleLoginPage, csrf)
	s.echo.GET("/console", s.handleConsolePage, s.requireSession, csrf)
}

// handleRoot sends authenticated operators straight to the console.
func (s *Server) handleRoot(c echo.Context) error {
	if s.isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/console")
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (s *Server) handleLoginPage(c echo.Context) error {
	if s.isAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/console")
	}

	return s.renderTemplate(c, "login.html", map[string]any{
		"CSRFToken": c.Get("csrf"),
	})
}

func (s *Server) handleConsolePage(c echo.Context) error {
	user := currentUser(c)

	return s.renderTemplate(c, "console.html", map[string]any{
		"Username":    user.Username,
		"DisplayName": user.DisplayName,
		"Role":        string(user.Role),
		"CSRFToken":   c.Get("csrf"),
	})
}

// isAuthenticated does a full session check so a stale cookie on the login
// page does not bounce the operator into an immediate redirect loop.
func (s *Server) isAuthenticated(c echo.Context) bool {
	token, ok := s.sessionToken(c)
	if !ok {
		return false
	}
	_, _, err := s.app.VerifySession(c.Request().Context(), token)
	return err == nil
}
