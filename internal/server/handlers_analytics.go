package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerAnalyticsRoutes(api *echo.Group) {
	api.GET("/analytics/stats", s.handleStats)
	api.GET("/analytics/timeline", s.handleTimeline)
	api.GET("/analytics/breakdown", s.handleKindBreakdown)
	api.GET("/analytics/growth", s.handleGrowth)
	api.GET("/analytics/models", s.handleModelPerformance)
}

func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.app.Stats(c.Request().Context())
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, stats)
}

func (s *Server) handleTimeline(c echo.Context) error {
	days, err := intParam(c, "days", 0)
	if err != nil {
		return err
	}

	points, err := s.app.Timeline(c.Request().Context(), days)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleKindBreakdown(c echo.Context) error {
	days, err := intParam(c, "days", 0)
	if err != nil {
		return err
	}

	breakdown, err := s.app.KindBreakdown(c.Request().Context(), days)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"breakdown": breakdown})
}

func (s *Server) handleGrowth(c echo.Context) error {
	weeks, err := intParam(c, "weeks", 0)
	if err != nil {
		return err
	}

	points, err := s.app.Growth(c.Request().Context(), weeks)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"points": points})
}

func (s *Server) handleModelPerformance(c echo.Context) error {
	models, err := s.app.ModelPerformance(c.Request().Context())
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"models": models})
}
