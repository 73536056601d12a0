package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	apperrors "github.com/rajdeep564/admin-panel-wildmind-sub001/internal/errors"
)

func (s *Server) registerGenerationRoutes(api *echo.Group) {
	api.GET("/generations", s.handleListGenerations)
	api.GET("/generations/:id", s.handleGetGeneration)
	api.POST("/generations/:id/score", s.handleScoreGeneration)
	api.DELETE("/generations/:id", s.handleDeleteGeneration)
}

func (s *Server) handleListGenerations(c echo.Context) error {
	filter := domain.GenerationFilter{
		ModelKey: c.QueryParam("model"),
	}

	if raw := c.QueryParam("cursor"); raw != "" {
		cursor, err := domain.DecodeCursor(raw)
		if err != nil {
			return translateError(err)
		}
		filter.Cursor = cursor
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.ValidationError("invalid user_id parameter")
		}
		filter.UserID = userID
	}
	if kind := c.QueryParam("kind"); kind != "" {
		filter.Kind = domain.GenerationKind(kind)
		if !filter.Kind.Valid() {
			return apperrors.ValidationError("unknown kind filter")
		}
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = domain.GenerationStatus(status)
		if !filter.Status.Valid() {
			return apperrors.ValidationError("unknown status filter")
		}
	}
	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.ValidationError("invalid featured parameter")
		}
		filter.FeaturedOnly = featured
	}
	if raw := c.QueryParam("min_score"); raw != "" {
		minScore, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.ValidationError("invalid min_score parameter")
		}
		filter.MinScore = &minScore
	}
	if raw := c.QueryParam("include_removed"); raw != "" {
		includeRemoved, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.ValidationError("invalid include_removed parameter")
		}
		filter.IncludeRemoved = includeRemoved
	}

	var err error
	if filter.Limit, err = intParam(c, "limit", 0); err != nil {
		return err
	}

	items, next, err := s.app.ListGenerations(c.Request().Context(), filter)
	if err != nil {
		return translateError(err)
	}

	resp := map[string]any{"items": items}
	if !next.IsZero() {
		resp["next_cursor"] = next.Encode()
	}
	return respond(c, http.StatusOK, resp)
}

func (s *Server) handleGetGeneration(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	gen, err := s.app.GetGeneration(c.Request().Context(), id)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, gen)
}

type scoreRequest struct {
	Score    *int  `json:"score"`
	Featured *bool `json:"featured"`
}

func (s *Server) handleScoreGeneration(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Score == nil && req.Featured == nil {
		return apperrors.ValidationError("score or featured is required")
	}

	gen, err := s.app.ScoreGeneration(c.Request().Context(), id, req.Score, req.Featured)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, gen)
}

// handleDeleteGeneration soft-removes by default. ?hard=true destroys the row
// and is reserved for admins.
func (s *Server) handleDeleteGeneration(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if raw := c.QueryParam("hard"); raw != "" {
		hard, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.ValidationError("invalid hard parameter")
		}
		if hard {
			if currentUser(c).Role != domain.RoleAdmin {
				return apperrors.ForbiddenError("admin role required")
			}
			if err := s.app.HardDeleteGeneration(c.Request().Context(), id); err != nil {
				return translateError(err)
			}
			return respond(c, http.StatusOK, map[string]any{"deleted": true})
		}
	}

	gen, err := s.app.RemoveGeneration(c.Request().Context(), id, c.QueryParam("reason"))
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, gen)
}
