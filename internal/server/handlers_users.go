package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rajdeep564/admin-panel-wildmind-sub001/internal/domain"
	apperrors "github.com/rajdeep564/admin-panel-wildmind-sub001/internal/errors"
)

// registerUserRoutes wires the account and moderation endpoints. Listing and
// detail are open to any console role; everything that mutates an account is
// admin-only.
func (s *Server) registerUserRoutes(api *echo.Group) {
	api.GET("/users", s.handleListUsers)
	api.GET("/users/:id", s.handleGetUser)
	api.GET("/users/:id/logins", s.handleListLogins)

	api.POST("/users", s.handleCreateUser, s.requireAdmin)
	api.PATCH("/users/:id", s.handleUpdateUser, s.requireAdmin)
	api.DELETE("/users/:id", s.handleDeleteUser, s.requireAdmin)
	api.POST("/users/:id/role", s.handleChangeRole, s.requireAdmin)
	api.POST("/users/:id/suspend", s.handleSuspendUser, s.requireAdmin)
	api.POST("/users/:id/ban", s.handleBanUser, s.requireAdmin)
	api.POST("/users/:id/reactivate", s.handleReactivateUser, s.requireAdmin)
	api.POST("/users/:id/credits", s.handleAdjustCredits, s.requireAdmin)
	api.POST("/users/:id/warnings", s.handleWarnUser, s.requireAdmin)
	api.DELETE("/users/:id/warnings/:warningID", s.handleDeleteWarning, s.requireAdmin)
	api.POST("/users/:id/device-blocks", s.handleBlockDevice, s.requireAdmin)
	api.DELETE("/users/:id/device-blocks/:hash", s.handleUnblockDevice, s.requireAdmin)
}

func (s *Server) handleListUsers(c echo.Context) error {
	filter := domain.UserFilter{
		Search: c.QueryParam("search"),
	}

	if role := c.QueryParam("role"); role != "" {
		filter.Role = domain.Role(role)
		if !filter.Role.Valid() {
			return apperrors.ValidationError("unknown role filter")
		}
	}
	if status := c.QueryParam("status"); status != "" {
		filter.Status = domain.Status(status)
		if !filter.Status.Valid() {
			return apperrors.ValidationError("unknown status filter")
		}
	}

	var err error
	if filter.Limit, err = intParam(c, "limit", 0); err != nil {
		return err
	}
	if filter.Offset, err = intParam(c, "offset", 0); err != nil {
		return err
	}

	users, total, err := s.app.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return translateError(err)
	}

	return respond(c, http.StatusOK, map[string]any{
		"users": users,
		"total": total,
	})
}

func (s *Server) handleGetUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := s.app.GetUserDetail(c.Request().Context(), userID)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, detail)
}

type createUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Credits     int64  `json:"credits"`
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Email == "" || req.Username == "" {
		return apperrors.ValidationError("email and username are required")
	}
	if len(req.Password) < 8 {
		return apperrors.ValidationError("password must be at least 8 characters")
	}
	if req.Credits < 0 {
		return apperrors.ValidationError("credits must not be negative")
	}
	role := domain.Role(req.Role)
	if req.Role != "" && !role.Valid() {
		return apperrors.ValidationError("unknown role")
	}

	user, err := s.app.CreateUser(c.Request().Context(), domain.NewUser{
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        role,
		Credits:     req.Credits,
	})
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusCreated, user)
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Password    *string `json:"password"`
}

func (s *Server) handleUpdateUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Email == nil && req.Username == nil && req.DisplayName == nil && req.Password == nil {
		return apperrors.ValidationError("no fields to update")
	}
	if req.Password != nil && len(*req.Password) < 8 {
		return apperrors.ValidationError("password must be at least 8 characters")
	}

	user, err := s.app.UpdateUser(c.Request().Context(), userID, domain.UserUpdate{
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := s.app.DeleteUser(c.Request().Context(), currentUser(c).ID, userID); err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleChangeRole(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	role := domain.Role(req.Role)
	if !role.Valid() {
		return apperrors.ValidationError("unknown role")
	}

	user, err := s.app.ChangeRole(c.Request().Context(), currentUser(c).ID, userID, role)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleSuspendUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Until  time.Time `json:"until"`
		Reason string    `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Reason == "" {
		return apperrors.ValidationError("reason is required")
	}
	if !req.Until.After(time.Now()) {
		return apperrors.ValidationError("until must be in the future")
	}

	user, err := s.app.SuspendUser(c.Request().Context(), currentUser(c).ID, userID, req.Until, req.Reason)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleBanUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Reason == "" {
		return apperrors.ValidationError("reason is required")
	}

	user, err := s.app.BanUser(c.Request().Context(), currentUser(c).ID, userID, req.Reason)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleReactivateUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := s.app.ReactivateUser(c.Request().Context(), userID)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, user)
}

func (s *Server) handleAdjustCredits(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Delta  int64  `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Delta == 0 {
		return apperrors.ValidationError("delta must not be zero")
	}
	if req.Reason == "" {
		return apperrors.ValidationError("reason is required")
	}

	user, entry, err := s.app.AdjustCredits(c.Request().Context(), currentUser(c).ID, userID, req.Delta, req.Reason)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{
		"user":  user,
		"entry": entry,
	})
}

func (s *Server) handleWarnUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Reason   string `json:"reason"`
		Severity string `json:"severity"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.Reason == "" {
		return apperrors.ValidationError("reason is required")
	}
	severity := domain.WarningSeverity(req.Severity)
	if !severity.Valid() {
		return apperrors.ValidationError("unknown severity")
	}

	warning, err := s.app.WarnUser(c.Request().Context(), currentUser(c).ID, userID, req.Reason, severity)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusCreated, warning)
}

func (s *Server) handleDeleteWarning(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	warningID, err := pathUUID(c, "warningID")
	if err != nil {
		return err
	}

	if err := s.app.DeleteWarning(c.Request().Context(), userID, warningID); err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleListLogins(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit", 0)
	if err != nil {
		return err
	}

	entries, err := s.app.ListLoginEntries(c.Request().Context(), userID, limit)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"logins": entries})
}

func (s *Server) handleBlockDevice(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		DeviceHash string `json:"device_hash"`
		Reason     string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.DeviceHash == "" {
		return apperrors.ValidationError("device_hash is required")
	}
	if req.Reason == "" {
		return apperrors.ValidationError("reason is required")
	}

	block, err := s.app.BlockDevice(c.Request().Context(), currentUser(c).ID, userID, req.DeviceHash, req.Reason)
	if err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusCreated, block)
}

func (s *Server) handleUnblockDevice(c echo.Context) error {
	hash := c.Param("hash")
	if hash == "" {
		return apperrors.ValidationError("device hash is required")
	}

	if err := s.app.UnblockDevice(c.Request().Context(), hash); err != nil {
		return translateError(err)
	}
	return respond(c, http.StatusOK, map[string]any{"deleted": true})
}

// --- Param helpers ---

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid " + name + " parameter")
	}
	return id, nil
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationError("invalid " + name + " parameter")
	}
	return n, nil
}
