package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-management/internal/api/metrics"
	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// UserHandler serves the JSON user API under /api/v1/users.
type UserHandler struct {
	service ports.UserService
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// Get returns the public projection of one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.UserProfile
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetProfile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("get user failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Error fetching user"})
	}

	return c.JSON(http.StatusOK, profile)
}

// List returns one page of users ordered by id.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page number (1-indexed)"  default(1)
// @Param        count  query     int  false  "Page size (max 100)"      default(10)
// @Success      200    {object}  domain.UserPage
// @Failure      500    {object}  messageResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Page:  queryInt(c, "page"),
		Count: queryInt(c, "count"),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Error fetching users"})
	}

	return c.JSON(http.StatusOK, page)
}

// Create registers a new user.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.UserProfile
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	user, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		if msg, ok := registerConflictMessage(err); ok {
			return c.JSON(http.StatusForbidden, messageResponse{Message: msg})
		}
		h.log.Error().Err(err).Str("username", req.Username).Msg("create user failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Error creating user"})
	}

	metrics.RegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, user.Profile())
}

// Update replaces the editable fields of a user.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	err = h.service.Update(c.Request().Context(), toUpdateInput(id, req))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		}
		if msg, ok := updateConflictMessage(err); ok {
			return c.JSON(http.StatusForbidden, messageResponse{Message: msg})
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("update user failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Error updating user"})
	}

	metrics.UpdatedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User updated successfully"})
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, messageResponse{Message: "User not found"})
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("delete user failed")
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Error deleting user"})
	}

	metrics.DeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// registerConflictMessage maps a create conflict to its user-facing alert
// and records it.
func registerConflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		metrics.ConflictsTotal.WithLabelValues("username", "create").Inc()
		return "Username already exists", true
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.ConflictsTotal.WithLabelValues("email", "create").Inc()
		return "Email already exists", true
	}
	return "", false
}

// updateConflictMessage maps an update conflict to its user-facing alert
// and records it.
func updateConflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUsernameTaken):
		metrics.ConflictsTotal.WithLabelValues("username", "update").Inc()
		return "Username not valid or already in use in other users", true
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.ConflictsTotal.WithLabelValues("email", "update").Inc()
		return "Email not valid or already in use in other users", true
	}
	return "", false
}
