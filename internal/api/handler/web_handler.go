package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-management/internal/api/metrics"
	"github.com/userhub/user-management/internal/api/view"
	"github.com/userhub/user-management/internal/core/domain"
	"github.com/userhub/user-management/internal/core/ports"
)

// WebHandler serves the HTML pages: registration, login, dashboard and logout.
// Every route except Index runs behind the Session middleware.
type WebHandler struct {
	service ports.UserService
	log     zerolog.Logger
}

func NewWebHandler(service ports.UserService, log zerolog.Logger) *WebHandler {
	return &WebHandler{service: service, log: log}
}

func (h *WebHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageIndex, echo.Map{"title": "Home Page"})
}

func (h *WebHandler) ShowAdd(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageAdd, echo.Map{})
}

// Add handles the registration form.
func (h *WebHandler) Add(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, view.PageAdd, echo.Map{"alert": "Invalid form submission"})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusOK, view.PageAdd, echo.Map{"alert": err.Error(), "form": req})
	}

	_, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		if msg, ok := registerConflictMessage(err); ok {
			return c.Render(http.StatusOK, view.PageAdd, echo.Map{"alert": msg, "form": req})
		}
		return err
	}

	metrics.RegisteredTotal.Inc()
	return c.Redirect(http.StatusFound, "/add/success")
}

func (h *WebHandler) AddSuccess(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageAdd, echo.Map{"message": "Registration Successful"})
}

func (h *WebHandler) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLogin, echo.Map{})
}

// Login authenticates the form credentials and binds the session to the user.
// Unknown user and wrong password render the same alert.
func (h *WebHandler) Login(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, view.PageLogin, echo.Map{"alert": "Invalid form submission"})
	}

	user, err := h.service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.Render(http.StatusOK, view.PageLogin, echo.Map{"alert": "Invalid credentials"})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	sess.Login(user.ID, user.Username)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.log.Info().Int64("user_id", user.ID).Msg("user logged in")

	return c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard shows the logged-in user and consumes pending flash messages.
// A session pointing at a deleted user is sent to /logout.
func (h *WebHandler) Dashboard(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), sess.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Redirect(http.StatusFound, "/logout")
		}
		return err
	}

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.Render(http.StatusOK, view.PageDashboard, echo.Map{
		"user":          user,
		"message":       sess.TakeMessage(),
		"alert_message": sess.TakeAlert(),
	})
}

// Update applies the dashboard form to the logged-in user's own record and
// reports the outcome through a flash message.
func (h *WebHandler) Update(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		sess.SetAlert("Invalid form submission")
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	if err := c.Validate(&req); err != nil {
		sess.SetAlert(err.Error())
		return c.Redirect(http.StatusFound, "/dashboard")
	}

	err = h.service.Update(c.Request().Context(), toUpdateInput(sess.UserID(), req))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Redirect(http.StatusFound, "/logout")
		}
		if msg, ok := updateConflictMessage(err); ok {
			sess.SetAlert(msg)
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		return err
	}

	metrics.UpdatedTotal.Inc()
	sess.SetMessage("User updated successfully")
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Logout destroys the session; the middleware expires the cookie.
func (h *WebHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	sess.Destroy()
	return c.Redirect(http.StatusFound, "/login")
}
