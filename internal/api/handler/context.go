package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-management/internal/infrastructure/session"
)

var errNoSession = errors.New("handler: session middleware not installed")

// currentSession returns the session loaded by the Session middleware.
func currentSession(c echo.Context) (*session.Session, error) {
	sess, ok := c.Get(session.ContextKey).(*session.Session)
	if !ok || sess == nil {
		return nil, errNoSession
	}
	return sess, nil
}

// pathID parses the :id route parameter as a positive user id.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// queryInt reads an integer query parameter. Missing or malformed values yield
// zero and are normalised by the service.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
