package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-management/internal/infrastructure/session"
)

// Session loads the browser session named by the request cookie and stores it
// in the echo context under session.ContextKey. Changes made by the handler are
// committed right before the response headers are written.
func Session(manager *session.Manager, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			var id string
			if cookie, err := c.Cookie(manager.CookieName()); err == nil {
				id = cookie.Value
			}

			sess, err := manager.Load(ctx, id)
			if err != nil {
				log.Error().Err(err).Str("path", c.Path()).Msg("failed to load session")
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}
			c.Set(session.ContextKey, sess)

			c.Response().Before(func() {
				cookie, err := manager.Commit(ctx, sess)
				if err != nil {
					log.Error().Err(err).Str("path", c.Path()).Msg("failed to save session")
					return
				}
				if cookie != nil {
					c.SetCookie(cookie)
				}
			})

			return next(c)
		}
	}
}

// RequireLogin redirects to /login unless the session has a logged-in user.
// It must run after Session.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := c.Get(session.ContextKey).(*session.Session)
		if !ok || !sess.Authenticated() {
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	}
}
