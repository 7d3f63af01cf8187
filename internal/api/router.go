package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/userhub/user-management/docs"
	"github.com/userhub/user-management/internal/api/handler"
	"github.com/userhub/user-management/internal/api/middleware"
	"github.com/userhub/user-management/internal/api/view"
	"github.com/userhub/user-management/internal/core/ports"
	"github.com/userhub/user-management/internal/infrastructure/session"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Users    ports.UserService
	Auth     ports.AuthService
	Sessions *session.Manager
	Health   []handler.Dependency

	// JWTSecret enables bearer auth on the user API and the token endpoint.
	JWTSecret string

	// Registry overrides the Prometheus registry for HTTP metrics.
	// Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	promConfig := echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	metricsHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promConfig.Registerer = d.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promConfig))

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler(d.Health...)
	e.GET("/health", healthHandler.Liveness)        // liveness: is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Browser routes ---
	web := handler.NewWebHandler(d.Users, d.Log)
	withSession := middleware.Session(d.Sessions, d.Log)

	e.GET("/", web.Index)
	e.GET("/add", web.ShowAdd)
	e.POST("/add", web.Add)
	e.GET("/add/success", web.AddSuccess)
	e.GET("/login", web.ShowLogin)
	e.POST("/login", web.Login, withSession)
	e.GET("/dashboard", web.Dashboard, withSession, middleware.RequireLogin)
	e.POST("/update", web.Update, withSession, middleware.RequireLogin)
	e.GET("/logout", web.Logout, withSession)

	// --- JSON API ---
	userHandler := handler.NewUserHandler(d.Users, d.Log)
	apiV1 := e.Group("/api/v1")

	var users *echo.Group
	if d.JWTSecret != "" {
		authHandler := handler.NewAuthHandler(d.Auth, d.Log)
		apiV1.POST("/auth/token", authHandler.Token)
		users = apiV1.Group("/users", middleware.Auth(d.JWTSecret))
	} else {
		users = apiV1.Group("/users")
	}

	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	return e, nil
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
