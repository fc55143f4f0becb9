package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mz310/FitProof/docs"
	"github.com/mz310/FitProof/internal/api/handler"
	"github.com/mz310/FitProof/internal/api/middleware"
	"github.com/mz310/FitProof/internal/core/domain"
	"github.com/mz310/FitProof/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Sessions ports.SessionService
	Tokens   ports.TokenIssuer

	// RateLimiter guards the public auth routes; Backend labels its metrics.
	RateLimiter ports.RateLimiter
	Backend     string

	Checks map[string]handler.Check
	Logger zerolog.Logger

	// Registry receives the HTTP metrics; nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds the Echo instance with all routes registered under /api.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit("1M"))
	promCfg := echoprometheus.MiddlewareConfig{
		Namespace: "fitproof",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	metricsHandler := echoprometheus.NewHandler()
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	sessionHandler := handler.NewSessionHandler(d.Sessions)
	healthHandler := handler.NewHealthHandler(d.Checks)

	requireAuth := middleware.Auth(d.Tokens)
	anyRole := middleware.RBAC(domain.AnyRole...)
	limited := []echo.MiddlewareFunc{}
	if d.RateLimiter != nil {
		limited = append(limited, middleware.RateLimit(d.RateLimiter, d.Backend, d.Logger))
	}

	api := e.Group("/api")

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Auth ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, limited...)
	auth.POST("/login", authHandler.Login, limited...)
	auth.GET("/history", authHandler.History, requireAuth, anyRole)

	// --- Users (admin only) ---
	users := api.Group("/users", requireAuth, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PATCH("/:id/role", userHandler.UpdateRole)

	// --- Devices and sessions ---
	api.GET("/devices", sessionHandler.Devices, requireAuth, anyRole)

	session := api.Group("/session", requireAuth, anyRole)
	session.POST("/start", sessionHandler.Start)
	session.POST("/:id/log", sessionHandler.LogSet)
	session.GET("/:id", sessionHandler.Get)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			}
			if actor, ok := middleware.ActorFrom(c); ok {
				ev = ev.Str("user_id", actor.UserID)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("ip", v.RemoteIP).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
