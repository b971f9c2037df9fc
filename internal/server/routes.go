package server

import (
	"net/http"

	"FitCoach/internal/admin"
	"FitCoach/internal/metrics"
	"FitCoach/internal/planner"
	"FitCoach/internal/utility"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Validator = utility.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:       300,
	}))

	e.Use(LoggerMiddleware)
	e.Use(metrics.Middleware)

	e.GET("/health", s.healthHandler)
	e.GET("/health/server", admin.GetServerHealthHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	if s.healthStream != nil {
		e.GET("/admin/ws/health", s.healthStream.Handler)
	}

	planner.NewHandler(s.db, s.gen).Register(e.Group("/api"))

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

// LoggerMiddleware assigns a request id and attaches a logger carrying it to
// both the echo context and the request context.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(utility.RequestIDKey, requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("ip", utility.GetRealIP(c)).
			Logger()

		c.Set(utility.LoggerKey, &logger)
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		return next(c)
	}
}
