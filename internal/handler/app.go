package handler

import (
	"time"

	"github.com/Developershubh00/Binder-backend/internal/handler/middleware"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

type AppConfig struct {
	Name           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// NewApp creates the Fiber app with the envelope error handler and the
// global middleware chain. m may be nil.
func NewApp(cfg AppConfig, log *logger.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log),
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerMiddleware(log))
	if m != nil {
		app.Use(middleware.MetricsMiddleware(m))
	}
	app.Use(middleware.RecoveryMiddleware(log))
	app.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	return app
}
