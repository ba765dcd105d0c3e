package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/report-tracker/internal/observability"
)

// ServerConfig controls the fiber application.
type ServerConfig struct {
	Name           string
	RequestTimeout time.Duration
	AllowedOrigins []string
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewApp builds a fiber application with the global middlewares registered.
// Routes are attached separately through RegisterRoutes.
func NewApp(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout, cfg.AllowedOrigins)
	return app
}
