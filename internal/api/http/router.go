package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/report-tracker/internal/api/http/handlers"
	"github.com/spec-kit/report-tracker/internal/auth"
	"github.com/spec-kit/report-tracker/internal/observability"
)

// APIPrefix is the mount point of every API route.
const APIPrefix = "/api/v1"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Reports        *handlers.ReportsHandler
	Moderation     *handlers.ModerationHandler
	Admin          *handlers.AdminHandler
	Trello         *handlers.TrelloHandler
	Visitors       *handlers.VisitorsHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthLimiter    fiber.Handler
	Metrics        *observability.Metrics
	StaticDir      string
}

// RegisterRoutes wires HTTP routes. Report reads are open; every mutation requires a bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	limiter := cfg.AuthLimiter
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	requireAuth := cfg.AuthMiddleware.Handle

	api := app.Group(APIPrefix)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limiter, cfg.Users.Register)
	authGroup.Post("/login", limiter, cfg.Users.Login)
	authGroup.Get("/me", requireAuth, cfg.Users.Me)

	api.Get("/reports", cfg.Reports.List)
	api.Get("/reports/:id", cfg.Reports.Get)
	api.Post("/reports", requireAuth, cfg.Reports.Create)
	api.Put("/reports/:id", requireAuth, cfg.Reports.Update)
	api.Delete("/reports/:id", requireAuth, cfg.Reports.Delete)
	api.Delete("/reports", requireAuth, auth.RequireAdmin(), cfg.Reports.Purge)

	mod := api.Group("/mod", requireAuth, auth.RequireModerator())
	mod.Get("/reports", cfg.Moderation.Queue)
	mod.Patch("/reports/:id", cfg.Moderation.Moderate)
	mod.Get("/reports/:id/history", cfg.Moderation.History)

	admin := api.Group("/admin", requireAuth, auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Patch("/users/:id/role", cfg.Admin.SetRole)

	api.Get("/trello-stats", cfg.Trello.Stats)
	api.Post("/trello-stats/update", cfg.Trello.Update)

	api.Post("/log-visit", cfg.Visitors.LogVisit)
	api.Get("/visitors/countries", cfg.Visitors.Countries)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
