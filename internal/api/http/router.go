package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jeerawut3427/personal-system/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	API    *handlers.APIHandler
}

// RegisterRoutes wires HTTP routes. Every action goes through the single
// /api endpoint; only health probes get their own paths.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/api", cfg.API.Handle)
}
