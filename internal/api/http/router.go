package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maml-online/internal/api/http/handlers"
	"github.com/spec-kit/maml-online/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Metrics      *handlers.MetricsHandler
	Registration *handlers.RegistrationHandler
	Session      *handlers.SessionHandler
	StaticDir    string
}

// RegisterRoutes wires HTTP routes.
//
// Paths registered more than once dispatch by role: each role wrapper falls
// through to the next registration of the same path when the caller holds
// a different identity, so registration order matters.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Show)

	register := app.Group("/register")
	register.Post("/participant", cfg.Registration.Participant)
	register.Post("/admin", cfg.Registration.Admin)

	app.Get("/login", auth.Anonymous(cfg.Session.LoginPage))
	app.Get("/login", auth.Any(cfg.Session.AlreadySignedIn))

	app.Get("/welcome", auth.Participant(cfg.Session.ParticipantWelcome))
	app.Get("/welcome", auth.Admin(cfg.Session.AdminWelcome))

	app.Get("/whoami", auth.Any(cfg.Session.WhoAmI))
	app.Post("/logout", cfg.Session.Logout)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
