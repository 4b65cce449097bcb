package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/onboard-go-api/internal/config"
	"github.com/noah-isme/onboard-go-api/internal/handler"
	"github.com/noah-isme/onboard-go-api/internal/middleware"
	"github.com/noah-isme/onboard-go-api/internal/models"
	"github.com/noah-isme/onboard-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DocumentHandler     *handler.DocumentHandler
	PaymentHandler      *handler.PaymentHandler
	ChatHandler         *handler.ChatHandler
	HostelHandler       *handler.HostelHandler
	LMSHandler          *handler.LMSHandler
	ProgressHandler     *handler.ProgressHandler
	NotificationHandler *handler.NotificationHandler
	AdminHandler        *handler.AdminHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DocumentHandler != nil {
		documents := api.Group("/documents", jwtMiddleware,
			middleware.RateLimit("documents", 30, time.Minute))
		deps.DocumentHandler.Register(documents)
	}

	if deps.PaymentHandler != nil {
		payment := api.Group("/payment", jwtMiddleware,
			middleware.RateLimit("payment", 60, time.Minute))
		deps.PaymentHandler.Register(payment)
	}

	if deps.ChatHandler != nil {
		chat := api.Group("/chat", jwtMiddleware,
			middleware.RateLimit("chat", 120, time.Minute))
		deps.ChatHandler.Register(chat)
	}

	if deps.HostelHandler != nil {
		hostel := api.Group("/hostel", jwtMiddleware)
		deps.HostelHandler.Register(hostel)
	}

	if deps.LMSHandler != nil {
		lms := api.Group("/lms", jwtMiddleware)
		deps.LMSHandler.Register(lms)
	}

	if deps.ProgressHandler != nil {
		progress := api.Group("/progress", jwtMiddleware)
		deps.ProgressHandler.Register(progress)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware,
			middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
		deps.AdminHandler.Register(admin)
	}
}
