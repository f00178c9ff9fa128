package api

import (
	"regcheck-bot/internal/api/handlers"
	"regcheck-bot/pkg/config"
	"regcheck-bot/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// WebhookPath is where Telegram posts updates in webhook mode.
const WebhookPath = "/telegram/webhook"

// SetupRouter builds the HTTP surface. webhookHandler is nil in polling mode
// and the webhook route is not registered then.
func SetupRouter(
	cfg *config.ServerConfig,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	webhookSecret string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz" || c.Path() == "/metrics"
		},
	}))

	app.Get("/healthz", healthHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if webhookHandler != nil {
		appLogger.Info("Webhook route enabled", zap.String("path", WebhookPath))
		app.Post(WebhookPath, middleware.WebhookSecret(webhookSecret, appLogger), webhookHandler.Receive)
	}

	return app
}
