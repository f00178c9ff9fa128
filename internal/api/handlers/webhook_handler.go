package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UpdateConsumer interface {
	Consume(update tgbotapi.Update)
}

type WebhookHandler struct {
	consumer UpdateConsumer
	logger   *zap.Logger
}

func NewWebhookHandler(consumer UpdateConsumer, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		consumer: consumer,
		logger:   logger,
	}
}

// Receive accepts one update pushed by Telegram. Processing is asynchronous,
// so Telegram gets its 200 as soon as the update is queued.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := c.BodyParser(&update); err != nil {
		h.logger.Warn("Invalid webhook payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid update",
		})
	}

	h.consumer.Consume(update)
	return c.SendStatus(fiber.StatusOK)
}
