package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCounter reports how many documents wait for a payment receipt.
type SessionCounter interface {
	Len() int
}

type HealthHandler struct {
	sessions  SessionCounter
	startedAt time.Time
}

func NewHealthHandler(sessions SessionCounter) *HealthHandler {
	return &HealthHandler{
		sessions:  sessions,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ok",
		"uptime":           time.Since(h.startedAt).Round(time.Second).String(),
		"pending_sessions": h.sessions.Len(),
	})
}
