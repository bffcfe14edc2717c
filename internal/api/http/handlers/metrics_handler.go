package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maml-online/internal/observability"
	"github.com/spec-kit/maml-online/internal/session"
)

// MetricsHandler exposes in-memory counters.
type MetricsHandler struct {
	metrics *observability.Metrics
	store   *session.Store
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics, store *session.Store) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store}
}

// Show handles GET /metrics.
func (h *MetricsHandler) Show(c *fiber.Ctx) error {
	participants, admins := h.store.Counts()
	return c.JSON(fiber.Map{
		"http": h.metrics.Snapshot(),
		"store": fiber.Map{
			"participants": participants,
			"admins":       admins,
		},
	})
}
