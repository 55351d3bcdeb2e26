package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/utils"
)

// HandleHealth reports service and database health.
func (w *WebApp) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	dbStatus := "ok"
	if err := w.DB.GetPool().Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}

	status := fiber.Map{
		"status":    "ok",
		"version":   w.Version,
		"database":  dbStatus,
		"timestamp": time.Now(),
	}
	if dbStatus != "ok" {
		status["status"] = "degraded"
		return utils.SendJSON(c, fiber.StatusServiceUnavailable, status)
	}

	return utils.SendSuccess(c, status, "")
}
