package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/storage"
)

type HealthHandler struct {
	db      *sql.DB
	storage *storage.Service
}

func NewHealthHandler(db *sql.DB, store *storage.Service) *HealthHandler {
	return &HealthHandler{db: db, storage: store}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "crosstab-export",
		"provider": h.storage.GetProviderName(),
	})
}
