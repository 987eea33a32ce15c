package storage

import (
	"errors"
	"net/url"
	"path"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"
)

// Handler serves files published by the local provider
type Handler struct {
	provider *LocalProvider
}

// NewHandler creates a new file handler
func NewHandler(provider *LocalProvider) *Handler {
	return &Handler{
		provider: provider,
	}
}

// ServeFile godoc
// @Summary Download an export
// @Description Download a file published by local storage through its signed link
// @Tags Files
// @Produce octet-stream
// @Param key path string true "Object key"
// @Param expires query int true "Expiry (unix seconds)"
// @Param signature query string true "HMAC signature"
// @Success 200 {file} file
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /files/{key} [get]
func (h *Handler) ServeFile(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file key",
		})
	}

	filePath, err := h.provider.Open(key, c.Query("expires"), c.Query("signature"))
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "File not found",
		})
	case err != nil:
		utils.LogWarn("⚠️ Rejected file link", map[string]interface{}{
			"key":    key,
			"reason": err.Error(),
		})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Link is invalid or has expired",
		})
	}

	return c.Download(filePath, path.Base(key))
}
