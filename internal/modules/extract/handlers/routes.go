package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the extract endpoints
func RegisterRoutes(router fiber.Router, upload *UploadHandler, health *HealthHandler) {
	router.Get("/health", health.GetHealth)

	router.Post("/upload/start", jsonBody, upload.StartUpload)
	router.Post("/upload/:upload_id", jsonBody, upload.AddTable)
	router.Get("/upload/:upload_id", upload.GetExport)
}

// jsonBody reads upload bodies as JSON whatever content type they were sent
// with. The dashboard extension posts text/plain.
func jsonBody(c *fiber.Ctx) error {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		c.Request().Header.SetContentType(fiber.MIMEApplicationJSON)
	}
	return c.Next()
}
