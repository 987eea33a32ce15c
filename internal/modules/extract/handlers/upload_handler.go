package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/services"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"
)

// UploadHandler handles the upload session endpoints
type UploadHandler struct {
	uploadService *services.UploadService
	exportService *services.ExportService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService, exportService *services.ExportService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		exportService: exportService,
	}
}

// StartUpload godoc
// @Summary Start an upload session
// @Description Create an export session holding workbook settings and per-table metadata
// @Tags Upload
// @Accept json
// @Produce json
// @Param session body models.SessionRequest true "Workbook settings"
// @Success 200 {string} string "upload id"
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/start [post]
func (h *UploadHandler) StartUpload(c *fiber.Ctx) error {
	var req models.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	id, err := h.uploadService.Start(&req)
	if err != nil {
		utils.LogError("❌ Failed to start upload", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start upload",
		})
	}

	return c.JSON(id.String())
}

// AddTable godoc
// @Summary Upload a table
// @Description Add one table (rows, columns, alias, margins, colors) to an upload session
// @Tags Upload
// @Accept json
// @Produce json
// @Param upload_id path string true "Upload session ID"
// @Param table body models.TableUpload true "Table body"
// @Success 200 {string} string "upload id"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/{upload_id} [post]
func (h *UploadHandler) AddTable(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("upload_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid upload_id format",
		})
	}

	// the body is stored as sent, so copy it out of fiber's reusable buffer
	body := append([]byte(nil), c.Body()...)
	if _, err := h.uploadService.AddTable(id, body); err != nil {
		return h.fail(c, id, err)
	}

	return c.JSON(id.String())
}

// GetExport godoc
// @Summary Render and publish an upload session
// @Description Build the workbook, store it and return a short-lived signed link. A session can be exported once.
// @Tags Upload
// @Produce json
// @Param upload_id path string true "Upload session ID"
// @Param format query string false "excel or pdf"
// @Success 200 {object} services.ExportResult
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /upload/{upload_id} [get]
func (h *UploadHandler) GetExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("upload_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid upload_id format",
		})
	}

	var format export.ExportFormat
	if q := c.Query("format"); q != "" {
		if format, err = export.ParseFormat(q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	result, err := h.exportService.Export(c.UserContext(), id, format)
	if err != nil {
		return h.fail(c, id, err)
	}

	c.Set("X-Cells-Skipped", strconv.Itoa(result.CellsSkipped))
	return c.JSON(result)
}

func (h *UploadHandler) fail(c *fiber.Ctx, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, repositories.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "upload session not found",
		})
	case services.IsInputError(err):
		utils.LogWarn("⚠️ Rejected upload", map[string]interface{}{
			"upload_id": id.String(),
			"reason":    err.Error(),
		})
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		utils.LogError("❌ Upload request failed", err, map[string]interface{}{
			"upload_id": id.String(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
		})
	}
}
