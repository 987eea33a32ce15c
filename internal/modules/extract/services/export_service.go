package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"
)

// ExportResult is what GET /upload/{upload_id} answers
type ExportResult struct {
	URL          string              `json:"url"`
	Key          string              `json:"key"`
	Format       export.ExportFormat `json:"format"`
	CellsSkipped int                 `json:"cells_skipped"`
	Tables       int                 `json:"tables"`
}

// ExportService renders a finished session and publishes the document
type ExportService struct {
	repo      repositories.UploadRepo
	builder   *WorkbookBuilder
	exporter  *export.Service
	storage   *storage.Service
	format    export.ExportFormat
	retention time.Duration
	now       func() time.Time
}

// NewExportService creates a new export service. Published documents are
// deleted by the cleanup job once retention has passed.
func NewExportService(repo repositories.UploadRepo, builder *WorkbookBuilder, exporter *export.Service, store *storage.Service, format export.ExportFormat, retention time.Duration) *ExportService {
	return &ExportService{
		repo:      repo,
		builder:   builder,
		exporter:  exporter,
		storage:   store,
		format:    format,
		retention: retention,
		now:       time.Now,
	}
}

// Export consumes the session, renders it, stores the document under
// <id>/<title><ext> and returns a signed link. An empty format uses the
// configured default.
func (s *ExportService) Export(ctx context.Context, id uuid.UUID, format export.ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = s.format
	}

	session, rows, err := s.repo.ConsumeSession(id)
	if err != nil {
		return nil, err
	}

	req, err := sessionRequest(session)
	if err != nil {
		return nil, err
	}
	payloads := make([][]byte, len(rows))
	for i, r := range rows {
		payloads[i] = r.Payload
	}
	tables, err := DecodeTables(payloads)
	if err != nil {
		return nil, err
	}

	wb, err := s.builder.Build(req, tables)
	if err != nil {
		return nil, err
	}

	result, err := s.exporter.Export(wb, format)
	if err != nil {
		if result != nil && result.Outcome != nil {
			utils.LogWarn("⚠️ Render failed", map[string]interface{}{
				"upload_id":     id.String(),
				"cells_skipped": result.Outcome.CellsSkipped,
			})
		}
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", id, fileName(wb.Title), result.Extension)
	put, url, err := s.storage.Publish(ctx, key, result.Data, result.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to publish export: %w", err)
	}

	record := &models.ExportRecord{
		SessionID:    id,
		Key:          put.Key,
		Format:       string(format),
		Provider:     s.storage.GetProviderName(),
		Size:         put.Size,
		CellsSkipped: result.Outcome.CellsSkipped,
		ExpiresAt:    s.now().Add(s.retention),
	}
	if err := s.repo.CreateExport(record); err != nil {
		// the link is valid, only retention tracking is lost
		utils.LogError("❌ Failed to record export", err, map[string]interface{}{"key": put.Key})
	}

	utils.LogInfo("✅ Export published", map[string]interface{}{
		"upload_id":     id.String(),
		"key":           put.Key,
		"format":        string(format),
		"tables":        len(wb.Tables),
		"cells_written": result.Outcome.CellsWritten,
		"cells_skipped": result.Outcome.CellsSkipped,
	})

	return &ExportResult{
		URL:          url,
		Key:          put.Key,
		Format:       format,
		CellsSkipped: result.Outcome.CellsSkipped,
		Tables:       len(wb.Tables),
	}, nil
}

// IsInputError reports whether err was caused by the uploaded content rather
// than by the server
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidMetadata) ||
		errors.Is(err, pivot.ErrInvalidColor) ||
		errors.Is(err, pivot.ErrFieldIndex) ||
		errors.Is(err, pivot.ErrUnknownCategory) ||
		errors.Is(err, pivot.ErrSkippedCells)
}

// fileName makes a title safe to use as the last element of a storage key
func fileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '#', '%', '*', ':', '|', '"', '<', '>':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" || name == "." || name == ".." {
		return models.DefaultTitle
	}
	return name
}
