package services

import (
	"context"
	"errors"
	"time"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"
)

const cleanupBatch = 100

// CleanupReport counts what one cleanup pass removed
type CleanupReport struct {
	Sessions int64 `json:"sessions"`
	Exports  int   `json:"exports"`
	Failed   int   `json:"failed"`
}

// CleanupService removes sessions that were never exported and documents
// past their retention
type CleanupService struct {
	repo       repositories.UploadRepo
	storage    *storage.Service
	sessionTTL time.Duration
	now        func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(repo repositories.UploadRepo, store *storage.Service, sessionTTL time.Duration) *CleanupService {
	return &CleanupService{
		repo:       repo,
		storage:    store,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Run performs one cleanup pass
func (s *CleanupService) Run(ctx context.Context) (*CleanupReport, error) {
	report := &CleanupReport{}
	now := s.now()

	deleted, err := s.repo.DeleteStale(now.Add(-s.sessionTTL))
	if err != nil {
		return report, err
	}
	report.Sessions = deleted

	records, err := s.repo.FindExpiredExports(now, cleanupBatch)
	if err != nil {
		return report, err
	}
	for _, r := range records {
		if err := s.storage.Delete(ctx, r.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			report.Failed++
			utils.LogError("❌ Failed to delete export", err, map[string]interface{}{"key": r.Key})
			continue
		}
		if err := s.repo.DeleteExport(r.ID); err != nil {
			report.Failed++
			utils.LogError("❌ Failed to forget export", err, map[string]interface{}{"key": r.Key})
			continue
		}
		report.Exports++
	}

	if report.Sessions > 0 || report.Exports > 0 || report.Failed > 0 {
		utils.LogInfo("🧹 Cleanup finished", map[string]interface{}{
			"sessions": report.Sessions,
			"exports":  report.Exports,
			"failed":   report.Failed,
		})
	}
	return report, nil
}

// Job adapts Run to a scheduler callback
func (s *CleanupService) Job() func() {
	return func() {
		if _, err := s.Run(context.Background()); err != nil {
			utils.LogError("❌ Cleanup failed", err, nil)
		}
	}
}
