package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/utils"
)

// UploadService collects the pieces of an export before it is rendered
type UploadService struct {
	repo repositories.UploadRepo
}

// NewUploadService creates a new upload service
func NewUploadService(repo repositories.UploadRepo) *UploadService {
	return &UploadService{repo: repo}
}

// Start opens a session from a POST /upload/start body and returns its id
func (s *UploadService) Start(req *models.SessionRequest) (uuid.UUID, error) {
	req.Normalize()

	metadata, err := json.Marshal(req.Metadata)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	session := &models.UploadSession{
		Title:          req.Title,
		DisclaimerName: req.DisclaimerName,
		Description:    *req.Description,
		Mode:           req.Mode,
		Orientation:    req.Orientation,
		HasStyling:     bool(*req.HasStyling),
		Theme:          req.Theme,
		Metadata:       datatypes.JSON(metadata),
	}
	if err := s.repo.CreateSession(session); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}

	utils.LogInfo("📥 Upload session started", map[string]interface{}{
		"upload_id": session.ID.String(),
		"title":     session.Title,
		"tables":    len(req.Metadata),
	})
	return session.ID, nil
}

// AddTable stores one raw table body under a session. The body is kept as
// sent and only decoded far enough to read its ordinal.
func (s *UploadService) AddTable(sessionID uuid.UUID, body []byte) (int, error) {
	var table models.TableUpload
	if err := json.Unmarshal(body, &table); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	err := s.repo.AddTable(&models.UploadTable{
		SessionID: sessionID,
		Ordinal:   int(table.UploadID),
		Payload:   datatypes.JSON(body),
	})
	if err != nil {
		return 0, err
	}

	utils.LogInfo("📦 Table uploaded", map[string]interface{}{
		"upload_id": sessionID.String(),
		"ordinal":   int(table.UploadID),
		"name":      table.Name,
		"rows":      len(table.Data),
	})
	return int(table.UploadID), nil
}

// sessionRequest rebuilds the start body of a stored session
func sessionRequest(session *models.UploadSession) (*models.SessionRequest, error) {
	req := &models.SessionRequest{
		Title:          session.Title,
		DisclaimerName: session.DisclaimerName,
		Description:    &session.Description,
		Mode:           session.Mode,
		Orientation:    session.Orientation,
		Theme:          session.Theme,
	}
	styling := models.FlexBool(session.HasStyling)
	req.HasStyling = &styling

	if err := json.Unmarshal(session.Metadata, &req.Metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return req, nil
}
