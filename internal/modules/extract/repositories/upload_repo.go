package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
)

// ErrSessionNotFound is returned for unknown or already exported sessions
var ErrSessionNotFound = errors.New("upload session not found")

// UploadRepo interface for upload session database operations
type UploadRepo interface {
	CreateSession(session *models.UploadSession) error
	AddTable(table *models.UploadTable) error
	ConsumeSession(id uuid.UUID) (*models.UploadSession, []models.UploadTable, error)
	DeleteStale(before time.Time) (int64, error)
	CreateExport(record *models.ExportRecord) error
	FindExpiredExports(now time.Time, limit int) ([]models.ExportRecord, error)
	DeleteExport(id uuid.UUID) error
}

type uploadRepo struct {
	db *gorm.DB
}

// NewUploadRepo creates a new upload repository
func NewUploadRepo(db *gorm.DB) UploadRepo {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) CreateSession(session *models.UploadSession) error {
	return r.db.Create(session).Error
}

// AddTable stores a table body; uploading the same ordinal twice replaces it
func (r *uploadRepo) AddTable(table *models.UploadTable) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UploadSession{}).Where("id = ?", table.SessionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrSessionNotFound
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "ordinal"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload"}),
		}).Create(table).Error
	})
}

// ConsumeSession loads a session with its tables ordered by ordinal and
// deletes them in the same transaction. A session can be exported once.
func (r *uploadRepo) ConsumeSession(id uuid.UUID) (*models.UploadSession, []models.UploadTable, error) {
	var session models.UploadSession
	var tables []models.UploadTable

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if err := tx.Where("session_id = ?", id).Order("ordinal ASC").Find(&tables).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.UploadTable{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.UploadSession{}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &session, tables, nil
}

// DeleteStale removes sessions created before the cutoff, with their tables
func (r *uploadRepo) DeleteStale(before time.Time) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.UploadSession{}).Select("id").Where("created_at < ?", before)
		if err := tx.Where("session_id IN (?)", stale).Delete(&models.UploadTable{}).Error; err != nil {
			return err
		}
		result := tx.Where("created_at < ?", before).Delete(&models.UploadSession{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

func (r *uploadRepo) CreateExport(record *models.ExportRecord) error {
	return r.db.Create(record).Error
}

func (r *uploadRepo) FindExpiredExports(now time.Time, limit int) ([]models.ExportRecord, error) {
	var records []models.ExportRecord
	query := r.db.Where("expires_at < ?", now).Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

func (r *uploadRepo) DeleteExport(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.ExportRecord{}).Error
}
