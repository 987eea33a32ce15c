package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UploadSession is an export in progress: workbook settings plus the
// per-table metadata sent when the upload starts
type UploadSession struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string         `json:"title" gorm:"type:varchar(255);not null"`
	DisclaimerName string         `json:"disclaimer_name" gorm:"type:varchar(255)"`
	Description    string         `json:"description" gorm:"type:text"`
	Mode           string         `json:"mode" gorm:"type:varchar(20);not null;default:'many'"`
	Orientation    string         `json:"orientation" gorm:"type:varchar(20);not null;default:'vertical'"`
	HasStyling     bool           `json:"has_styling" gorm:"not null;default:true"`
	Theme          string         `json:"theme" gorm:"type:varchar(100)"`
	Metadata       datatypes.JSON `json:"metadata" gorm:"type:jsonb;not null"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for UploadSession
func (UploadSession) TableName() string {
	return "extract_sessions"
}

// BeforeCreate assigns a fresh UUID when none was set
func (s *UploadSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UploadTable is one table body uploaded into a session. Ordinal is the
// client-side table number and orders the tables of the workbook.
type UploadTable struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID      `json:"session_id" gorm:"type:uuid;not null;uniqueIndex:idx_extract_tables_session_ordinal"`
	Ordinal   int            `json:"ordinal" gorm:"not null;uniqueIndex:idx_extract_tables_session_ordinal"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for UploadTable
func (UploadTable) TableName() string {
	return "extract_tables"
}

// BeforeCreate assigns a fresh UUID when none was set
func (t *UploadTable) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ExportRecord tracks a published document until its retention expires
type ExportRecord struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID    uuid.UUID `json:"session_id" gorm:"type:uuid;not null;index"`
	Key          string    `json:"key" gorm:"type:text;not null"`
	Format       string    `json:"format" gorm:"type:varchar(20);not null"`
	Provider     string    `json:"provider" gorm:"type:varchar(50);not null"`
	Size         int64     `json:"size"`
	CellsSkipped int       `json:"cells_skipped" gorm:"default:0"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for ExportRecord
func (ExportRecord) TableName() string {
	return "extract_exports"
}

// BeforeCreate assigns a fresh UUID when none was set
func (e *ExportRecord) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AllModels lists the models migrated by AutoMigrate on SQLite
func AllModels() []interface{} {
	return []interface{}{&UploadSession{}, &UploadTable{}, &ExportRecord{}}
}
