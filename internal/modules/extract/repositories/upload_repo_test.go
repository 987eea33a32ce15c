package repositories

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite://"+filepath.Join(t.TempDir(), "extract.db"), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.GORM.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db.GORM
}

func newSession(t *testing.T, repo UploadRepo) *models.UploadSession {
	t.Helper()
	session := &models.UploadSession{
		Title:       "Dashboard",
		Mode:        "many",
		Orientation: "vertical",
		HasStyling:  true,
		Metadata:    datatypes.JSON(`{"t0":{}}`),
	}
	if err := repo.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == uuid.Nil {
		t.Fatal("Expected BeforeCreate to assign an id")
	}
	return session
}

func TestConsumeSession(t *testing.T) {
	repo := NewUploadRepo(newTestDB(t))
	session := newSession(t, repo)

	for _, ordinal := range []int{2, 0, 1} {
		err := repo.AddTable(&models.UploadTable{
			SessionID: session.ID,
			Ordinal:   ordinal,
			Payload:   datatypes.JSON(`{"v":1}`),
		})
		if err != nil {
			t.Fatalf("AddTable(%d) failed: %v", ordinal, err)
		}
	}
	// re-uploading an ordinal replaces its payload
	if err := repo.AddTable(&models.UploadTable{SessionID: session.ID, Ordinal: 1, Payload: datatypes.JSON(`{"v":2}`)}); err != nil {
		t.Fatalf("AddTable replace failed: %v", err)
	}

	got, tables, err := repo.ConsumeSession(session.ID)
	if err != nil {
		t.Fatalf("ConsumeSession failed: %v", err)
	}
	if got.Title != "Dashboard" || len(tables) != 3 {
		t.Fatalf("Unexpected session %+v with %d tables", got, len(tables))
	}
	for i, table := range tables {
		if table.Ordinal != i {
			t.Errorf("Expected ordinal %d at position %d, got %d", i, i, table.Ordinal)
		}
	}
	if string(tables[1].Payload) != `{"v":2}` {
		t.Errorf("Expected replaced payload, got %s", tables[1].Payload)
	}

	if _, _, err := repo.ConsumeSession(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected second read to fail with ErrSessionNotFound, got %v", err)
	}
}

func TestAddTableUnknownSession(t *testing.T) {
	repo := NewUploadRepo(newTestDB(t))
	err := repo.AddTable(&models.UploadTable{SessionID: uuid.New(), Payload: datatypes.JSON(`{}`)})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteStale(t *testing.T) {
	db := newTestDB(t)
	repo := NewUploadRepo(db)
	old := newSession(t, repo)
	fresh := newSession(t, repo)
	if err := repo.AddTable(&models.UploadTable{SessionID: old.ID, Payload: datatypes.JSON(`{}`)}); err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	if err := db.Model(&models.UploadSession{}).Where("id = ?", old.ID).Update("created_at", past).Error; err != nil {
		t.Fatalf("Failed to age session: %v", err)
	}

	deleted, err := repo.DeleteStale(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteStale failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 stale session, got %d", deleted)
	}

	var tables int64
	db.Model(&models.UploadTable{}).Count(&tables)
	if tables != 0 {
		t.Errorf("Expected stale tables to be removed, %d left", tables)
	}
	if _, _, err := repo.ConsumeSession(fresh.ID); err != nil {
		t.Errorf("Expected fresh session to survive, got %v", err)
	}
}

func TestExpiredExports(t *testing.T) {
	repo := NewUploadRepo(newTestDB(t))
	now := time.Now()

	expired := &models.ExportRecord{SessionID: uuid.New(), Key: "a/x.xlsx", Format: "excel", Provider: "Local Storage", ExpiresAt: now.Add(-time.Minute)}
	live := &models.ExportRecord{SessionID: uuid.New(), Key: "b/x.xlsx", Format: "excel", Provider: "Local Storage", ExpiresAt: now.Add(time.Hour)}
	for _, r := range []*models.ExportRecord{expired, live} {
		if err := repo.CreateExport(r); err != nil {
			t.Fatalf("CreateExport failed: %v", err)
		}
	}

	records, err := repo.FindExpiredExports(now, 10)
	if err != nil {
		t.Fatalf("FindExpiredExports failed: %v", err)
	}
	if len(records) != 1 || records[0].Key != "a/x.xlsx" {
		t.Fatalf("Expected only the expired export, got %+v", records)
	}

	if err := repo.DeleteExport(records[0].ID); err != nil {
		t.Fatalf("DeleteExport failed: %v", err)
	}
	if records, _ := repo.FindExpiredExports(now, 10); len(records) != 0 {
		t.Errorf("Expected no expired exports left, got %d", len(records))
	}
}
