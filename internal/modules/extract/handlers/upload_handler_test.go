package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm/logger"

	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/pivot"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/models"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/repositories"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/modules/extract/services"
	"github.com/MuhamadAgungGumelar/crosstab-export-be/internal/shared/database"
)

const startBody = `{
	"title": "Sales",
	"mode": "single",
	"metadata": {
		"sales": {
			"with_headers_row": true,
			"with_headers_col": true,
			"rows": [{"index": 0}],
			"columns": [{"index": 1}],
			"measures": [{"index": 2}]
		}
	}
}`

const salesTable = `{
	"upload_id": 0,
	"name": "sales",
	"alias": "Sales by region",
	"margin_col": 1,
	"margin_row": 2,
	"_columns": [{"_fieldName": "Region"}, {"_fieldName": "Category"}, {"_fieldName": "SUM(Sales)"}],
	"_data": [
		[{"_value": "East", "_formattedValue": "East"}, {"_value": "Tech", "_formattedValue": "Tech"}, {"_value": 10, "_formattedValue": "10"}]
	]
}`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Open("sqlite://"+filepath.Join(t.TempDir(), "extract.db"), logger.Silent)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.GORM.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	local, err := storage.NewLocalProvider(t.TempDir(), "http://localhost", "test-secret")
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	store := storage.NewService(local, time.Minute)

	repo := repositories.NewUploadRepo(db.GORM)
	builder := services.NewWorkbookBuilder(nil, "")
	exporter := export.NewService(pivot.NewEngine(zerolog.Nop()))

	app := fiber.New()
	RegisterRoutes(app,
		NewUploadHandler(services.NewUploadService(repo), services.NewExportService(repo, builder, exporter, store, export.FormatExcel, time.Hour)),
		NewHealthHandler(db.DB, store),
	)
	app.Get(storage.FilesRoute+"*", storage.NewHandler(local).ServeFile)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	return doWithType(t, app, method, target, body, fiber.MIMEApplicationJSON)
}

func doWithType(t *testing.T, app *fiber.App, method, target, body, contentType string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	return resp, data
}

func startSession(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	resp, data := do(t, app, "POST", "/upload/start", body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from start, got %d: %s", resp.StatusCode, data)
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		t.Fatalf("Expected a JSON string id, got %s", data)
	}
	return id
}

func TestUploadAndExport(t *testing.T) {
	app := newTestApp(t)
	id := startSession(t, app, startBody)

	resp, data := do(t, app, "POST", "/upload/"+id, salesTable)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from table upload, got %d: %s", resp.StatusCode, data)
	}

	resp, data = do(t, app, "GET", "/upload/"+id, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from export, got %d: %s", resp.StatusCode, data)
	}
	if got := resp.Header.Get("X-Cells-Skipped"); got != "0" {
		t.Errorf("Expected X-Cells-Skipped 0, got %q", got)
	}

	var result services.ExportResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to decode result: %v", err)
	}
	if result.Key != id+"/Sales.xlsx" || result.Format != export.FormatExcel || result.Tables != 1 {
		t.Errorf("Unexpected result %+v", result)
	}
	if !strings.HasPrefix(result.URL, "http://localhost/files/"+id+"/Sales.xlsx?") {
		t.Fatalf("Unexpected link %q", result.URL)
	}

	link, err := url.Parse(result.URL)
	if err != nil {
		t.Fatalf("Invalid link: %v", err)
	}
	resp, data = do(t, app, "GET", link.RequestURI(), "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200 from download, got %d: %s", resp.StatusCode, data)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Downloaded file is not a workbook: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Sales by region" {
		t.Errorf("Expected one sheet named after the alias, got %v", sheets)
	}
	if v, _ := f.GetCellValue("Sales by region", "C4"); v != "10" {
		t.Errorf("Expected measure at C4, got %q", v)
	}

	// sessions are consumed by the first export
	resp, _ = do(t, app, "GET", "/upload/"+id, "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 on second export, got %d", resp.StatusCode)
	}
}

func TestUploadAcceptsPlainTextBodies(t *testing.T) {
	app := newTestApp(t)

	for _, contentType := range []string{fiber.MIMETextPlainCharsetUTF8, ""} {
		resp, data := doWithType(t, app, "POST", "/upload/start", startBody, contentType)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("Expected 200 for content type %q, got %d: %s", contentType, resp.StatusCode, data)
		}
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			t.Fatalf("Expected a JSON string id, got %s", data)
		}

		resp, data = doWithType(t, app, "POST", "/upload/"+id, salesTable, contentType)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("Expected 200 from table upload with %q, got %d: %s", contentType, resp.StatusCode, data)
		}
		resp, data = do(t, app, "GET", "/upload/"+id, "")
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("Expected 200 from export, got %d: %s", resp.StatusCode, data)
		}
	}
}

func TestUploadErrors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, "GET", "/upload/not-a-uuid", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for malformed id, got %d", resp.StatusCode)
	}

	resp, _ = do(t, app, "POST", "/upload/start", "{")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", resp.StatusCode)
	}

	resp, _ = do(t, app, "POST", "/upload/00000000-0000-0000-0000-000000000001", salesTable)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", resp.StatusCode)
	}

	id := startSession(t, app, startBody)
	resp, _ = do(t, app, "GET", "/upload/"+id+"?format=csv", "")
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for unknown format, got %d", resp.StatusCode)
	}

	orphan := strings.Replace(salesTable, `"name": "sales"`, `"name": "orphan"`, 1)
	do(t, app, "POST", "/upload/"+id, orphan)
	resp, data := do(t, app, "GET", "/upload/"+id, "")
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for a table without metadata, got %d: %s", resp.StatusCode, data)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "GET", "/health", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["status"] != "ok" || body["provider"] != "Local Storage" {
		t.Errorf("Unexpected health body %v", body)
	}
}
