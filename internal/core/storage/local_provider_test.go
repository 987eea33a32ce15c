package storage

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func newTestProvider(t *testing.T) (*LocalProvider, *time.Time) {
	t.Helper()
	p, err := NewLocalProvider(t.TempDir(), "http://localhost:8080/", "secret")
	if err != nil {
		t.Fatalf("NewLocalProvider failed: %v", err)
	}
	now := time.Unix(1700000000, 0)
	p.now = func() time.Time { return now }
	return p, &now
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
		wantErr  bool
	}{
		{"abc/Sales Report.xlsx", "abc/Sales Report.xlsx", false},
		{"abc\\report.xlsx", "abc/report.xlsx", false},
		{"a/./b/../c.pdf", "a/c.pdf", false},
		{"../etc/passwd", "", true},
		{"/abs/path", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.key)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKey) {
				t.Errorf("CleanKey(%q): expected ErrInvalidKey, got %v", tt.key, err)
			}
			continue
		}
		if err != nil || got != tt.expected {
			t.Errorf("CleanKey(%q) = %q, %v; expected %q", tt.key, got, err, tt.expected)
		}
	}
}

func TestLocalProviderPutDelete(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	result, err := p.Put(ctx, "u1/report.xlsx", []byte("data"), "")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if result.Size != 4 || !strings.Contains(result.ContentType, "spreadsheetml") {
		t.Errorf("Unexpected result %+v", result)
	}
	content, err := os.ReadFile(filepath.Join(p.basePath, "u1", "report.xlsx"))
	if err != nil || string(content) != "data" {
		t.Fatalf("Expected file on disk, got %q, %v", content, err)
	}

	if err := p.Delete(ctx, "u1/report.xlsx"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := p.Delete(ctx, "u1/report.xlsx"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := p.Put(ctx, "../escape.xlsx", nil, ""); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
}

func TestLocalProviderSignedLinks(t *testing.T) {
	p, now := newTestProvider(t)
	ctx := context.Background()
	if _, err := p.Put(ctx, "u1/Sales Report.xlsx", []byte("data"), ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	link, err := p.SignURL(ctx, "u1/Sales Report.xlsx", time.Minute)
	if err != nil {
		t.Fatalf("SignURL failed: %v", err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("Invalid link %q: %v", link, err)
	}
	if u.Host != "localhost:8080" || u.Path != "/files/u1/Sales Report.xlsx" {
		t.Errorf("Unexpected link %s", link)
	}
	expires, signature := u.Query().Get("expires"), u.Query().Get("signature")

	if _, err := p.Open("u1/Sales Report.xlsx", expires, signature); err != nil {
		t.Errorf("Expected valid link, got %v", err)
	}
	if _, err := p.Open("u1/Other.xlsx", expires, signature); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected signature mismatch for another key, got %v", err)
	}
	if _, err := p.Open("u1/Sales Report.xlsx", expires, signature+"0"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected tampered signature to fail, got %v", err)
	}

	*now = now.Add(2 * time.Minute)
	if _, err := p.Open("u1/Sales Report.xlsx", expires, signature); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("Expected expired link to fail, got %v", err)
	}
}

func TestHandlerServeFile(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()
	svc := NewService(p, time.Minute)

	_, link, err := svc.Publish(ctx, "u1/report.xlsx", []byte("xlsx-bytes"), "")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	u, _ := url.Parse(link)

	app := fiber.New()
	app.Get(FilesRoute+"*", NewHandler(p).ServeFile)

	resp, err := app.Test(httptest.NewRequest("GET", u.RequestURI(), nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "xlsx-bytes" {
		t.Errorf("Expected file contents, got %d %q", resp.StatusCode, body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/files/u1/report.xlsx?expires=1&signature=bad", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Expected 403, got %d", resp.StatusCode)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Options{Provider: "ftp"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	p, err := NewProvider(context.Background(), Options{LocalPath: t.TempDir(), SigningSecret: "s"})
	if err != nil || p.GetProviderName() != "Local Storage" {
		t.Errorf("Expected local provider by default, got %v, %v", p, err)
	}
}
