package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when a stored object does not exist
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// PutResult represents a stored object
type PutResult struct {
	Key         string `json:"key"`          // Provider-specific identifier
	Size        int64  `json:"size"`         // Object size in bytes
	ContentType string `json:"content_type"` // MIME type
}

// Provider defines the interface for export storage providers
type Provider interface {
	// Put stores data under key, replacing any previous object
	Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error)

	// Delete deletes an object by key
	Delete(ctx context.Context, key string) error

	// SignURL returns a URL granting read access to key for ttl
	SignURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// CleanKey normalises a key to forward slashes and rejects absolute or
// parent-relative paths.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// detectContentType detects the content type based on file extension
func detectContentType(key string) string {
	contentTypes := map[string]string{
		".pdf":  "application/pdf",
		".xls":  "application/vnd.ms-excel",
		".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		".json": "application/json",
	}

	if contentType, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
