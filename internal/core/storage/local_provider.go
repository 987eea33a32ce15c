package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignature is returned for tampered or expired file links
var ErrInvalidSignature = errors.New("invalid or expired signature")

// FilesRoute is where the local provider's signed links are served
const FilesRoute = "/files/"

// LocalProvider implements export storage on the local filesystem with
// HMAC-signed, expiring links
type LocalProvider struct {
	basePath string // Base directory for exports
	baseURL  string // Public base URL of this server
	secret   []byte
	now      func() time.Time
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL, secret string) (*LocalProvider, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required for local storage")
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalProvider{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		secret:   []byte(secret),
		now:      time.Now,
	}, nil
}

// Put writes data to basePath/key
func (p *LocalProvider) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	filePath, key, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = detectContentType(key)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &PutResult{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Delete deletes a file from the local filesystem
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	filePath, _, err := p.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SignURL returns baseURL/files/<key>?expires=<unix>&signature=<hmac>
func (p *LocalProvider) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	_, key, err := p.resolve(key)
	if err != nil {
		return "", err
	}
	expires := p.now().Add(ttl).Unix()

	escaped := make([]string, 0)
	for _, part := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(part))
	}

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", p.sign(key, expires))
	return p.baseURL + FilesRoute + strings.Join(escaped, "/") + "?" + q.Encode(), nil
}

// Open verifies a signed link and returns the file path it grants
func (p *LocalProvider) Open(key, expires, signature string) (string, error) {
	filePath, key, err := p.resolve(key)
	if err != nil {
		return "", err
	}
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return "", ErrInvalidSignature
	}
	if p.now().Unix() > exp {
		return "", ErrInvalidSignature
	}
	expected := p.sign(key, exp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", ErrInvalidSignature
	}
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return filePath, nil
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

func (p *LocalProvider) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(key + "\n" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *LocalProvider) resolve(key string) (string, string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(p.basePath, filepath.FromSlash(key)), key, nil
}
