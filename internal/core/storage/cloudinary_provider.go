package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryProvider implements export storage on Cloudinary as raw assets
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	folder    string
}

// NewCloudinaryProvider creates a new Cloudinary provider
func NewCloudinaryProvider(cloudName, apiKey, apiSecret, folder string) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cloudName,
		folder:    folder,
	}, nil
}

// Put uploads data as a raw asset whose public ID is the key
func (p *CloudinaryProvider) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = detectContentType(key)
	}

	overwrite := true
	result, err := p.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     p.publicID(key),
		ResourceType: "raw",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("Cloudinary upload failed: %s", result.Error.Message)
	}

	return &PutResult{
		Key:         key,
		Size:        int64(result.Bytes),
		ContentType: contentType,
	}, nil
}

// Delete deletes a raw asset from Cloudinary
func (p *CloudinaryProvider) Delete(ctx context.Context, key string) error {
	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     p.publicID(key),
		ResourceType: "raw",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}

	switch result.Result {
	case "ok":
		return nil
	case "not found":
		return ErrNotFound
	default:
		return fmt.Errorf("Cloudinary delete failed: %s", result.Result)
	}
}

// SignURL returns a signed delivery URL. Cloudinary signatures do not
// expire, so ttl is only honoured by the session cleanup deleting the asset.
func (p *CloudinaryProvider) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	asset, err := p.cld.File(p.publicID(key))
	if err != nil {
		return "", fmt.Errorf("failed to build Cloudinary asset: %w", err)
	}
	asset.Config.URL.SignURL = true
	asset.Config.URL.Secure = true

	url, err := asset.String()
	if err != nil {
		return "", fmt.Errorf("failed to sign Cloudinary URL: %w", err)
	}
	return url, nil
}

// GetProviderName returns the provider name
func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}

func (p *CloudinaryProvider) publicID(key string) string {
	if p.folder == "" {
		return key
	}
	return p.folder + "/" + key
}
