package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Options selects and configures a provider
type Options struct {
	Provider string // "s3", "local" or "cloudinary"

	// S3
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	Bucket             string
	S3Endpoint         string

	// Local
	LocalPath     string
	PublicBaseURL string
	SigningSecret string

	// Cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// NewProvider builds the provider named by opts.Provider
func NewProvider(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(opts.Provider) {
	case "s3":
		return NewS3Provider(ctx, opts.AWSAccessKeyID, opts.AWSSecretAccessKey, opts.AWSRegion, opts.Bucket, opts.S3Endpoint)
	case "cloudinary":
		return NewCloudinaryProvider(opts.CloudinaryCloudName, opts.CloudinaryAPIKey, opts.CloudinaryAPISecret, opts.CloudinaryFolder)
	case "local", "":
		return NewLocalProvider(opts.LocalPath, opts.PublicBaseURL, opts.SigningSecret)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", opts.Provider)
	}
}

// Service stores exports and hands out expiring links with provider switching
type Service struct {
	provider     Provider
	providerName string
	ttl          time.Duration
}

// NewService creates a new storage service whose links live for ttl
func NewService(provider Provider, ttl time.Duration) *Service {
	return &Service{
		provider:     provider,
		providerName: provider.GetProviderName(),
		ttl:          ttl,
	}
}

// Publish stores data under key and returns a signed link to it
func (s *Service) Publish(ctx context.Context, key string, data []byte, contentType string) (*PutResult, string, error) {
	if s.provider == nil {
		return nil, "", fmt.Errorf("storage provider not configured")
	}

	result, err := s.provider.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, "", err
	}
	url, err := s.provider.SignURL(ctx, result.Key, s.ttl)
	if err != nil {
		return result, "", err
	}
	return result, url, nil
}

// Delete deletes an object by key
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.provider == nil {
		return fmt.Errorf("storage provider not configured")
	}
	return s.provider.Delete(ctx, key)
}

// TTL returns how long published links stay valid
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Provider returns the configured provider
func (s *Service) Provider() Provider {
	return s.provider
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.providerName
}
