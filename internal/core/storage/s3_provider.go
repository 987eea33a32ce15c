package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Provider implements export storage on AWS S3 or an S3-compatible endpoint
type S3Provider struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucketName string
	region     string
}

// NewS3Provider creates a new AWS S3 provider. A non-empty endpoint switches
// to path-style addressing for S3-compatible servers.
func NewS3Provider(ctx context.Context, accessKeyID, secretAccessKey, region, bucketName, endpoint string) (*S3Provider, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	// Load AWS config, falling back to the default credential chain
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Provider{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucketName: bucketName,
		region:     region,
	}, nil
}

// Put uploads an object. Objects stay private; readers go through SignURL.
func (p *S3Provider) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = detectContentType(key)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &PutResult{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Delete deletes an object from S3
func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// SignURL presigns a GET request for key
func (p *S3Provider) SignURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := p.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign S3 URL: %w", err)
	}
	return req.URL, nil
}

// GetProviderName returns the provider name
func (p *S3Provider) GetProviderName() string {
	return "AWS S3"
}
