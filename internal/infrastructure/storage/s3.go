// Package storage implements the image gateway on any S3-compatible object
// store (AWS S3 in production, MinIO in development).
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// Config captures the settings for the object storage gateway.
type Config struct {
	Endpoint      string // base endpoint; empty = AWS default resolution
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string // prefix public URLs are built from and parsed against
}

type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// New builds the S3 client. Path-style addressing is forced when a custom
// endpoint is set, which MinIO requires.
func New(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the content under a random date-scoped key and returns the
// key plus its public URL.
func (s *S3Storage) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (*ports.StoredObject, error) {
	key := randomKey(contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &ports.StoredObject{
		Key: key,
		URL: s.publicBaseURL + "/" + key,
	}, nil
}

// Delete removes the object behind a public URL previously returned by
// Upload. URLs outside the configured prefix are rejected.
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) keyFromURL(url string) (string, error) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", fmt.Errorf("%w: invalid image url", domain.ErrValidation)
	}
	return strings.TrimPrefix(url, prefix), nil
}

// randomKey builds demos/<year>/<month>/<day>/<uuid><ext>. The extension is
// cosmetic; content type travels in object metadata.
func randomKey(contentType string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	now := time.Now().UTC()
	return fmt.Sprintf("demos/%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}
