package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/TinArambasic/ScholarSync/pkg/config"
)

// S3Storage keeps uploads in an S3 compatible bucket and returns absolute URLs.
type S3Storage struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewS3FromConfig loads AWS credentials the standard way and builds the client.
func NewS3FromConfig(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Storage(client, cfg), nil
}

// NewS3Storage wraps an existing client.
func NewS3Storage(client *s3.Client, cfg config.S3Config) *S3Storage {
	base := cfg.PublicBaseURL
	if base == "" {
		switch {
		case cfg.Endpoint != "":
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Storage{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		publicBaseURL: strings.TrimRight(base, "/"),
	}
}

// Save uploads r under the configured prefix.
func (s *S3Storage) Save(ctx context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	key := s.key(name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind ref. Foreign references are ignored.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	key, found := s.keyOf(ref)
	if !found {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Owns reports whether ref is an object URL under the public base URL.
func (s *S3Storage) Owns(ref string) bool {
	_, found := s.keyOf(ref)
	return found
}

func (s *S3Storage) keyOf(ref string) (string, bool) {
	key, found := strings.CutPrefix(ref, s.publicBaseURL+"/")
	return key, found && key != ""
}

func (s *S3Storage) key(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}
