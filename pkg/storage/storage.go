package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/TinArambasic/ScholarSync/pkg/config"
)

// Service persists uploaded files and hands back the reference clients use to
// fetch them: a path under the uploads prefix or an absolute URL.
type Service interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
	// Owns reports whether ref points at a file kept by this backend.
	Owns(ref string) bool
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Service, error) {
	switch cfg.Driver {
	case "", config.StorageLocal:
		local, err := NewLocalStorage(cfg.UploadsDir, cfg.URLPrefix)
		if err != nil {
			return nil, err
		}
		return local, nil
	case config.StorageS3:
		remote, err := NewS3FromConfig(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
