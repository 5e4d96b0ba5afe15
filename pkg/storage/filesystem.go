package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists files on disk under a base directory that the API
// serves statically under urlPrefix.
type LocalStorage struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, urlPrefix string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Save copies r into a file named name and returns its public path.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	file, err := os.OpenFile(s.resolve(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(s.resolve(name))
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return s.urlPrefix + "/" + name, nil
}

// Open returns a read-only handle for a stored reference.
func (s *LocalStorage) Open(ref string) (*os.File, error) {
	name, ok := s.nameOf(ref)
	if !ok {
		return nil, fmt.Errorf("open upload file: %q is not a local upload", ref)
	}
	file, err := os.Open(s.resolve(name))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present. References that do not belong to
// this storage (external URLs) are ignored.
func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	name, ok := s.nameOf(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(s.resolve(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Owns reports whether ref is a path under the uploads prefix.
func (s *LocalStorage) Owns(ref string) bool {
	_, ok := s.nameOf(ref)
	return ok
}

// Dir exposes the directory served under the uploads prefix.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// URLPrefix is the public path prefix of stored files.
func (s *LocalStorage) URLPrefix() string {
	return s.urlPrefix
}

func (s *LocalStorage) nameOf(ref string) (string, bool) {
	name, found := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !found || name == "" || strings.Contains(name, "/") || strings.Contains(name, `\`) || name == ".." {
		return "", false
	}
	return name, true
}

func (s *LocalStorage) resolve(name string) string {
	return filepath.Join(s.baseDir, name)
}
