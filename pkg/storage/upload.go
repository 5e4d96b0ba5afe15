package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrFileType         = errors.New("file type not allowed")
	ErrFileTypeMismatch = errors.New("file content does not match its extension")
)

var attachmentTypes = map[string][]string{
	".jpg":  {"image/jpeg", "image/jpg", "image/pjpeg"},
	".jpeg": {"image/jpeg", "image/jpg", "image/pjpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
	".zip":  {"application/zip", "application/x-zip-compressed"},
	".rar":  {"application/vnd.rar", "application/x-rar-compressed", "application/x-rar"},
}

var imageTypes = []string{".jpg", ".jpeg", ".png", ".gif"}

// Policy describes which uploads are accepted for one use.
type Policy struct {
	MaxBytes int64
	allowed  map[string][]string
}

// AttachmentPolicy accepts question and answer attachments.
func AttachmentPolicy(maxBytes int64) Policy {
	return Policy{MaxBytes: maxBytes, allowed: attachmentTypes}
}

// AvatarPolicy accepts profile pictures.
func AvatarPolicy(maxBytes int64) Policy {
	allowed := make(map[string][]string, len(imageTypes))
	for _, ext := range imageTypes {
		allowed[ext] = attachmentTypes[ext]
	}
	return Policy{MaxBytes: maxBytes, allowed: allowed}
}

// Extensions lists accepted extensions without the dot, for messages.
func (p Policy) Extensions() []string {
	exts := make([]string, 0, len(p.allowed))
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".pdf", ".doc", ".docx", ".txt", ".zip", ".rar"} {
		if _, ok := p.allowed[ext]; ok {
			exts = append(exts, strings.TrimPrefix(ext, "."))
		}
	}
	return exts
}

// Check validates name, declared content type and size, then sniffs the
// first bytes of content. It returns the content type to store the file with.
func (p Policy) Check(filename, declared string, size int64, content io.Reader) (string, error) {
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, p.MaxBytes)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed, ok := p.allowed[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrFileType, ext)
	}

	if declared != "" {
		mediaType, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrFileTypeMismatch, declared)
		}
		if mediaType != "application/octet-stream" && !slices.Contains(allowed, mediaType) {
			return "", fmt.Errorf("%w: declared %s for %s", ErrFileTypeMismatch, mediaType, ext)
		}
	}

	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, candidate := range allowed {
			if m.Is(candidate) {
				return allowed[0], nil
			}
		}
	}
	return "", fmt.Errorf("%w: detected %s for %s", ErrFileTypeMismatch, detected.String(), ext)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// UniqueName derives a collision resistant storage name from the client's
// file name: <base>-<unix millis>-<random>.<ext>.
func UniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "file"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return fmt.Sprintf("%s-%d-%d%s", base, time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}
