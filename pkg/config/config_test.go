package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Second, cfg.Database.OperationTimeout)
	assert.Equal(t, StorageLocal, cfg.Storage.Driver)
	assert.Equal(t, "/uploads", cfg.Storage.URLPrefix)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxAttachmentBytes)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxAvatarBytes)
	assert.Equal(t, 2*time.Minute, cfg.Storage.UploadTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, ,https://forum.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, StorageS3, cfg.Storage.Driver)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.S3.PublicBaseURL)
	assert.Equal(t, []string{"http://localhost:5173", "https://forum.example.com"}, cfg.CORS.AllowedOrigins)
}
