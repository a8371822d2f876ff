package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sns/internal/apperror"
	"sns/internal/config"
)

func withUploadDir(t *testing.T, dir string) {
	t.Helper()
	prev := config.App.UploadDir
	config.App.UploadDir = dir
	t.Cleanup(func() { config.App.UploadDir = prev })
}

func TestAllowedExt(t *testing.T) {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".JPG", ".Png"} {
		assert.True(t, AllowedExt(ext), ext)
	}
	for _, ext := range []string{".gif", ".exe", ".jpg.exe", "", "jpg"} {
		assert.False(t, AllowedExt(ext), ext)
	}
}

func TestNewFileName(t *testing.T) {
	name := NewFileName(".PNG")
	assert.True(t, strings.HasSuffix(name, ".png"), name)
	assert.NotEqual(t, NewFileName(".png"), NewFileName(".png"))
}

func TestPromotePostImage(t *testing.T) {
	dir := t.TempDir()
	withUploadDir(t, dir)
	require.NoError(t, EnsureDirs())

	name := NewFileName(".jpg")
	require.NoError(t, os.WriteFile(filepath.Join(TempDir(), name), []byte("img"), 0o644))

	require.NoError(t, PromotePostImage(name))
	_, err := os.Stat(filepath.Join(PostImageDir(), name))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(TempDir(), name))
	assert.True(t, os.IsNotExist(err))
}

func TestPromotePostImageRejectsPaths(t *testing.T) {
	withUploadDir(t, t.TempDir())
	require.NoError(t, EnsureDirs())

	for _, name := range []string{"../escape.jpg", "a/b.jpg", "/etc/passwd"} {
		err := PromotePostImage(name)
		require.Error(t, err, name)
		assert.Equal(t, apperror.InvalidInput, apperror.KindOf(err))
	}

	// a clean name that was never uploaded
	err := PromotePostImage("missing.jpg")
	require.Error(t, err)
	assert.Equal(t, apperror.InvalidInput, apperror.KindOf(err))
}
