package upload

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"

	"sns/internal/apperror"
	"sns/internal/config"
)

// Uploaded files land in the temp folder first and are relocated when the
// resource they belong to is actually created.

func TempDir() string {
	return filepath.Join(config.App.UploadDir, "temp")
}

func PostImageDir() string {
	return filepath.Join(config.App.UploadDir, "posts")
}

func EnsureDirs() error {
	for _, dir := range []string{TempDir(), PostImageDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// AllowedExt reports whether ext (with leading dot) is an accepted image type.
func AllowedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// NewFileName builds a collision-free name keeping the original extension.
func NewFileName(ext string) string {
	return uuid.Must(uuid.NewV4()).String() + strings.ToLower(ext)
}

// PromotePostImage moves a temp upload into the post image folder. The base
// name is validated so a crafted path cannot escape the temp folder.
func PromotePostImage(fileName string) error {
	if fileName != filepath.Base(fileName) {
		return apperror.Newf(apperror.InvalidInput, "invalid image file name %q", fileName)
	}

	src := filepath.Join(TempDir(), fileName)
	if _, err := os.Stat(src); err != nil {
		return apperror.Newf(apperror.InvalidInput, "uploaded file %q does not exist", fileName)
	}

	return os.Rename(src, filepath.Join(PostImageDir(), fileName))
}
