package httpapi

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"sns/internal/apperror"
	"sns/internal/upload"
)

// maxImageSize limits a single upload to 100 MB.
const maxImageSize = 100_000_000

type CommonController struct{}

func NewCommonController() *CommonController { return &CommonController{} }

// PostImage stores a multipart image in the temp folder and returns the
// generated file name. The file is relocated when a post references it.
func (ctl *CommonController) PostImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, apperror.New(apperror.InvalidInput, "image file is required"))
		return
	}

	if file.Size > maxImageSize {
		fail(c, apperror.New(apperror.InvalidInput, "image exceeds the size limit"))
		return
	}

	ext := filepath.Ext(file.Filename)
	if !upload.AllowedExt(ext) {
		fail(c, apperror.New(apperror.InvalidInput, "only jpg/jpeg/png files can be uploaded"))
		return
	}

	fileName := upload.NewFileName(ext)
	if err := c.SaveUploadedFile(file, filepath.Join(upload.TempDir(), fileName)); err != nil {
		fail(c, apperror.Wrap(apperror.Internal, "could not store uploaded file", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fileName": fileName})
}
