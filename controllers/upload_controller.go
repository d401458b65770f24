package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialnet/config"
	"socialnet/utils"
)

// UploadURLPrefix is the public mount point for stored images; the router
// serves the configured upload directory here, so returned URLs stay valid
// when UPLOAD_DIR is overridden.
const UploadURLPrefix = "/static/uploads"

var (
	errNoFile       = errors.New("no file uploaded")
	errFileTooLarge = errors.New("file size exceeds limit")
	errBadImageType = errors.New("unsupported image type")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadController stores post images and returns their public URLs. The
// blob store is the local static tree; the rest of the system only ever sees
// the returned reference.
type UploadController struct{}

// NewUploadController creates a new UploadController instance.
func NewUploadController() *UploadController {
	return &UploadController{}
}

// UploadImage handles multipart image uploads for posts.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		file, err = ctx.FormFile("file")
		if err != nil {
			respondUploadError(ctx, errNoFile)
			return
		}
	}

	url, err := saveImage(file, userID)
	if err != nil {
		respondUploadError(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "success", gin.H{"url": url})
}

// saveImage writes an uploaded image into a date-partitioned directory under
// the configured upload root and returns its public URL.
func saveImage(header *multipart.FileHeader, userID uint) (string, error) {
	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxSizeMB) * 1024 * 1024

	if header.Size > 0 && header.Size > maxSize {
		return "", errFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", errBadImageType
	}

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	day := now.Format("02")
	baseDir := filepath.Join(cfg.UploadDir, year, month, day)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	safeName := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), ext)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	// The declared size is client-controlled; enforce the cap on actual bytes.
	lr := &io.LimitedReader{R: src, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}
	if written > maxSize {
		_ = os.Remove(dstPath)
		return "", errFileTooLarge
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s", UploadURLPrefix, year, month, day, safeName), nil
}

func respondUploadError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, errNoFile):
		utils.Error(ctx, http.StatusBadRequest, 40040, "no file uploaded")
	case errors.Is(err, errFileTooLarge):
		cfg := config.Get()
		utils.Error(ctx, http.StatusBadRequest, 40041, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxSizeMB))
	case errors.Is(err, errBadImageType):
		utils.Error(ctx, http.StatusBadRequest, 40042, "unsupported image type")
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorw("image upload failed", "error", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to store image")
	}
}
