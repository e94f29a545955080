package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-storefront/utils"
)

// maxUploadBytes caps product image uploads at 8 MiB.
const maxUploadBytes = 8 << 20

// UploadController stores product images on disk and hands back the URL they
// will be served from.
type UploadController struct {
	Dir     string
	BaseURL string
	Logger  *zap.Logger
}

// NewUploadController creates a new UploadController. dir is created if
// missing.
func NewUploadController(dir, baseURL string, logger *zap.Logger) (*UploadController, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadController{Dir: dir, BaseURL: baseURL, Logger: logger}, nil
}

// Upload accepts a multipart form with a "product" image field and stores it
// under a unique filename.
func (uc *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("product")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("product_%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(uc.Dir, filename))
	if err != nil {
		uc.Logger.Error("upload: create file failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		uc.Logger.Error("upload: write file failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"success":   1,
		"image_url": fmt.Sprintf("%s/Images/%s", uc.BaseURL, filename),
	})
}
