package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/homeservice/internal/config"
	"github.com/spec-kit/homeservice/internal/media"
	"github.com/spec-kit/homeservice/pkg/util"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var allowedUploadFolders = map[string]struct{}{
	"avatar":   {},
	"logo":     {},
	"cover":    {},
	"service":  {},
	"category": {},
}

// UploadsHandler accepts image uploads and forwards them to the media store.
type UploadsHandler struct {
	uploader media.Uploader
	cfg      config.MediaConfig
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(uploader media.Uploader, cfg config.MediaConfig) *UploadsHandler {
	return &UploadsHandler{uploader: uploader, cfg: cfg}
}

// Upload handles POST /uploads/:folder with a multipart "image" field.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	folder := c.Params("folder")
	if _, ok := allowedUploadFolders[folder]; !ok {
		return util.NewValidationError("unknown upload folder", map[string]any{"folder": folder})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "image file is required")
	}
	if fileHeader.Size > int64(h.cfg.MaxUploadBytes) {
		return util.NewValidationError("image exceeds the size limit", map[string]any{
			"max_bytes": h.cfg.MaxUploadBytes,
		})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return util.NewValidationError("unsupported image type", map[string]any{"extension": ext})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return util.NewInternalError(err)
	}
	defer file.Close()

	url, publicID, err := h.uploader.Upload(c.Context(), file, folder)
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"url":       url,
			"public_id": publicID,
		},
	})
}

// Delete handles DELETE /uploads with a public_id query param.
func (h *UploadsHandler) Delete(c *fiber.Ctx) error {
	publicID := c.Query("public_id")
	if publicID == "" {
		return util.NewValidationError("public_id is required", nil)
	}
	if err := h.uploader.Delete(c.Context(), publicID); err != nil {
		return util.NewInternalError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
