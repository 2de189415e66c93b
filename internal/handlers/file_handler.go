package handlers

import (
	"errors"
	"fmt"
	"os"

	"filevault/internal/logger"
	"filevault/internal/requests"
	"filevault/internal/services"
	"filevault/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	pkgConfig "github.com/kerimovok/go-pkg-utils/config"
	"github.com/kerimovok/go-pkg-utils/validator"
	"go.uber.org/zap"
)

// FileHandler handles the public file lifecycle routes: upload,
// preview metadata, view accounting and password-gated download.
type FileHandler struct {
	files     *services.FileService
	lifecycle *services.LifecycleService
}

// NewFileHandler creates a new file handler
func NewFileHandler(files *services.FileService, lifecycle *services.LifecycleService) *FileHandler {
	return &FileHandler{
		files:     files,
		lifecycle: lifecycle,
	}
}

// UploadFile handles multipart uploads: validate, store the blob, hash
// the password and write the record. If the record write fails the
// stored blob is removed again so no orphan metadata survives.
func (h *FileHandler) UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	password := c.FormValue("password")
	if err != nil || password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File and password are required",
		})
	}

	if err := h.files.ValidateFile(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	storedName, err := h.files.GenerateStoredName(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while uploading",
		})
	}

	filePath, err := h.files.SaveFile(file, storedName)
	if err != nil {
		logger.L.Error("failed to store blob", zap.String("filename", file.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while uploading",
		})
	}

	record, err := h.lifecycle.Create(services.CreateInput{
		OriginalName: file.Filename,
		StoredName:   storedName,
		FilePath:     filePath,
		FileType:     h.files.DetectContentType(file),
		FileSize:     file.Size,
		Password:     password,
	})
	if err != nil {
		// Compensate: the blob is stored but the record write failed.
		if delErr := h.files.DeleteFile(storedName); delErr != nil {
			logger.L.Warn("failed to remove orphaned blob", zap.String("storedName", storedName), zap.Error(delErr))
		}
		logger.L.Error("failed to save file record", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error while uploading",
		})
	}

	frontendURL := pkgConfig.GetEnv("FRONTEND_URL")
	return c.JSON(fiber.Map{
		"message":      "File uploaded successfully",
		"fileId":       record.ID,
		"previewLink":  fmt.Sprintf("%s/preview/%s", frontendURL, record.ID),
		"downloadLink": fmt.Sprintf("%s/download/%s", frontendURL, record.ID),
	})
}

// SaveMetadata registers a record for a file uploaded directly to an
// external store; only metadata reaches this service.
func (h *FileHandler) SaveMetadata(c *fiber.Ctx) error {
	var input requests.UploadMetadataRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file metadata or password.",
		})
	}
	if err := validator.ValidateStruct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing file metadata or password.",
		})
	}

	storedName, err := h.files.GenerateStoredName(input.OriginalName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error saving metadata.",
		})
	}

	record, err := h.lifecycle.Create(services.CreateInput{
		OriginalName: input.OriginalName,
		StoredName:   storedName,
		FilePath:     input.FilePath,
		FileType:     input.FileType,
		FileSize:     input.FileSize,
		Password:     input.Password,
	})
	if err != nil {
		logger.L.Error("failed to save metadata record", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server error saving metadata.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "File metadata saved successfully.",
		"fileId":  record.ID,
	})
}

// GetFile returns the preview metadata projection. Expired links are
// indistinguishable from unknown ones.
func (h *FileHandler) GetFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file ID"})
	}

	meta, err := h.lifecycle.GetMetadata(id)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
		}
		logger.L.Error("failed to load preview metadata", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error during preview"})
	}

	return c.JSON(meta)
}

// RecordView counts one preview view. Every call counts; the client is
// expected to call this once per page load.
func (h *FileHandler) RecordView(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file ID"})
	}

	views, err := h.lifecycle.RecordView(id)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
		}
		logger.L.Error("failed to count view", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count view"})
	}

	return c.JSON(fiber.Map{"success": true, "views": views})
}

// DownloadFile verifies the password, counts the download and streams
// the original bytes with the original filename.
func (h *FileHandler) DownloadFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file ID"})
	}

	var input requests.DownloadRequest
	if err := c.BodyParser(&input); err != nil || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password is required"})
	}

	file, err := h.lifecycle.VerifyDownload(id, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found or expired"})
		case errors.Is(err, services.ErrFileExpired):
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Link has expired"})
		case errors.Is(err, services.ErrInvalidPassword):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Incorrect password"})
		}
		logger.L.Error("download failed", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error during download"})
	}

	// Blob behind an external URL: proxy the stream through.
	if services.IsRemote(file) {
		body, err := h.files.FetchRemote(file.FilePath)
		if err != nil {
			logger.L.Error("remote blob fetch failed", zap.String("id", id.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server error during download"})
		}
		c.Set(fiber.HeaderContentType, file.FileType)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", utils.SanitizeFilename(file.OriginalName)))
		return c.SendStream(body)
	}

	// Local blob.
	if _, err := os.Stat(file.FilePath); os.IsNotExist(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Local file not found on server"})
	}
	return c.Download(file.FilePath, utils.SanitizeFilename(file.OriginalName))
}
