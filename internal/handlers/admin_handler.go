package handlers

import (
	"crypto/subtle"
	"errors"

	"filevault/internal/config"
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

// AdminHandler handles authentication and the privileged management
// routes behind it.
type AdminHandler struct {
	lifecycle *services.LifecycleService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(lifecycle *services.LifecycleService) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle}
}

// Login checks the configured credential pair and issues a short-lived
// bearer token for the management routes.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var input requests.AdminLoginRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}
	if err := validator.ValidateStruct(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}

	username := pkgConfig.GetEnv("ADMIN_USERNAME")
	password := pkgConfig.GetEnv("ADMIN_PASSWORD")

	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(password)) == 1
	if !userOK || !passOK {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	token, err := utils.GenerateAdminToken(
		input.Username,
		pkgConfig.GetEnv("ADMIN_JWT_SECRET"),
		config.GetConfig().Admin.TokenTTL(),
	)
	if err != nil {
		logger.L.Error("failed to issue admin token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server error during login",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// ListFiles returns a newest-first page of all records, live and
// expired alike.
func (h *AdminHandler) ListFiles(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("limit", 10)

	files, pagination, err := h.lifecycle.List(page, pageSize)
	if err != nil {
		logger.L.Error("failed to list files", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch files",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"files":   files,
		"pagination": fiber.Map{
			"totalFiles":  pagination.TotalFiles,
			"currentPage": pagination.CurrentPage,
			"totalPages":  pagination.TotalPages,
			"pageSize":    pagination.PageSize,
		},
	})
}

// DeleteFile removes one record and its blob.
func (h *AdminHandler) DeleteFile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid file ID",
		})
	}

	if err := h.lifecycle.Delete(id); err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
			})
		}
		logger.L.Error("failed to delete file", zap.String("id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "File deleted successfully",
	})
}

// BulkDelete removes a batch of records; invalid or unknown ids are
// skipped rather than failing the whole batch.
func (h *AdminHandler) BulkDelete(c *fiber.Ctx) error {
	var input requests.BulkDeleteRequest
	if err := c.BodyParser(&input); err != nil || len(input.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "File IDs are required",
		})
	}

	processed := h.lifecycle.BulkDelete(input.IDs)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Files deleted successfully",
		"deleted": processed,
	})
}

// Stats returns the record count and cumulative stored size.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.lifecycle.GetStats()
	if err != nil {
		logger.L.Error("failed to compute stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"totalFiles":    stats.TotalFiles,
			"totalSizeInMB": stats.TotalSizeInMB,
		},
	})
}
