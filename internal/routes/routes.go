package routes

import (
	"time"

	"filevault/internal/config"
	"filevault/internal/handlers"
	"filevault/internal/middleware"
	"filevault/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	cfg := config.GetConfig()

	fileService := services.NewFileService(cfg.Storage)
	lifecycle := services.NewLifecycleService(db, fileService, cfg.Storage.Retention.TTL())

	fileHandler := handlers.NewFileHandler(fileService, lifecycle)
	adminHandler := handlers.NewAdminHandler(lifecycle)

	// Monitor route
	app.Get("/metrics", monitor.New())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   "filevault",
			"timestamp": time.Now().UTC(),
		})
	})

	// Locally stored blobs, served with range support for media previews.
	app.Static("/files", cfg.Storage.Storage.UploadDir, fiber.Static{
		ByteRange: true,
	})

	// API routes group
	api := app.Group("/api")

	// File routes
	api.Post("/upload", fileHandler.UploadFile)
	api.Post("/upload/metadata", fileHandler.SaveMetadata)
	api.Get("/file/:id", fileHandler.GetFile)
	api.Post("/file/:id/view", fileHandler.RecordView)
	api.Post("/download/:id", fileHandler.DownloadFile)

	// Admin routes; everything past login requires a bearer token.
	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Get("/files", middleware.AdminAuth(), adminHandler.ListFiles)
	admin.Get("/stats", middleware.AdminAuth(), adminHandler.Stats)
	admin.Post("/files/bulk-delete", middleware.AdminAuth(), adminHandler.BulkDelete)
	admin.Delete("/files/:id", middleware.AdminAuth(), adminHandler.DeleteFile)
}
