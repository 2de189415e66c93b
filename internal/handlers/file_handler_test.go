package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"filevault/internal/config"
	"filevault/internal/middleware"
	"filevault/internal/models"
	"filevault/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	lifecycle *services.LifecycleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	t.Setenv("BACKEND_URL", "http://localhost:5000")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin-password-1")
	t.Setenv("ADMIN_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.File{}))

	storageCfg := config.StorageConfig{
		Validation: config.FileValidationConfig{
			MaxFileSize:       10 * 1024 * 1024,
			BlockedExtensions: []string{"exe"},
		},
		Storage: config.LocalStorageConfig{
			UploadDir:  t.TempDir(),
			CreateDirs: true,
		},
	}

	fileService := services.NewFileService(storageCfg)
	lifecycle := services.NewLifecycleService(db, fileService, 24*time.Hour)

	fileHandler := NewFileHandler(fileService, lifecycle)
	adminHandler := NewAdminHandler(lifecycle)

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/upload", fileHandler.UploadFile)
	api.Post("/upload/metadata", fileHandler.SaveMetadata)
	api.Get("/file/:id", fileHandler.GetFile)
	api.Post("/file/:id/view", fileHandler.RecordView)
	api.Post("/download/:id", fileHandler.DownloadFile)

	admin := api.Group("/admin")
	admin.Post("/login", adminHandler.Login)
	admin.Get("/files", middleware.AdminAuth(), adminHandler.ListFiles)
	admin.Get("/stats", middleware.AdminAuth(), adminHandler.Stats)
	admin.Post("/files/bulk-delete", middleware.AdminAuth(), adminHandler.BulkDelete)
	admin.Delete("/files/:id", middleware.AdminAuth(), adminHandler.DeleteFile)

	return &testEnv{app: app, db: db, lifecycle: lifecycle}
}

func multipartUpload(t *testing.T, filename, content, password string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if password != "" {
		require.NoError(t, writer.WriteField("password", password))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/upload", &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func jsonRequest(method, target string, payload any) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func uploadFile(t *testing.T, env *testEnv, filename, content, password string) string {
	t.Helper()
	resp, err := env.app.Test(multipartUpload(t, filename, content, password))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	id, ok := body["fileId"].(string)
	require.True(t, ok, "upload response missing fileId")
	return id
}

func TestUploadReturnsShareLinks(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "report.pdf", "pdf bytes", "secret123"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	id := body["fileId"].(string)
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, "http://localhost:3000/preview/"+id, body["previewLink"])
	assert.Equal(t, "http://localhost:3000/download/"+id, body["downloadLink"])
}

func TestUploadRequiresFileAndPassword(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "file.txt", "content", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodPost, "/api/upload", nil)
	resp, err = env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRejectsBlockedExtension(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(multipartUpload(t, "malware.exe", "MZ", "secret123"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadMetadataOnlyVariant(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(fiber.MethodPost, "/api/upload/metadata", map[string]any{
		"originalName": "remote.png",
		"fileType":     "image/png",
		"fileSize":     2048,
		"filePath":     "https://cdn.example.com/v1/remote.png",
		"password":     "secret123",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "File metadata saved successfully.", body["message"])

	// The external URL carries through to the metadata projection.
	metaResp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/file/"+body["fileId"].(string), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, metaResp.StatusCode)
	meta := decodeBody(t, metaResp)
	assert.Equal(t, "https://cdn.example.com/v1/remote.png", meta["url"])
}

func TestUploadMetadataRejectsIncompletePayload(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(fiber.MethodPost, "/api/upload/metadata", map[string]any{
		"originalName": "remote.png",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetFileMetadataProjection(t *testing.T) {
	env := newTestEnv(t)
	id := uploadFile(t, env, "photo.jpg", "jpeg bytes", "secret123")

	resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/file/"+id, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	meta := decodeBody(t, resp)
	assert.Equal(t, "photo.jpg", meta["originalName"])
	assert.Equal(t, float64(0), meta["views"])
	assert.Equal(t, float64(0), meta["downloads"])
	assert.Equal(t, "image", meta["previewKind"])
	assert.Equal(t, "/preview/"+id, meta["previewLink"])
	assert.NotContains(t, meta, "passwordHash")
}

func TestGetFileBadAndUnknownIDs(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/file/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/file/6a45b6a5-6f0e-4f4f-9c3e-111111111111", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecordViewAccumulates(t *testing.T) {
	env := newTestEnv(t)
	id := uploadFile(t, env, "clip.mp4", "video bytes", "secret123")

	for want := 1; want <= 3; want++ {
		resp, err := env.app.Test(httptest.NewRequest(fiber.MethodPost, "/api/file/"+id+"/view", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(want), body["views"])
	}
}

func TestDownloadFlow(t *testing.T) {
	env := newTestEnv(t)
	id := uploadFile(t, env, "secret-plans.txt", "the plans", "correct-horse")

	// Missing password.
	resp, err := env.app.Test(jsonRequest(fiber.MethodPost, "/api/download/"+id, map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Wrong password.
	resp, err = env.app.Test(jsonRequest(fiber.MethodPost, "/api/download/"+id, map[string]any{
		"password": "wrong-horse",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Right password streams the original bytes back.
	resp, err = env.app.Test(jsonRequest(fiber.MethodPost, "/api/download/"+id, map[string]any{
		"password": "correct-horse",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "secret-plans.txt")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "the plans", string(data))
}

func TestDownloadExpiredLinkIsGone(t *testing.T) {
	env := newTestEnv(t)
	id := uploadFile(t, env, "stale.txt", "old bytes", "secret123")

	past := time.Now().Add(-time.Minute)
	require.NoError(t, env.db.Model(&models.File{}).
		Where("id = ?", id).
		UpdateColumn("expires_at", past).Error)

	resp, err := env.app.Test(jsonRequest(fiber.MethodPost, "/api/download/"+id, map[string]any{
		"password": "secret123",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)

	// The same record is a plain 404 on the metadata read.
	resp, err = env.app.Test(httptest.NewRequest(fiber.MethodGet, "/api/file/"+id, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDownloadUnknownID(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(jsonRequest(fiber.MethodPost, "/api/download/6a45b6a5-6f0e-4f4f-9c3e-222222222222", map[string]any{
		"password": "secret123",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.True(t, strings.Contains(body["error"].(string), "not found"))
}
