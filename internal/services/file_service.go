package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"filevault/internal/config"
	"filevault/internal/logger"
	"filevault/internal/utils"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/kerimovok/go-pkg-utils/errors"
	"go.uber.org/zap"
)

// remoteClient fetches blobs that live behind an external URL. Blob
// transfers can be large, so the timeout is deliberately generous.
var remoteClient = &http.Client{
	Timeout: 5 * time.Minute,
}

// FileService is the local blob store: it validates uploads and owns
// the raw bytes on disk, addressed by stored name.
type FileService struct {
	config config.StorageConfig
}

// NewFileService creates a new file service instance
func NewFileService(cfg config.StorageConfig) *FileService {
	return &FileService{
		config: cfg,
	}
}

// ValidateFile validates the uploaded file
func (s *FileService) ValidateFile(file *multipart.FileHeader) error {
	// Check file size
	if s.config.Validation.MaxFileSize > 0 && file.Size > s.config.Validation.MaxFileSize {
		return errors.BadRequestError("FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum allowed size of %s", humanize.Bytes(uint64(s.config.Validation.MaxFileSize))))
	}

	// Check if extension is blocked
	ext := utils.GetFileExtensionFromHeader(file)
	for _, blocked := range s.config.Validation.BlockedExtensions {
		if ext == blocked {
			return errors.BadRequestError("BLOCKED_FILE_TYPE", fmt.Sprintf("File type .%s is not allowed", ext))
		}
	}

	return nil
}

// GenerateStoredName returns a unique blob name, preserving the
// original extension so static serving picks a sensible content type.
func (s *FileService) GenerateStoredName(originalName string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.InternalError("UUID_GENERATION_ERROR", "Failed to generate UUID")
	}
	return id.String() + filepath.Ext(originalName), nil
}

// FullPath resolves a stored name to its path on disk.
func (s *FileService) FullPath(storedName string) string {
	return filepath.Join(s.config.Storage.UploadDir, storedName)
}

// PublicURL resolves the externally reachable URL for a stored blob.
func (s *FileService) PublicURL(backendURL, storedName string) string {
	return fmt.Sprintf("%s/files/%s", backendURL, url.PathEscape(storedName))
}

// SaveFile saves the uploaded file to storage and returns its path.
func (s *FileService) SaveFile(file *multipart.FileHeader, storedName string) (string, error) {
	filePath := s.FullPath(storedName)

	// Create directory if it doesn't exist
	if s.config.Storage.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return "", errors.InternalError("DIR_CREATION_ERROR", fmt.Sprintf("Failed to create directory: %v", err))
		}
	}

	// Create destination file
	dst, err := os.Create(filePath)
	if err != nil {
		return "", errors.InternalError("FILE_CREATION_ERROR", fmt.Sprintf("Failed to create destination file: %v", err))
	}
	defer dst.Close()

	// Open source file
	src, err := file.Open()
	if err != nil {
		return "", errors.InternalError("FILE_OPEN_ERROR", fmt.Sprintf("Failed to open source file: %v", err))
	}
	defer src.Close()

	// Copy file content
	if _, err = io.Copy(dst, src); err != nil {
		return "", errors.InternalError("FILE_COPY_ERROR", fmt.Sprintf("Failed to copy file content: %v", err))
	}

	return filePath, nil
}

// DeleteFile removes a blob from disk. A blob that is already absent is
// logged as a warning, not treated as a failure.
func (s *FileService) DeleteFile(storedName string) error {
	if err := os.Remove(s.FullPath(storedName)); err != nil {
		if os.IsNotExist(err) {
			logger.L.Warn("blob already absent", zap.String("storedName", storedName))
			return nil
		}
		return err
	}
	return nil
}

// DetectContentType determines the MIME type of an upload: the client
// header when it is specific, a content sniff otherwise.
func (s *FileService) DetectContentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	src, err := file.Open()
	if err == nil {
		defer src.Close()
		if mt, err := mimetype.DetectReader(src); err == nil {
			return mt.String()
		}
	}

	return "application/octet-stream"
}

// FetchRemote opens a stream for a blob stored behind an external URL.
// The caller owns the returned body.
func (s *FileService) FetchRemote(rawURL string) (io.ReadCloser, error) {
	resp, err := remoteClient.Get(rawURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("remote fetch failed: %s", resp.Status)
	}
	return resp.Body, nil
}
