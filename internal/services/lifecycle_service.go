package services

import (
	"errors"
	"strings"
	"time"

	"filevault/internal/logger"
	"filevault/internal/models"
	"filevault/internal/utils"

	"github.com/google/uuid"
	pkgConfig "github.com/kerimovok/go-pkg-utils/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service-level outcomes mapped to HTTP statuses by the handlers.
var (
	// ErrFileNotFound covers both unknown ids and expired records on
	// read paths, so an expired link is indistinguishable from one
	// that never existed.
	ErrFileNotFound = errors.New("file not found")
	// ErrFileExpired is surfaced only on the password-gated download
	// path.
	ErrFileExpired = errors.New("file expired")
	// ErrInvalidPassword is a normal rejected-request outcome.
	ErrInvalidPassword = errors.New("invalid password")
)

// LifecycleService orchestrates the life of a file record: create,
// read, view/download accounting and deletion.
type LifecycleService struct {
	db    *gorm.DB
	files *FileService
	ttl   time.Duration
}

// NewLifecycleService creates a lifecycle service with the given
// retention window for new records.
func NewLifecycleService(db *gorm.DB, files *FileService, ttl time.Duration) *LifecycleService {
	return &LifecycleService{
		db:    db,
		files: files,
		ttl:   ttl,
	}
}

// CreateInput carries everything needed to persist a new file record.
// The blob itself is already stored by the caller.
type CreateInput struct {
	OriginalName string
	StoredName   string
	FilePath     string
	FileType     string
	FileSize     int64
	Password     string
}

// Create hashes the password and writes a new record expiring one
// retention window after creation.
func (s *LifecycleService) Create(input CreateInput) (*models.File, error) {
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)

	file := &models.File{
		OriginalName: input.OriginalName,
		StoredName:   input.StoredName,
		FilePath:     input.FilePath,
		FileType:     input.FileType,
		FileSize:     input.FileSize,
		Extension:    utils.GetFileExtension(input.OriginalName),
		PasswordHash: hash,
		ExpiresAt:    &expiresAt,
		CreatedAt:    now,
	}

	if err := s.db.Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// Metadata is the read-only projection served to preview clients.
// It never carries the password hash.
type Metadata struct {
	OriginalName string      `json:"originalName"`
	FileType     string      `json:"fileType"`
	FileSize     int64       `json:"fileSize"`
	CreatedAt    time.Time   `json:"createdAt"`
	ExpiresAt    *time.Time  `json:"expiresAt"`
	Ext          string      `json:"ext"`
	URL          string      `json:"url"`
	Views        int64       `json:"views"`
	Downloads    int64       `json:"downloads"`
	PreviewKind  PreviewKind `json:"previewKind"`
	PreviewLink  string      `json:"previewLink"`
	DownloadLink string      `json:"downloadLink"`
}

// GetMetadata returns the preview projection for a record. Expired
// records answer ErrFileNotFound, exactly like unknown ids.
func (s *LifecycleService) GetMetadata(id uuid.UUID) (*Metadata, error) {
	file, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if file.IsExpired(time.Now()) {
		return nil, ErrFileNotFound
	}

	return &Metadata{
		OriginalName: file.OriginalName,
		FileType:     file.FileType,
		FileSize:     file.FileSize,
		CreatedAt:    file.CreatedAt,
		ExpiresAt:    file.ExpiresAt,
		Ext:          file.Extension,
		URL:          s.resolveURL(file),
		Views:        file.Views,
		Downloads:    file.Downloads,
		PreviewKind:  KindForExtension(file.Extension),
		PreviewLink:  "/preview/" + file.ID.String(),
		DownloadLink: "/download/" + file.ID.String(),
	}, nil
}

// RecordView counts one preview view and returns the new total. Each
// call counts: the operation is deliberately not idempotent. The
// increment is a single statement so concurrent bursts never lose
// updates.
func (s *LifecycleService) RecordView(id uuid.UUID) (int64, error) {
	res := s.db.Model(&models.File{}).
		Where("id = ? AND (expires_at IS NULL OR expires_at > ?)", id, time.Now()).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrFileNotFound
	}

	var file models.File
	if err := s.db.Select("views").First(&file, "id = ?", id).Error; err != nil {
		return 0, err
	}
	return file.Views, nil
}

// VerifyDownload checks expiry and password for a download and counts
// it. The caller streams the blob from the returned record.
func (s *LifecycleService) VerifyDownload(id uuid.UUID, password string) (*models.File, error) {
	file, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if file.IsExpired(time.Now()) {
		return nil, ErrFileExpired
	}
	if !utils.CheckPassword(password, file.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	if err := s.db.Model(&models.File{}).
		Where("id = ?", file.ID).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1)).Error; err != nil {
		return nil, err
	}
	file.Downloads++

	return file, nil
}

// Delete removes the blob and then the record. A blob that cannot be
// removed is logged and does not block the record deletion.
func (s *LifecycleService) Delete(id uuid.UUID) error {
	file, err := s.load(id)
	if err != nil {
		return err
	}

	if err := s.files.DeleteFile(file.StoredName); err != nil {
		logger.L.Warn("failed to delete blob",
			zap.String("storedName", file.StoredName),
			zap.Error(err))
	}

	return s.db.Delete(&models.File{}, "id = ?", file.ID).Error
}

// BulkDelete deletes a set of records best-effort and returns how many
// were processed. A failing id never aborts the rest of the batch.
func (s *LifecycleService) BulkDelete(ids []string) int {
	processed := 0
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.L.Warn("bulk delete: invalid id", zap.String("id", raw))
			continue
		}
		if err := s.Delete(id); err != nil {
			logger.L.Warn("bulk delete: failed to delete file",
				zap.String("id", raw),
				zap.Error(err))
			continue
		}
		processed++
	}
	return processed
}

// Pagination describes one page of an admin listing.
type Pagination struct {
	TotalFiles  int64 `json:"totalFiles"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
}

// List returns one page of records sorted by creation time, newest
// first. Filtering is a client-side concern over the returned page.
func (s *LifecycleService) List(page, pageSize int) ([]models.File, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := s.db.Model(&models.File{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var files []models.File
	offset := (page - 1) * pageSize
	if err := s.db.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&files).Error; err != nil {
		return nil, nil, err
	}

	pagination := &Pagination{
		TotalFiles:  total,
		CurrentPage: page,
		TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		PageSize:    pageSize,
	}
	return files, pagination, nil
}

// Stats aggregates totals across all records, not just one page.
type Stats struct {
	TotalFiles    int64   `json:"totalFiles"`
	TotalSizeInMB float64 `json:"totalSizeInMB"`
}

// GetStats returns the record count and total stored size.
func (s *LifecycleService) GetStats() (*Stats, error) {
	var total int64
	if err := s.db.Model(&models.File{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var totalSize int64
	if err := s.db.Model(&models.File{}).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&totalSize).Error; err != nil {
		return nil, err
	}

	return &Stats{
		TotalFiles:    total,
		TotalSizeInMB: float64(totalSize) / (1024 * 1024),
	}, nil
}

// load fetches a record by id, translating gorm's not-found error.
func (s *LifecycleService) load(id uuid.UUID) (*models.File, error) {
	var file models.File
	if err := s.db.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// resolveURL prefers the blob's own external URL; records stored on
// local disk resolve through the public /files route.
func (s *LifecycleService) resolveURL(file *models.File) string {
	if strings.HasPrefix(file.FilePath, "http") {
		return file.FilePath
	}
	return s.files.PublicURL(pkgConfig.GetEnv("BACKEND_URL"), file.StoredName)
}

// IsRemote reports whether the record's bytes live behind an external
// URL rather than on local disk.
func IsRemote(file *models.File) bool {
	return strings.HasPrefix(file.FilePath, "http")
}
