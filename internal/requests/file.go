package requests

// UploadMetadataRequest registers a record for a file that was uploaded
// directly to an external store; only the metadata reaches this service.
type UploadMetadataRequest struct {
	OriginalName string `json:"originalName" validate:"required"`
	FileType     string `json:"fileType" validate:"required"`
	FileSize     int64  `json:"fileSize" validate:"required,min=1"`
	FilePath     string `json:"filePath" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// DownloadRequest carries the password for a gated download
type DownloadRequest struct {
	Password string `json:"password"`
}

// AdminLoginRequest carries the static admin credential pair
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// BulkDeleteRequest lists record ids for a best-effort batch delete
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}
