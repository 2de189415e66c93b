package utils

import (
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Common utilities used across filevault

// GetFileExtension extracts and normalizes the file extension
func GetFileExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strings.TrimPrefix(ext, ".")
}

// GetFileExtensionFromHeader extracts extension from multipart file header
func GetFileExtensionFromHeader(file *multipart.FileHeader) string {
	return GetFileExtension(file.Filename)
}

// SanitizeFilename strips path separators and control characters from a
// user-supplied filename so it is safe to echo back in headers.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == '"' {
			return '_'
		}
		return r
	}, name)
}
