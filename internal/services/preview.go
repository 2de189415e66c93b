package services

import "strings"

// PreviewKind classifies how a client should render a file preview.
// The mapping from extension to kind is total: anything unknown is
// PreviewUnsupported.
type PreviewKind string

const (
	PreviewImage       PreviewKind = "image"
	PreviewPDF         PreviewKind = "pdf"
	PreviewDocument    PreviewKind = "document"
	PreviewSpreadsheet PreviewKind = "spreadsheet"
	PreviewText        PreviewKind = "text"
	PreviewAudio       PreviewKind = "audio"
	PreviewVideo       PreviewKind = "video"
	PreviewArchive     PreviewKind = "archive"
	PreviewUnsupported PreviewKind = "unsupported"
)

var previewKinds = map[string]PreviewKind{
	"jpg":  PreviewImage,
	"jpeg": PreviewImage,
	"png":  PreviewImage,
	"gif":  PreviewImage,
	"webp": PreviewImage,
	"bmp":  PreviewImage,
	"svg":  PreviewImage,

	"pdf": PreviewPDF,

	"doc":  PreviewDocument,
	"docx": PreviewDocument,
	"ppt":  PreviewDocument,
	"pptx": PreviewDocument,
	"odt":  PreviewDocument,

	"xls":  PreviewSpreadsheet,
	"xlsx": PreviewSpreadsheet,
	"csv":  PreviewSpreadsheet,
	"ods":  PreviewSpreadsheet,

	"txt":  PreviewText,
	"md":   PreviewText,
	"log":  PreviewText,
	"json": PreviewText,
	"xml":  PreviewText,
	"yaml": PreviewText,
	"yml":  PreviewText,

	"mp3":  PreviewAudio,
	"wav":  PreviewAudio,
	"ogg":  PreviewAudio,
	"flac": PreviewAudio,
	"m4a":  PreviewAudio,

	"mp4":  PreviewVideo,
	"webm": PreviewVideo,
	"mov":  PreviewVideo,
	"avi":  PreviewVideo,
	"mkv":  PreviewVideo,

	"zip": PreviewArchive,
	"rar": PreviewArchive,
	"7z":  PreviewArchive,
	"tar": PreviewArchive,
	"gz":  PreviewArchive,
}

// KindForExtension maps a normalized file extension (no dot) to its
// preview kind.
func KindForExtension(ext string) PreviewKind {
	if kind, ok := previewKinds[strings.ToLower(ext)]; ok {
		return kind
	}
	return PreviewUnsupported
}
