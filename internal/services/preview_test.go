package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want PreviewKind
	}{
		{"jpg", PreviewImage},
		{"png", PreviewImage},
		{"svg", PreviewImage},
		{"pdf", PreviewPDF},
		{"docx", PreviewDocument},
		{"pptx", PreviewDocument},
		{"xlsx", PreviewSpreadsheet},
		{"csv", PreviewSpreadsheet},
		{"md", PreviewText},
		{"json", PreviewText},
		{"mp3", PreviewAudio},
		{"flac", PreviewAudio},
		{"mp4", PreviewVideo},
		{"mkv", PreviewVideo},
		{"zip", PreviewArchive},
		{"gz", PreviewArchive},
		{"exe", PreviewUnsupported},
		{"", PreviewUnsupported},
		{"unknown-ext", PreviewUnsupported},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, KindForExtension(tc.ext), "ext %q", tc.ext)
	}
}

func TestKindForExtensionIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, PreviewImage, KindForExtension("JPG"))
	assert.Equal(t, PreviewPDF, KindForExtension("Pdf"))
}
