package service

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

var extensionMediaTypes = map[string]string{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".txt":  MediaTypeText,
	".text": MediaTypeText,
	".log":  MediaTypeText,
}

func IsSupportedMediaType(mediaType string) bool {
	switch mediaType {
	case MediaTypePDF, MediaTypeDOCX, MediaTypeText:
		return true
	}
	return false
}

// DeclaredMediaType resolves the media type from the file name first and the
// MIME type reported by the sender second. It returns "" when neither names a
// supported type.
func DeclaredMediaType(fileName, declared string) string {
	if mediaType, ok := extensionMediaTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mediaType
	}

	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && IsSupportedMediaType(mediaType) {
			return mediaType
		}
	}

	return ""
}

// ReceiptMediaType resolves the type of a downloaded receipt. Unknown files
// are sniffed by content and anything still unrecognized is read as text.
func ReceiptMediaType(fileName, declared, path string) string {
	if mediaType := DeclaredMediaType(fileName, declared); mediaType != "" {
		return mediaType
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return MediaTypeText
	}
	for _, mediaType := range []string{MediaTypePDF, MediaTypeDOCX} {
		if detected.Is(mediaType) {
			return mediaType
		}
	}
	return MediaTypeText
}
