package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclaredMediaType(t *testing.T) {
	tests := []struct {
		fileName string
		declared string
		want     string
	}{
		{"registration.pdf", "", MediaTypePDF},
		{"REGISTRATION.PDF", "application/octet-stream", MediaTypePDF},
		{"reg.docx", "", MediaTypeDOCX},
		{"notes.txt", "", MediaTypeText},
		{"scan", "application/pdf", MediaTypePDF},
		{"scan", "text/plain; charset=utf-8", MediaTypeText},
		{"photo.jpg", "image/jpeg", ""},
		{"legacy.doc", "application/msword", ""},
		{"noext", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fileName+"|"+tt.declared, func(t *testing.T) {
			assert.Equal(t, tt.want, DeclaredMediaType(tt.fileName, tt.declared))
		})
	}
}

func TestReceiptMediaType(t *testing.T) {
	dir := t.TempDir()

	t.Run("declared wins", func(t *testing.T) {
		path := writeFile(t, dir, "r1", []byte("plain text"))
		assert.Equal(t, MediaTypePDF, ReceiptMediaType("check.pdf", "", path))
	})

	t.Run("sniffed pdf", func(t *testing.T) {
		path := writeFile(t, dir, "r2", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n"))
		assert.Equal(t, MediaTypePDF, ReceiptMediaType("check", "", path))
	})

	t.Run("unknown falls back to text", func(t *testing.T) {
		path := writeFile(t, dir, "r3", []byte("Сумма 500 получатель +992 111 88 1700"))
		assert.Equal(t, MediaTypeText, ReceiptMediaType("check.jpg", "image/jpeg", path))
	})

	t.Run("missing file falls back to text", func(t *testing.T) {
		assert.Equal(t, MediaTypeText, ReceiptMediaType("check", "", dir+"/nope"))
	})
}
