package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"regcheck-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractorService_PlainText(t *testing.T) {
	svc := NewExtractorService(zap.NewNop())
	dir := t.TempDir()

	t.Run("utf8", func(t *testing.T) {
		path := writeFile(t, dir, "doc.txt", []byte("его постановки\nна учёт"))
		text, err := svc.Extract(context.Background(), path, MediaTypeText)
		require.NoError(t, err)
		assert.Equal(t, "его постановки\nна учёт", text)
	})

	t.Run("invalid bytes are dropped", func(t *testing.T) {
		path := writeFile(t, dir, "broken.txt", []byte("чек\xff\xfe 500"))
		text, err := svc.Extract(context.Background(), path, MediaTypeText)
		require.NoError(t, err)
		assert.Equal(t, "чек 500", text)
	})
}

// buildDocx assembles a minimal word-processing document, one paragraph per line.
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + body.String() + `</w:body></w:document>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractorService_DOCX(t *testing.T) {
	svc := NewExtractorService(zap.NewNop())
	path := writeFile(t, t.TempDir(), "registration.docx",
		buildDocx(t, "его постановки", "на учёт по месту пребывания"))

	text, err := svc.Extract(context.Background(), path, MediaTypeDOCX)
	require.NoError(t, err)

	assert.Equal(t, "его постановки\nна учёт по месту пребывания", strings.TrimSpace(text))
	assert.Equal(t, models.VerdictGenuine, ClassifyRegistration(text))
}

// testdata/registration.pdf has three pages: the notice text, an empty page
// and a closing line.
func TestExtractorService_PDF(t *testing.T) {
	svc := NewExtractorService(zap.NewNop())

	text, err := svc.Extract(context.Background(), filepath.Join("testdata", "registration.pdf"), MediaTypePDF)
	require.NoError(t, err)

	assert.Contains(t, text, "УВЕДОМЛЕНИЕ")
	assert.Equal(t, models.VerdictGenuine, ClassifyRegistration(text))

	first := strings.Index(text, "пребывания")
	last := strings.Index(text, "end of notice")
	require.True(t, first >= 0 && last > first, "pages out of order: %q", text)

	// the empty page contributes an empty string between two separators
	between := text[first+len("пребывания") : last]
	assert.Empty(t, strings.TrimSpace(between))
	assert.GreaterOrEqual(t, strings.Count(between, "\n"), 2)
}

func TestExtractorService_Errors(t *testing.T) {
	svc := NewExtractorService(zap.NewNop())
	dir := t.TempDir()
	garbage := writeFile(t, dir, "garbage.bin", []byte("this is not a container format"))

	t.Run("unsupported media type", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), garbage, "image/png")
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	})

	t.Run("corrupt docx", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), garbage, MediaTypeDOCX)
		var extErr *ExtractionError
		require.True(t, errors.As(err, &extErr))
		assert.Equal(t, MediaTypeDOCX, extErr.MediaType)
		assert.NotEmpty(t, extErr.Error())
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), garbage, MediaTypePDF)
		var extErr *ExtractionError
		assert.True(t, errors.As(err, &extErr))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), dir+"/missing.txt", MediaTypeText)
		var extErr *ExtractionError
		assert.True(t, errors.As(err, &extErr))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Extract(ctx, garbage, MediaTypeText)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
