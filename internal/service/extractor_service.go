package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ExtractionError wraps a parser failure. Its message is shown to the user as is.
type ExtractionError struct {
	MediaType string
	Err       error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type ExtractorService struct {
	logger *zap.Logger
}

func NewExtractorService(logger *zap.Logger) *ExtractorService {
	return &ExtractorService{
		logger: logger,
	}
}

// Extract returns the plain text of a PDF, DOCX or text file.
func (s *ExtractorService) Extract(ctx context.Context, path, mediaType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch mediaType {
	case MediaTypePDF:
		text, err = s.extractTextFromPDF(ctx, path)
	case MediaTypeDOCX:
		text, err = s.extractTextFromDOCX(path)
	case MediaTypeText:
		text, err = s.extractPlainText(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
	if err != nil {
		return "", &ExtractionError{MediaType: mediaType, Err: err}
	}

	s.logger.Info("Text extracted",
		zap.String("file", path),
		zap.String("media_type", mediaType),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}

// extractTextFromPDF joins page texts with newlines; a page without text
// contributes an empty line.
func (s *ExtractorService) extractTextFromPDF(ctx context.Context, pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, doc.NumPage())
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pageText, err := doc.Text(i)
		if err != nil {
			s.logger.Warn("Failed to extract text from page",
				zap.Int("page", i+1),
				zap.String("file", pdfPath),
				zap.Error(err),
			)
			continue
		}
		pages[i] = pageText
	}

	return strings.Join(pages, "\n"), nil
}

func (s *ExtractorService) extractTextFromDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	text, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return text, nil
}

// extractPlainText drops invalid UTF-8 sequences instead of failing.
func (s *ExtractorService) extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
