package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"regcheck-bot/internal/repository"

	"go.uber.org/zap"
)

const digestChunkSize = 4096

// DedupService rejects receipts whose exact bytes were already submitted.
type DedupService struct {
	markers *repository.MarkerRepository
	logger  *zap.Logger
}

func NewDedupService(markers *repository.MarkerRepository, logger *zap.Logger) *DedupService {
	return &DedupService{
		markers: markers,
		logger:  logger,
	}
}

// IsNew reports whether the file content is seen for the first time and
// records it. The marker stays even if the caller later fails.
func (s *DedupService) IsNew(path string) (bool, error) {
	digest, err := Digest(path)
	if err != nil {
		return false, err
	}

	created, err := s.markers.Create(digest)
	if err != nil {
		return false, err
	}

	if !created {
		s.logger.Info("Duplicate file content", zap.String("file", path), zap.String("digest", digest))
	}
	return created, nil
}

// Digest returns the hex SHA-256 of the file, read in fixed-size chunks.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	buf := make([]byte, digestChunkSize)
	if _, err := io.CopyBuffer(hash, file, buf); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
