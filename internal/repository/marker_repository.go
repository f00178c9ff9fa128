package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MarkerRepository keeps one zero-byte file per seen content digest.
type MarkerRepository struct {
	dir    string
	logger *zap.Logger
}

func NewMarkerRepository(dir string, logger *zap.Logger) (*MarkerRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create markers directory %s: %w", dir, err)
	}

	return &MarkerRepository{
		dir:    dir,
		logger: logger,
	}, nil
}

// Create records the digest. It reports false when the marker already existed.
// O_EXCL makes check and create a single step, so two concurrent callers with
// the same digest cannot both get true.
func (r *MarkerRepository) Create(digest string) (bool, error) {
	f, err := os.OpenFile(r.path(digest), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create marker: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to close marker: %w", err)
	}

	r.logger.Debug("Marker created", zap.String("digest", digest))
	return true, nil
}

func (r *MarkerRepository) path(digest string) string {
	return filepath.Join(r.dir, filepath.Base(digest))
}
