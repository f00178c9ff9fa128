package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"regcheck-bot/internal/models"

	"go.uber.org/zap"
)

// ErrNoLog is returned by Aggregate when nothing has been logged yet.
var ErrNoLog = errors.New("action log does not exist")

const logColumns = 6

// ActionLogRepository is the append-only CSV log of user actions.
type ActionLogRepository struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewActionLogRepository(path string, logger *zap.Logger) *ActionLogRepository {
	return &ActionLogRepository{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the log file.
func (r *ActionLogRepository) Path() string {
	return r.path
}

// Record appends one row. Rows are written with CRLF terminators and no header.
func (r *ActionLogRepository) Record(ctx context.Context, entry models.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open action log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = true
	if err := w.Write(entry.Row()); err != nil {
		return fmt.Errorf("failed to write action log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush action log: %w", err)
	}

	return nil
}

// Aggregate scans the whole log and computes the admin statistics.
// Rows with fewer than six fields are skipped.
func (r *ActionLogRepository) Aggregate(ctx context.Context) (models.Stats, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Stats{}, ErrNoLog
		}
		return models.Stats{}, fmt.Errorf("failed to open action log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var stats models.Stats
	users := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return models.Stats{}, err
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.logger.Warn("Skipping unreadable action log row", zap.Int("line", parseErr.Line), zap.Error(err))
				continue
			}
			return models.Stats{}, fmt.Errorf("failed to read action log: %w", err)
		}
		if len(row) < logColumns {
			continue
		}

		userID, action, result := row[1], row[3], row[5]
		users[userID] = struct{}{}
		if strings.Contains(action, "документ") {
			stats.Documents++
		}
		if strings.Contains(result, "регистрация") {
			stats.Checks++
		}
		if strings.Contains(action, models.ActionReceipt) || strings.Contains(result, models.ResultReceiptConfirmed) {
			stats.Payments++
		}
	}
	stats.UniqueUsers = len(users)

	return stats, nil
}
