package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"regcheck-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestActionLog(t *testing.T) *ActionLogRepository {
	t.Helper()
	return NewActionLogRepository(filepath.Join(t.TempDir(), "logs.csv"), zap.NewNop())
}

func TestActionLogRepository_Record(t *testing.T) {
	repo := newTestActionLog(t)
	ctx := context.Background()

	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	require.NoError(t, repo.Record(ctx, models.LogEntry{
		Timestamp:    ts,
		UserID:       1001,
		Username:     "ivan",
		Action:       models.ActionDocumentUploaded,
		DocumentName: "reg, scan.pdf",
		Result:       models.VerdictGenuine.Label(),
	}))
	require.NoError(t, repo.Record(ctx, models.LogEntry{
		Timestamp:    ts,
		UserID:       1001,
		Username:     "ivan",
		Action:       models.ActionReceipt,
		DocumentName: "check.pdf",
		Result:       models.ResultReceiptConfirmed,
	}))

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	want := "2024-03-09 14:05:07,1001,ivan,загрузил документ,\"reg, scan.pdf\",✅ регистрация оригинальная\r\n" +
		"2024-03-09 14:05:07,1001,ivan,чек,check.pdf,Чек подтверждён\r\n"
	assert.Equal(t, want, string(data))
}

func TestActionLogRepository_Aggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		repo := newTestActionLog(t)
		_, err := repo.Aggregate(ctx)
		assert.ErrorIs(t, err, ErrNoLog)
	})

	t.Run("counts markers and skips short rows", func(t *testing.T) {
		repo := newTestActionLog(t)
		content := strings.Join([]string{
			"2024-01-01 10:00:00,1,a,загрузил документ,x.pdf,✅ регистрация оригинальная",
			"2024-01-01 10:01:00,1,a,чек,c.pdf,Чек подтверждён",
			"2024-01-01 10:02:00,2,b,загрузил документ,y.pdf,❌ регистрация фальшивая",
			"2024-01-01 10:03:00,3,c,загрузил документ",
			"garbage",
			"2024-01-01 10:04:00,4,d,прочее,z.txt,Чек подтверждён",
		}, "\r\n") + "\r\n"
		require.NoError(t, os.WriteFile(repo.Path(), []byte(content), 0644))

		stats, err := repo.Aggregate(ctx)
		require.NoError(t, err)

		assert.Equal(t, models.Stats{UniqueUsers: 3, Documents: 2, Checks: 2, Payments: 2}, stats)
	})

	t.Run("payments match receipt action or confirmed result", func(t *testing.T) {
		repo := newTestActionLog(t)
		content := strings.Join([]string{
			"2024-01-01 10:00:00,1,a,чек,c1.pdf,Чек отклонён",
			"2024-01-01 10:01:00,2,b,оплата,c2.pdf,Чек подтверждён",
			"2024-01-01 10:02:00,3,c,чек,c3.pdf,Чек подтверждён",
			"2024-01-01 10:03:00,4,d,оплата,c4.pdf,отклонено",
		}, "\r\n") + "\r\n"
		require.NoError(t, os.WriteFile(repo.Path(), []byte(content), 0644))

		stats, err := repo.Aggregate(ctx)
		require.NoError(t, err)

		// a receipt row counts once even when both markers match
		assert.Equal(t, models.Stats{UniqueUsers: 4, Payments: 3}, stats)
	})

	t.Run("round trip through Record", func(t *testing.T) {
		repo := newTestActionLog(t)
		for i := int64(1); i <= 3; i++ {
			require.NoError(t, repo.Record(ctx, models.LogEntry{
				Timestamp:    time.Now(),
				UserID:       i % 2,
				Username:     fmt.Sprintf("user%d", i),
				Action:       models.ActionDocumentUploaded,
				DocumentName: "doc.txt",
				Result:       models.VerdictFake.Label(),
			}))
		}

		stats, err := repo.Aggregate(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.UniqueUsers)
		assert.Equal(t, 3, stats.Documents)
		assert.Equal(t, 3, stats.Checks)
		assert.Equal(t, 0, stats.Payments)
	})
}

func TestActionLogRepository_ConcurrentRecord(t *testing.T) {
	repo := newTestActionLog(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			assert.NoError(t, repo.Record(ctx, models.LogEntry{
				Timestamp: time.Now(),
				UserID:    id,
				Username:  "u",
				Action:    models.ActionReceipt,
				Result:    models.ResultReceiptConfirmed,
			}))
		}(int64(i))
	}
	wg.Wait()

	stats, err := repo.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers, stats.UniqueUsers)
	assert.Equal(t, writers, stats.Payments)
}
