package models

import (
	"strconv"
	"time"
)

const (
	ActionDocumentUploaded = "загрузил документ"
	ActionReceipt          = "чек"
	ResultReceiptConfirmed = "Чек подтверждён"
)

// LogTimeLayout is the timestamp format of the first column of logs.csv.
const LogTimeLayout = "2006-01-02 15:04:05"

type LogEntry struct {
	Timestamp    time.Time
	UserID       int64
	Username     string
	Action       string
	DocumentName string
	Result       string
}

// Row renders the entry as the six CSV columns.
func (e LogEntry) Row() []string {
	return []string{
		e.Timestamp.Format(LogTimeLayout),
		strconv.FormatInt(e.UserID, 10),
		e.Username,
		e.Action,
		e.DocumentName,
		e.Result,
	}
}

type Stats struct {
	UniqueUsers int
	Documents   int
	Checks      int
	Payments    int
}
