package bot

import (
	"context"
	"errors"

	"regcheck-bot/internal/models"
)

type EventKind string

const (
	EventCommand  EventKind = "command"
	EventCallback EventKind = "callback"
	EventDocument EventKind = "document"
)

// Event is one inbound message or button press, independent of the transport.
type Event struct {
	Kind     EventKind
	UserID   int64
	ChatID   int64
	Username string

	// Command is the command name without the leading slash.
	Command string

	// Callback fields. MessageID is the message carrying the pressed button.
	CallbackID string
	Data       string
	MessageID  int

	Document *Document
}

type Document struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

type Button struct {
	Text string
	Data string
}

// Keyboard is an inline keyboard, one slice per row.
type Keyboard [][]Button

// ErrFileTooLarge is returned by Messenger.Download when the file exceeds
// the size limit.
var ErrFileTooLarge = errors.New("file exceeds the size limit")

// Messenger sends replies and fetches uploaded files.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, keyboard Keyboard) error
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard Keyboard) error
	SendFile(ctx context.Context, chatID int64, path, name string) error
	AnswerCallback(ctx context.Context, callbackID string) error
	Download(ctx context.Context, fileID, dst string) error
}

type Extractor interface {
	Extract(ctx context.Context, path, mediaType string) (string, error)
}

type DedupGuard interface {
	IsNew(path string) (bool, error)
}

type ActionLog interface {
	Record(ctx context.Context, entry models.LogEntry) error
	Aggregate(ctx context.Context) (models.Stats, error)
	Path() string
}
