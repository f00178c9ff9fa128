package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"regcheck-bot/internal/metrics"
	"regcheck-bot/internal/models"
	"regcheck-bot/internal/service"
	"regcheck-bot/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	OwnerID     int64
	TermsPath   string
	WorkDir     string
	MaxFileSize int64
}

// Controller drives the conversation: rules, document intake, payment check.
type Controller struct {
	messenger     Messenger
	extractor     Extractor
	dedup         DedupGuard
	actions       ActionLog
	sessions      *service.SessionStore
	conversations *conversations
	messages      *Messages
	opts          Options
	now           func() time.Time
	logger        *zap.Logger
}

func NewController(
	messenger Messenger,
	extractor Extractor,
	dedup DedupGuard,
	actions ActionLog,
	sessions *service.SessionStore,
	messages *Messages,
	opts Options,
	logger *zap.Logger,
) *Controller {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if err := os.MkdirAll(opts.WorkDir, 0755); err != nil {
		logger.Warn("Failed to create work directory", zap.String("dir", opts.WorkDir), zap.Error(err))
	}

	return &Controller{
		messenger:     messenger,
		extractor:     extractor,
		dedup:         dedup,
		actions:       actions,
		sessions:      sessions,
		conversations: newConversations(),
		messages:      messages,
		opts:          opts,
		now:           time.Now,
		logger:        logger,
	}
}

// State returns the conversation state of the user, false if none is active.
func (c *Controller) State(userID int64) (models.State, bool) {
	return c.conversations.get(userID)
}

// Close releases the pending sessions and their stored documents.
func (c *Controller) Close() error {
	err := c.sessions.Close()
	metrics.PendingSessions.Set(0)
	return err
}

// Handle processes one event to completion. Unexpected failures are logged and
// reported to the user with a generic message.
func (c *Controller) Handle(ctx context.Context, ev Event) {
	start := time.Now()
	defer func() {
		metrics.UpdatesTotal.WithLabelValues(string(ev.Kind)).Inc()
		metrics.UpdateDuration.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	}()

	log := logger.ForUser(c.logger, ev.UserID, ev.Username)

	if ev.Kind == EventCallback {
		if err := c.messenger.AnswerCallback(ctx, ev.CallbackID); err != nil {
			log.Warn("Failed to answer callback", zap.Error(err))
		}
	}

	trigger := triggerOf(ev)
	var err error
	switch {
	case trigger == TriggerAdmin:
		err = c.admin(ctx, ev)
	case ev.Kind == EventCallback && strings.HasPrefix(ev.Data, adminCallbackPrefix):
		err = c.adminCallback(ctx, ev)
	default:
		err = c.step(ctx, ev, trigger, log)
	}

	if err != nil {
		log.Error("Failed to handle event",
			zap.String("kind", string(ev.Kind)),
			zap.String("trigger", string(trigger)),
			zap.Error(err),
		)
		if sendErr := c.messenger.SendText(ctx, ev.ChatID, c.messages.InternalError, nil); sendErr != nil {
			log.Warn("Failed to report error to user", zap.Error(sendErr))
		}
	}
}

func (c *Controller) step(ctx context.Context, ev Event, trigger Trigger, log *zap.Logger) error {
	current, active := c.conversations.get(ev.UserID)

	switch {
	case trigger == TriggerStart:
		if err := c.start(ctx, ev); err != nil {
			return err
		}
		c.conversations.set(ev.UserID, models.StateChoosing)
		return nil
	case !active:
		log.Debug("Event outside of conversation ignored", zap.String("trigger", string(trigger)))
		return nil
	case trigger == TriggerCancel:
		c.cancel(ctx, ev, log)
		c.conversations.end(ev.UserID)
		return nil
	}

	handler, ok := transitions[current][trigger]
	if !ok {
		log.Debug("No transition for event",
			zap.String("state", string(current)),
			zap.String("trigger", string(trigger)),
		)
		return nil
	}

	next, err := handler(c, ctx, ev)
	if next != current {
		log.Info("Conversation state changed",
			zap.String("from", string(current)),
			zap.String("to", string(next)),
		)
	}
	c.conversations.set(ev.UserID, next)
	return err
}

func (c *Controller) start(ctx context.Context, ev Event) error {
	keyboard := Keyboard{
		{{Text: c.messages.ButtonDownloadTerms, Data: string(TriggerDownloadTerms)}},
		{{Text: c.messages.ButtonAcceptRules, Data: string(TriggerAcceptRules)}},
	}
	return c.messenger.SendText(ctx, ev.ChatID, c.messages.Rules, keyboard)
}

// cancel discards the pending session, if any, together with its document.
func (c *Controller) cancel(ctx context.Context, ev Event, log *zap.Logger) {
	if session, ok := c.sessions.Take(ev.UserID); ok {
		c.removeFile(session.FilePath, log)
		metrics.PendingSessions.Dec()
	}
	if err := c.messenger.SendText(ctx, ev.ChatID, c.messages.Cancelled, nil); err != nil {
		log.Warn("Failed to send cancel confirmation", zap.Error(err))
	}
}

func (c *Controller) sendTerms(ctx context.Context, ev Event) (models.State, error) {
	if _, err := os.Stat(c.opts.TermsPath); err != nil {
		if !os.IsNotExist(err) {
			return models.StateChoosing, fmt.Errorf("failed to stat terms file: %w", err)
		}
		return models.StateChoosing, c.messenger.SendText(ctx, ev.ChatID, c.messages.TermsNotFound, nil)
	}
	return models.StateChoosing, c.messenger.SendFile(ctx, ev.ChatID, c.opts.TermsPath, c.messages.TermsFileName)
}

func (c *Controller) acceptRules(ctx context.Context, ev Event) (models.State, error) {
	keyboard := Keyboard{{{Text: c.messages.ButtonCheckDocument, Data: string(TriggerCheckDocument)}}}
	return models.StateChoosing, c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, c.messages.RulesAccepted, keyboard)
}

func (c *Controller) chooseCheckDocument(ctx context.Context, ev Event) (models.State, error) {
	if err := c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, c.messages.SendDocument, nil); err != nil {
		return models.StateChoosing, err
	}
	return models.StateAwaitingDocument, nil
}

// handleDocument downloads, extracts and classifies a registration document
// and asks for the payment receipt.
func (c *Controller) handleDocument(ctx context.Context, ev Event) (models.State, error) {
	const stay = models.StateAwaitingDocument
	log := logger.ForUser(c.logger, ev.UserID, ev.Username)
	doc := ev.Document

	if doc == nil || doc.Size > c.opts.MaxFileSize {
		metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.DocumentTooLarge, nil)
	}

	mediaType := service.DeclaredMediaType(doc.FileName, doc.MimeType)
	if mediaType == "" {
		metrics.RejectedUploadsTotal.WithLabelValues("unsupported_type").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.UnsupportedType, nil)
	}

	path := c.tempPath("first_doc", ev.UserID, doc.FileName)
	if err := c.messenger.Download(ctx, doc.FileID, path); err != nil {
		c.removeFile(path, log)
		if errors.Is(err, ErrFileTooLarge) {
			metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
			return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.DocumentTooLarge, nil)
		}
		return stay, fmt.Errorf("failed to download document: %w", err)
	}

	text, err := c.extractor.Extract(ctx, path, mediaType)
	if err != nil {
		c.removeFile(path, log)
		var extErr *service.ExtractionError
		if !errors.As(err, &extErr) {
			return stay, err
		}
		log.Warn("Document extraction failed", zap.String("file", doc.FileName), zap.Error(err))
		metrics.RejectedUploadsTotal.WithLabelValues("unreadable").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, fmt.Sprintf(c.messages.ProcessingFailed, extErr.Error()), nil)
	}

	verdict := service.ClassifyRegistration(text)
	metrics.DocumentsTotal.WithLabelValues(string(verdict)).Inc()

	prev, replaced := c.sessions.Put(ev.UserID, models.Session{
		FilePath:  path,
		FileName:  doc.FileName,
		Verdict:   verdict,
		CreatedAt: c.now(),
	})
	if replaced {
		c.removeFile(prev.FilePath, log)
	} else {
		metrics.PendingSessions.Inc()
	}

	log.Info("Document classified", zap.String("file", doc.FileName), zap.String("verdict", string(verdict)))
	c.record(ctx, ev, models.ActionDocumentUploaded, doc.FileName, verdict.Label(), log)

	instructions := fmt.Sprintf(c.messages.PaymentInstructions, service.PaymentAmount, service.PaymentRecipient)
	return models.StateAwaitingPayment, c.messenger.SendText(ctx, ev.ChatID, instructions, nil)
}

// verifyPayment checks a receipt and, when it passes, releases the stored verdict.
func (c *Controller) verifyPayment(ctx context.Context, ev Event) (models.State, error) {
	const stay = models.StateAwaitingPayment
	log := logger.ForUser(c.logger, ev.UserID, ev.Username)
	doc := ev.Document

	if doc == nil || doc.Size > c.opts.MaxFileSize {
		metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.ReceiptTooLarge, nil)
	}

	path := c.tempPath("payment_doc", ev.UserID, doc.FileName)
	defer c.removeFile(path, log)

	if err := c.messenger.Download(ctx, doc.FileID, path); err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
			return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.ReceiptTooLarge, nil)
		}
		return stay, fmt.Errorf("failed to download receipt: %w", err)
	}

	isNew, err := c.dedup.IsNew(path)
	if err != nil {
		return stay, fmt.Errorf("failed to check receipt uniqueness: %w", err)
	}
	if !isNew {
		metrics.ReceiptsTotal.WithLabelValues("duplicate").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.ReceiptDuplicate, nil)
	}

	mediaType := service.ReceiptMediaType(doc.FileName, doc.MimeType, path)
	content, err := c.extractor.Extract(ctx, path, mediaType)
	if err != nil {
		var extErr *service.ExtractionError
		if !errors.As(err, &extErr) {
			return stay, err
		}
		log.Warn("Receipt extraction failed", zap.String("file", doc.FileName), zap.Error(err))
		metrics.ReceiptsTotal.WithLabelValues("unreadable").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, fmt.Sprintf(c.messages.ReceiptReadFailed, extErr.Error()), nil)
	}

	if !service.ValidateReceipt(content) {
		log.Info("Receipt rejected", zap.String("file", doc.FileName))
		metrics.ReceiptsTotal.WithLabelValues("rejected").Inc()
		return stay, c.messenger.SendText(ctx, ev.ChatID, c.messages.ReceiptRejected, nil)
	}

	result, docName := c.messages.AnalysisUnavailable, c.messages.DefaultDocumentName
	if session, ok := c.sessions.Take(ev.UserID); ok {
		c.removeFile(session.FilePath, log)
		metrics.PendingSessions.Dec()
		result, docName = session.Verdict.Label(), session.FileName
	} else {
		log.Warn("Receipt accepted without pending session")
	}

	metrics.ReceiptsTotal.WithLabelValues("accepted").Inc()
	log.Info("Receipt accepted", zap.String("file", doc.FileName), zap.String("document", docName))
	c.record(ctx, ev, models.ActionReceipt, doc.FileName, models.ResultReceiptConfirmed, log)

	keyboard := Keyboard{{{Text: c.messages.ButtonCheckAnother, Data: string(TriggerCheckDocument)}}}
	return models.StateChoosing, c.messenger.SendText(ctx, ev.ChatID, fmt.Sprintf(c.messages.ReceiptAccepted, docName, result), keyboard)
}

// record writes to the action log. A failed write does not stop the conversation.
func (c *Controller) record(ctx context.Context, ev Event, action, docName, result string, log *zap.Logger) {
	err := c.actions.Record(ctx, models.LogEntry{
		Timestamp:    c.now(),
		UserID:       ev.UserID,
		Username:     ev.Username,
		Action:       action,
		DocumentName: docName,
		Result:       result,
	})
	if err != nil {
		log.Error("Failed to write action log", zap.String("action", action), zap.Error(err))
	}
}

// tempPath builds a per-upload file name; the uuid keeps concurrent uploads
// of the same file name apart.
func (c *Controller) tempPath(kind string, userID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return filepath.Join(c.opts.WorkDir, fmt.Sprintf("%s_%d_%s%s", kind, userID, uuid.NewString(), ext))
}

func (c *Controller) removeFile(path string, log *zap.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to remove file", zap.String("file", path), zap.Error(err))
	}
}
