package telegram

import (
	"context"
	"fmt"
	"time"

	"regcheck-bot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(ev bot.Event)
}

// Receiver feeds updates into the dispatcher, either by long polling or from
// webhook requests.
type Receiver struct {
	client      *Client
	dispatcher  Dispatcher
	pollTimeout time.Duration
	logger      *zap.Logger
}

func NewReceiver(client *Client, dispatcher Dispatcher, pollTimeout time.Duration, logger *zap.Logger) *Receiver {
	return &Receiver{
		client:      client,
		dispatcher:  dispatcher,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Consume hands one update to the dispatcher.
func (r *Receiver) Consume(update tgbotapi.Update) {
	ev, ok := ToEvent(update)
	if !ok {
		r.logger.Debug("Update skipped", zap.Int("update_id", update.UpdateID))
		return
	}
	r.dispatcher.Dispatch(ev)
}

// Poll receives updates until ctx is cancelled.
func (r *Receiver) Poll(ctx context.Context) error {
	if err := r.DeleteWebhook(); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(r.pollTimeout.Seconds())
	updates := r.client.api.GetUpdatesChan(u)

	r.logger.Info("Polling for updates", zap.Duration("timeout", r.pollTimeout))

	for {
		select {
		case <-ctx.Done():
			r.client.api.StopReceivingUpdates()
			r.logger.Info("Polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			r.Consume(update)
		}
	}
}

// RegisterWebhook points Telegram at url. Requests will carry secret in the
// X-Telegram-Bot-Api-Secret-Token header when it is set.
func (r *Receiver) RegisterWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)

	if _, err := r.client.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	r.logger.Info("Webhook registered", zap.String("url", url))
	return nil
}

func (r *Receiver) DeleteWebhook() error {
	if _, err := r.client.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return nil
}
