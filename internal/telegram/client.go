// Package telegram connects the bot to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"regcheck-bot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client implements bot.Messenger on top of the Bot API.
type Client struct {
	api         *tgbotapi.BotAPI
	httpClient  *http.Client
	maxFileSize int64
	logger      *zap.Logger
}

func NewClient(token string, debug bool, maxFileSize int64, logger *zap.Logger) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on Telegram", zap.String("bot", api.Self.UserName))

	return &Client{
		api:         api,
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
		maxFileSize: maxFileSize,
		logger:      logger,
	}, nil
}

func (c *Client) SendText(_ context.Context, chatID int64, text string, keyboard bot.Keyboard) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(keyboard) > 0 {
		msg.ReplyMarkup = inlineKeyboard(keyboard)
	}
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (c *Client) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard bot.Keyboard) error {
	var edit tgbotapi.EditMessageTextConfig
	if len(keyboard) > 0 {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, inlineKeyboard(keyboard))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := c.api.Send(edit); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendFile uploads the file at path under the given display name.
func (c *Client) SendFile(_ context.Context, chatID int64, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: name, Reader: f})
	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

func (c *Client) AnswerCallback(_ context.Context, callbackID string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// Download saves the uploaded file to dst. Files above the size limit are
// rejected with bot.ErrFileTooLarge and nothing is left at dst.
func (c *Client) Download(ctx context.Context, fileID, dst string) error {
	fileURL, err := c.api.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the URL embeds the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	if err := saveLimited(resp.Body, dst, c.maxFileSize); err != nil {
		return err
	}

	c.logger.Debug("File downloaded", zap.String("file_id", fileID), zap.String("path", dst))
	return nil
}

func saveLimited(r io.Reader, dst string, limit int64) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	n, err := io.Copy(out, io.LimitReader(r, limit+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > limit {
		err = bot.ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(dst)
		if errors.Is(err, bot.ErrFileTooLarge) {
			return err
		}
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func inlineKeyboard(keyboard bot.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
