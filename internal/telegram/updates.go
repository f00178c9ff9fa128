package telegram

import (
	"regcheck-bot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ToEvent converts an update into a bot event. Updates the bot does not react
// to (plain text, photos, channel posts, edits) are reported with false.
func ToEvent(update tgbotapi.Update) (bot.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil {
			return bot.Event{}, false
		}
		ev := bot.Event{
			Kind:       bot.EventCallback,
			UserID:     cq.From.ID,
			ChatID:     cq.From.ID,
			Username:   cq.From.UserName,
			CallbackID: cq.ID,
			Data:       cq.Data,
		}
		if cq.Message != nil {
			ev.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				ev.ChatID = cq.Message.Chat.ID
			}
		}
		return ev, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return bot.Event{}, false
	}

	ev := bot.Event{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.UserName,
	}

	switch {
	case msg.IsCommand():
		ev.Kind = bot.EventCommand
		ev.Command = msg.Command()
	case msg.Document != nil:
		ev.Kind = bot.EventDocument
		ev.Document = &bot.Document{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			MimeType: msg.Document.MimeType,
			Size:     int64(msg.Document.FileSize),
		}
	default:
		return bot.Event{}, false
	}

	return ev, true
}
