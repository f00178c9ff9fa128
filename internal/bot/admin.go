package bot

import (
	"context"
	"errors"
	"fmt"
	"os"

	"regcheck-bot/internal/repository"

	"go.uber.org/zap"
)

func (c *Controller) isOwner(ev Event) bool {
	return ev.UserID == c.opts.OwnerID
}

// admin shows the owner panel. Other users get a visible denial.
func (c *Controller) admin(ctx context.Context, ev Event) error {
	if !c.isOwner(ev) {
		c.logger.Warn("Admin access denied", zap.Int64("user_id", ev.UserID), zap.String("username", ev.Username))
		return c.messenger.SendText(ctx, ev.ChatID, c.messages.AdminDenied, nil)
	}

	keyboard := Keyboard{
		{{Text: c.messages.ButtonAdminStats, Data: string(TriggerAdminStats)}},
		{{Text: c.messages.ButtonAdminLogs, Data: string(TriggerAdminLogs)}},
	}
	return c.messenger.SendText(ctx, ev.ChatID, c.messages.AdminPanel, keyboard)
}

func (c *Controller) adminCallback(ctx context.Context, ev Event) error {
	if !c.isOwner(ev) {
		c.logger.Warn("Admin callback denied", zap.Int64("user_id", ev.UserID), zap.String("data", ev.Data))
		return c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, c.messages.AdminCallbackDenied, nil)
	}

	switch Trigger(ev.Data) {
	case TriggerAdminStats:
		stats, err := c.actions.Aggregate(ctx)
		if errors.Is(err, repository.ErrNoLog) {
			return c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, c.messages.StatsEmpty, nil)
		}
		if err != nil {
			return fmt.Errorf("failed to aggregate action log: %w", err)
		}
		text := fmt.Sprintf(c.messages.Stats, stats.UniqueUsers, stats.Documents, stats.Checks, stats.Payments)
		return c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, text, nil)

	case TriggerAdminLogs:
		if _, err := os.Stat(c.actions.Path()); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat action log: %w", err)
			}
			return c.messenger.EditText(ctx, ev.ChatID, ev.MessageID, c.messages.LogsNotFound, nil)
		}
		return c.messenger.SendFile(ctx, ev.ChatID, c.actions.Path(), c.messages.LogsFileName)
	}

	c.logger.Debug("Unknown admin callback", zap.String("data", ev.Data))
	return nil
}
