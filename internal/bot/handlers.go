package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/packwatch/packwatch/internal/models"
	"github.com/packwatch/packwatch/internal/repository"
	"gopkg.in/telebot.v4"
)

// startHandler process command /start: subscribes the chat to summaries.
func (b *Bot) startHandler(ctx telebot.Context) error {
	b.log.Info("User subscribed", "username", ctx.Sender().Username)

	if err := b.repo.SubscribeChat(context.Background(), ctx.Chat().ID); err != nil {
		return fmt.Errorf("failed to subscribe chat: %w", err)
	}

	if err := ctx.Send("Subscribed. You will receive listing change summaries."); err != nil {
		return fmt.Errorf("failed to send greeting message: %w", err)
	}

	return nil
}

// stopHandler process command /stop: unsubscribes the chat.
func (b *Bot) stopHandler(ctx telebot.Context) error {
	b.log.Info("User unsubscribed", "username", ctx.Sender().Username)

	if err := b.repo.UnsubscribeChat(context.Background(), ctx.Chat().ID); err != nil {
		return fmt.Errorf("failed to unsubscribe chat: %w", err)
	}

	if err := ctx.Send("Unsubscribed."); err != nil {
		return fmt.Errorf("failed to send farewell message: %w", err)
	}

	return nil
}

// dumpHandler process command /dump: renders the raw stored snapshot set so
// a user can inspect what the last cycle persisted.
func (b *Bot) dumpHandler(ctx telebot.Context) error {
	snapshots, err := b.repo.GetSnapshots(context.Background())
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			if sendErr := ctx.Send("No snapshot stored yet."); sendErr != nil {
				return fmt.Errorf("failed to send empty-state message: %w", sendErr)
			}
			return nil
		}
		return fmt.Errorf("failed to load stored snapshots: %w", err)
	}

	if err = ctx.Send(formatDump(snapshots)); err != nil {
		return fmt.Errorf("failed to send snapshot dump: %w", err)
	}

	return nil
}

// resetHandler process command /reset: clears the stored snapshots so the
// next cycle starts from a clean slate.
func (b *Bot) resetHandler(ctx telebot.Context) error {
	b.log.Info("User requested a reset", "username", ctx.Sender().Username)

	if err := b.resetter.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}

	if err := ctx.Send("Stored snapshots cleared. The next check starts fresh."); err != nil {
		return fmt.Errorf("failed to send reset confirmation: %w", err)
	}

	return nil
}

func formatDump(snapshots []models.PackageSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Stored snapshot set: %d packages\n", len(snapshots))
	for _, p := range snapshots {
		fmt.Fprintf(&sb, "\n%s: %s (%s)\n", p.SellerName, p.TotalText, p.EfficiencyText)
		for _, c := range p.Cards {
			fmt.Fprintf(&sb, "  %sx %s %s %s\n", c.Quantity, c.Name, c.Condition, c.PriceText)
		}
	}

	return sb.String()
}
