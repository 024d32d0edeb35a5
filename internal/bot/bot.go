package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/packwatch/packwatch/internal/models"
	"gopkg.in/telebot.v4"
)

// Bot contains the bot API instance and other information.
type Bot struct {
	bot      API
	log      *slog.Logger
	repo     Repository
	resetter Resetter
}

func NewBot(log *slog.Logger, token string, poller time.Duration, repo Repository, resetter Resetter) (*Bot, error) {
	api, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: poller},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on acount", "account", api.Me.Username)

	botInstance := &Bot{bot: api, log: log, repo: repo, resetter: resetter}

	botInstance.registerRoutes()

	return botInstance, nil
}

// Start launches the bot to listen for updates.
func (b *Bot) Start() {
	b.log.Info("Telegram bot is starting...")
	b.bot.Start()
}

// Stop gracefully stops the Telegram bot and logs the action.
func (b *Bot) Stop() {
	b.log.Info("Telegram bot is stopped...")
	b.bot.Stop()
}

// NotifySummary sends the completed cycle's counters to every subscribed chat.
func (b *Bot) NotifySummary(ctx context.Context, summary models.Summary) error {
	const opn = "bot.NotifySummary"

	chats, err := b.repo.GetSubscribedChats(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to get subscribed chats: %w", opn, err)
	}

	message := formatSummary(summary)
	for _, chatID := range chats {
		if _, err = b.bot.Send(telebot.ChatID(chatID), message); err != nil {
			b.log.Warn("failed to send summary", "op", opn, "chat_id", chatID, "error", err)
		}
	}

	return nil
}

// registerRoutes configures all routes (commands).
func (b *Bot) registerRoutes() {
	// Public routes.
	b.bot.Handle("/start", b.startHandler)
	b.bot.Handle("/stop", b.stopHandler)
	b.bot.Handle("/dump", b.dumpHandler)
	b.bot.Handle("/reset", b.resetHandler)
}

func formatSummary(summary models.Summary) string {
	return fmt.Sprintf(
		"Listing check complete: %d packages.\nNew: %d\nOffer changed: %d\nPrice changed: %d\nUnchanged: %d",
		summary.Total(),
		summary.New,
		summary.OfferChanged,
		summary.PriceChanged,
		summary.Unchanged,
	)
}
