package bot

import (
	"context"

	"github.com/packwatch/packwatch/internal/models"
	"gopkg.in/telebot.v4"
)

type API interface {
	// Handle lets you set the handler for some command name or one of the supported endpoints. It also applies middleware if such passed to the function.
	Handle(endpoint interface{}, h telebot.HandlerFunc, m ...telebot.MiddlewareFunc)
	// Start brings bot into motion by consuming incoming updates (see Bot.Updates channel).
	Start()
	// Stop gracefully shuts the poller down.
	Stop()

	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Repository is the storage surface the bot needs: chat subscriptions plus
// the raw stored snapshot set for the /dump inspection command.
type Repository interface {
	SubscribeChat(ctx context.Context, chatID int64) error
	UnsubscribeChat(ctx context.Context, chatID int64) error
	GetSubscribedChats(ctx context.Context) ([]int64, error)
	GetSnapshots(ctx context.Context) ([]models.PackageSnapshot, error)
}

// Resetter clears the stored state and returns the watch cycle to idle.
type Resetter interface {
	Reset(ctx context.Context) error
}
