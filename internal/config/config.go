package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrEmptyURL = errors.New("error getting PW_DEST_URL: variable not specified or contains an empty string")

type Config struct {
	Env          string        // Env is the current environment: local, dev, prod.
	URL          string        // URL of the listing page to watch.
	StoragePath  string        // StoragePath is the SQLite database file.
	OutputPath   string        // OutputPath for the annotated document; empty disables the dump.
	PollInterval time.Duration // PollInterval between page checks until the cycle completes.
	Tg           Telegram
}

type Telegram struct {
	Token   string        // Token is an unique telegram bot token. Empty disables the bot.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("PW")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("STORAGE_PATH", "packwatch.db")
	viper.SetDefault("POLL_INTERVAL", "30s")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")

	if viper.GetString("DEST_URL") == "" {
		panic(ErrEmptyURL)
	}

	return &Config{
		Env:          viper.GetString("ENV"),
		URL:          viper.GetString("DEST_URL"),
		StoragePath:  viper.GetString("STORAGE_PATH"),
		OutputPath:   viper.GetString("OUTPUT_PATH"),
		PollInterval: viper.GetDuration("POLL_INTERVAL"),
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}
}
