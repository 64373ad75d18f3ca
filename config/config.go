package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file, config.yaml, and the
// environment. Environment variables override file settings, with '.' in
// config keys mapping to '_' in variable names (BOT_TOKEN, REDDIT_CLIENT_ID,
// REDDIT_CLIENT_SECRET).
func LoadConfig() {
	// .env first so viper's AutomaticEnv can see anything defined there.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, skipping")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("no config.yaml found, using defaults and environment variables")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}
}

func setDefaults() {
	viper.SetDefault("bot.debugRoleName", "Debug")
	viper.SetDefault("reddit.userAgent", "Reddit2Discord Bot/v1.3 by Trai60")
	viper.SetDefault("reddit.requestsPerMinute", 60)
	viper.SetDefault("scanner.interval", "@every 2m")
	viper.SetDefault("scanner.fetchLimit", 10)
	viper.SetDefault("scanner.scanAtStartup", true)
	viper.SetDefault("database.path", "data/subscriptions.db")
}
