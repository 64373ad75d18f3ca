package utils

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

const embedFieldLimit = 1024

var (
	session   *discordgo.Session
	channelID string
)

// InitLogger points the Discord mirror at the configured log channel.
func InitLogger(s *discordgo.Session) {
	session = s
	channelID = viper.GetString("bot.logChannelId")
	if channelID == "" {
		slog.Warn("bot.logChannelId is not set, channel logging disabled")
	}
}

// Log records a message through slog. Warnings and errors are also mirrored
// to the Discord log channel when one is configured.
func Log(level, module, operation, details string) {
	attrs := []any{"module", module, "operation", operation}

	var color int
	switch level {
	case "WARN":
		slog.Warn(details, attrs...)
		color = ColorWarn
	case "ERROR":
		slog.Error(details, attrs...)
		color = ColorError
	default:
		slog.Info(details, attrs...)
		return
	}

	if session == nil || channelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: Truncate(details, embedFieldLimit),
			},
		},
	}

	if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("failed to send log message to Discord", "error", err)
	}
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
