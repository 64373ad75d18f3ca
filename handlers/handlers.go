package handlers

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	// Register event handlers
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(ChannelDelete(b))
	b.Session.AddHandler(ThreadDelete(b))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("logged in", "username", s.State.User.Username, "id", s.State.User.ID)
	})
}
