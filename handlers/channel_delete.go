package handlers

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
)

// ChannelDelete handles the CHANNEL_DELETE event. Every subscription kind
// referencing the deleted channel is dropped so the scanner stops fetching
// for targets that no longer exist.
func ChannelDelete(b *bot.Bot) func(s *discordgo.Session, e *discordgo.ChannelDelete) {
	return func(s *discordgo.Session, e *discordgo.ChannelDelete) {
		removed, err := database.RemoveSubscriptionsForChannel(b.DB, e.ID)
		if err != nil {
			slog.Error("failed to clean up subscriptions for deleted channel", "channel_id", e.ID, "error", err)
			return
		}
		if removed > 0 {
			slog.Info("removed subscriptions for deleted channel", "channel_id", e.ID, "count", removed)
		}
		if err := database.DeleteFlairSettings(b.DB, e.ID); err != nil {
			slog.Warn("failed to remove flair settings for deleted channel", "channel_id", e.ID, "error", err)
		}
	}
}
