package handlers

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
)

// ThreadDelete handles the THREAD_DELETE event. Forum subscriptions pointing
// at a deleted thread can never be delivered to again, so they are dropped.
func ThreadDelete(b *bot.Bot) func(s *discordgo.Session, t *discordgo.ThreadDelete) {
	return func(s *discordgo.Session, t *discordgo.ThreadDelete) {
		removed, err := database.RemoveForumSubscriptionsForThread(b.DB, t.ID)
		if err != nil {
			slog.Error("failed to clean up subscriptions for deleted thread", "thread_id", t.ID, "error", err)
			return
		}
		if removed > 0 {
			slog.Info("removed subscriptions for deleted thread", "thread_id", t.ID, "count", removed)
		}
	}
}
