package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Trai60/Reddit-to-Discord-Bot/bot"
	"github.com/Trai60/Reddit-to-Discord-Bot/database"
)

// HandleCheckDatabase handles the logic for the /check_database command.
func HandleCheckDatabase(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	go func() {
		started := time.Now()
		result, err := database.CheckIntegrity(b.DB)
		if err != nil {
			followup(s, i, fmt.Sprintf("Error checking database integrity: %v", err))
			return
		}
		slog.Info("integrity check finished", "result", result, "duration", time.Since(started).Round(time.Millisecond))
		if result == "ok" {
			followup(s, i, "Database integrity check passed.")
			return
		}
		followup(s, i, fmt.Sprintf("Database integrity check failed: %s", result))
	}()
}

// HandleVacuumDatabase handles the logic for the /vacuum_database command.
func HandleVacuumDatabase(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	go func() {
		started := time.Now()
		if err := database.Vacuum(b.DB); err != nil {
			followup(s, i, fmt.Sprintf("Error vacuuming database: %v", err))
			return
		}
		duration := time.Since(started)
		slog.Info("database vacuumed", "duration", duration.Round(time.Millisecond))
		followup(s, i, fmt.Sprintf("Database vacuum completed successfully in %.1f seconds", duration.Seconds()))
	}()
}

// HandleDatabaseStats handles the logic for the /database_stats command.
func HandleDatabaseStats(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	stats, err := database.GetStats(b.DB, b.DBPath)
	if err != nil {
		respondEphemeral(s, i, fmt.Sprintf("Error collecting database statistics: %v", err))
		return
	}

	message := fmt.Sprintf("Database statistics:\n"+
		"Subscriptions: %d\n"+
		"Forum thread subscriptions: %d\n"+
		"Individual forum subscriptions: %d\n"+
		"Posted submissions: %d\n"+
		"File size: %.1f KiB",
		stats.Subscriptions,
		stats.ForumSubscriptions,
		stats.IndividualForumSubscriptions,
		stats.PostedSubmissions,
		float64(stats.FileSizeBytes)/1024)
	respondEphemeral(s, i, message)
}
