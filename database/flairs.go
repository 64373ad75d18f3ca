package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Trai60/Reddit-to-Discord-Bot/models"
)

// GetFlairSettings returns the flair-to-tag settings for a forum channel.
// Channels without a stored row get the defaults: flairs enabled, up to 20
// tags, nothing blacklisted.
func GetFlairSettings(db *sql.DB, channelID string) (models.FlairSettings, error) {
	settings := models.FlairSettings{
		ChannelID:    channelID,
		MaxFlairs:    20,
		FlairEnabled: true,
	}

	var blacklist string
	err := db.QueryRow(`SELECT max_flairs, flair_enabled, blacklisted_flairs FROM forum_flair_settings WHERE channel_id = ?`,
		channelID).Scan(&settings.MaxFlairs, &settings.FlairEnabled, &blacklist)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to query flair settings for channel %s: %w", channelID, err)
	}

	if blacklist != "" {
		if err := json.Unmarshal([]byte(blacklist), &settings.BlacklistedFlairs); err != nil {
			return settings, fmt.Errorf("failed to decode flair blacklist for channel %s: %w", channelID, err)
		}
	}
	return settings, nil
}

// SaveFlairSettings stores the flair-to-tag settings for a forum channel,
// replacing any existing row.
func SaveFlairSettings(db *sql.DB, settings models.FlairSettings) error {
	blacklist := settings.BlacklistedFlairs
	if blacklist == nil {
		blacklist = []string{}
	}
	encoded, err := json.Marshal(blacklist)
	if err != nil {
		return fmt.Errorf("failed to encode flair blacklist for channel %s: %w", settings.ChannelID, err)
	}

	stmt, err := db.Prepare(`INSERT OR REPLACE INTO forum_flair_settings (channel_id, max_flairs, flair_enabled, blacklisted_flairs)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare flair settings upsert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(settings.ChannelID, settings.MaxFlairs, settings.FlairEnabled, string(encoded)); err != nil {
		return fmt.Errorf("failed to save flair settings for channel %s: %w", settings.ChannelID, err)
	}
	return nil
}

// DeleteFlairSettings removes the stored settings for a forum channel.
func DeleteFlairSettings(db *sql.DB, channelID string) error {
	if _, err := db.Exec(`DELETE FROM forum_flair_settings WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("failed to delete flair settings for channel %s: %w", channelID, err)
	}
	return nil
}
