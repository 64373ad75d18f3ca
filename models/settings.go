package models

// FlairSettings controls flair-to-tag conversion for one forum channel.
// BlacklistedFlairs is stored JSON-encoded.
type FlairSettings struct {
	ChannelID         string   `db:"channel_id"`
	MaxFlairs         int      `db:"max_flairs"`
	FlairEnabled      bool     `db:"flair_enabled"`
	BlacklistedFlairs []string `db:"blacklisted_flairs"`
}
