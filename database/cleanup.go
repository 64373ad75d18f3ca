package database

import (
	"database/sql"
	"fmt"
)

// RemoveSubscriptionsForChannel drops every subscription of any kind that
// targets the channel and returns how many rows were removed. Used when a
// channel disappears or the bot leaves a guild.
func RemoveSubscriptionsForChannel(db *sql.DB, channelID string) (int64, error) {
	var total int64

	for _, table := range []string{"subscriptions", "forum_subscriptions", "individual_forum_subscriptions"} {
		res, err := db.Exec(`DELETE FROM `+table+` WHERE channel_id = ?`, channelID)
		if err != nil {
			return total, fmt.Errorf("failed to delete from %s for channel %s: %w", table, channelID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += rows
	}

	return total, nil
}

// RemoveForumSubscriptionsForThread drops every subscription feeding a forum
// thread and returns how many rows were removed. Used when the thread is
// deleted out from under the bot.
func RemoveForumSubscriptionsForThread(db *sql.DB, threadID string) (int64, error) {
	res, err := db.Exec(`DELETE FROM forum_subscriptions WHERE thread_id = ?`, threadID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete forum subscriptions for thread %s: %w", threadID, err)
	}
	return res.RowsAffected()
}
