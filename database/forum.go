package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Trai60/Reddit-to-Discord-Bot/models"
)

// AddForumSubscription binds a subreddit to an existing forum thread. It
// returns false when the exact binding already exists.
func AddForumSubscription(db *sql.DB, subreddit, channelID, threadID string) (bool, error) {
	stmt, err := db.Prepare(`INSERT OR IGNORE INTO forum_subscriptions (subreddit, channel_id, thread_id) VALUES (?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare forum subscription insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(subreddit, channelID, threadID)
	if err != nil {
		return false, fmt.Errorf("failed to insert forum subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RemoveForumSubscription deletes a thread binding. It returns false when no
// such subscription existed.
func RemoveForumSubscription(db *sql.DB, subreddit, channelID, threadID string) (bool, error) {
	res, err := db.Exec(`DELETE FROM forum_subscriptions WHERE subreddit = ? AND channel_id = ? AND thread_id = ?`,
		subreddit, channelID, threadID)
	if err != nil {
		return false, fmt.Errorf("failed to delete forum subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetAllForumSubscriptions returns every forum thread subscription ordered by
// forum channel and subreddit.
func GetAllForumSubscriptions(db *sql.DB) ([]models.ForumSubscription, error) {
	rows, err := db.Query(`SELECT subreddit, channel_id, thread_id, last_check, last_submission_id
		FROM forum_subscriptions ORDER BY channel_id, thread_id, subreddit`)
	if err != nil {
		return nil, fmt.Errorf("failed to query forum subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.ForumSubscription
	for rows.Next() {
		var sub models.ForumSubscription
		var lastCheck, lastID sql.NullString
		if err := rows.Scan(&sub.Subreddit, &sub.ChannelID, &sub.ThreadID, &lastCheck, &lastID); err != nil {
			return nil, fmt.Errorf("failed to scan forum subscription: %w", err)
		}
		sub.LastCheck = parseTime(lastCheck)
		sub.LastSubmissionID = lastID.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateForumSubscriptionTracking advances the scan window for a forum thread
// subscription.
func UpdateForumSubscriptionTracking(db *sql.DB, subreddit, channelID, threadID string, lastCheck time.Time, lastSubmissionID string) error {
	query := `UPDATE forum_subscriptions
		SET last_check = ?, last_submission_id = COALESCE(NULLIF(?, ''), last_submission_id)
		WHERE subreddit = ? AND channel_id = ? AND thread_id = ?`

	if _, err := db.Exec(query, formatTime(lastCheck), lastSubmissionID, subreddit, channelID, threadID); err != nil {
		return fmt.Errorf("failed to update forum tracking for r/%s: %w", subreddit, err)
	}
	return nil
}

// AddIndividualForumSubscription binds a subreddit to a forum channel where
// every post opens its own thread. It returns false when the binding already
// exists.
func AddIndividualForumSubscription(db *sql.DB, subreddit, channelID string) (bool, error) {
	stmt, err := db.Prepare(`INSERT OR IGNORE INTO individual_forum_subscriptions (subreddit, channel_id) VALUES (?, ?)`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare individual forum insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(subreddit, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to insert individual forum subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RemoveIndividualForumSubscription deletes a thread-per-post binding. It
// returns false when no such subscription existed.
func RemoveIndividualForumSubscription(db *sql.DB, subreddit, channelID string) (bool, error) {
	res, err := db.Exec(`DELETE FROM individual_forum_subscriptions WHERE subreddit = ? AND channel_id = ?`,
		subreddit, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete individual forum subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetAllIndividualForumSubscriptions returns every thread-per-post
// subscription ordered by forum channel and subreddit.
func GetAllIndividualForumSubscriptions(db *sql.DB) ([]models.IndividualForumSubscription, error) {
	rows, err := db.Query(`SELECT subreddit, channel_id, last_check
		FROM individual_forum_subscriptions ORDER BY channel_id, subreddit`)
	if err != nil {
		return nil, fmt.Errorf("failed to query individual forum subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.IndividualForumSubscription
	for rows.Next() {
		var sub models.IndividualForumSubscription
		var lastCheck sql.NullString
		if err := rows.Scan(&sub.Subreddit, &sub.ChannelID, &lastCheck); err != nil {
			return nil, fmt.Errorf("failed to scan individual forum subscription: %w", err)
		}
		sub.LastCheck = parseTime(lastCheck)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateIndividualForumTracking advances the scan window for a thread-per-post
// subscription. Dedup for these relies on posted submission history, so only
// the timestamp moves.
func UpdateIndividualForumTracking(db *sql.DB, subreddit, channelID string, lastCheck time.Time) error {
	if _, err := db.Exec(`UPDATE individual_forum_subscriptions SET last_check = ?
		WHERE subreddit = ? AND channel_id = ?`, formatTime(lastCheck), subreddit, channelID); err != nil {
		return fmt.Errorf("failed to update individual forum tracking for r/%s: %w", subreddit, err)
	}
	return nil
}
