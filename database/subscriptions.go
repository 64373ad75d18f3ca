package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Trai60/Reddit-to-Discord-Bot/models"
)

// timeFormat is how timestamps are stored in TEXT columns.
const timeFormat = time.RFC3339

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeFormat, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddSubscription records a subreddit-to-channel binding. It returns false
// when the pair is already subscribed.
func AddSubscription(db *sql.DB, subreddit, channelID string) (bool, error) {
	stmt, err := db.Prepare(`INSERT OR IGNORE INTO subscriptions (subreddit, channel_id) VALUES (?, ?)`)
	if err != nil {
		return false, fmt.Errorf("failed to prepare subscription insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(subreddit, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to insert subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RemoveSubscription deletes a subreddit-to-channel binding. It returns false
// when no such subscription existed.
func RemoveSubscription(db *sql.DB, subreddit, channelID string) (bool, error) {
	res, err := db.Exec(`DELETE FROM subscriptions WHERE subreddit = ? AND channel_id = ?`, subreddit, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription for r/%s: %w", subreddit, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SubscriptionExists reports whether the channel is subscribed to the
// subreddit.
func SubscriptionExists(db *sql.DB, subreddit, channelID string) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM subscriptions WHERE subreddit = ? AND channel_id = ?`, subreddit, channelID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check subscription for r/%s: %w", subreddit, err)
	}
	return true, nil
}

// GetAllSubscriptions returns every channel subscription ordered by channel
// and subreddit.
func GetAllSubscriptions(db *sql.DB) ([]models.Subscription, error) {
	rows, err := db.Query(`SELECT subreddit, channel_id, last_check, last_submission_id, failed_attempts
		FROM subscriptions ORDER BY channel_id, subreddit`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var lastCheck, lastID sql.NullString
		if err := rows.Scan(&sub.Subreddit, &sub.ChannelID, &lastCheck, &lastID, &sub.FailedAttempts); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.LastCheck = parseTime(lastCheck)
		sub.LastSubmissionID = lastID.String
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateSubscriptionTracking advances the scan window for a channel
// subscription. An empty lastSubmissionID keeps the previous one so the
// window still moves forward on quiet cycles.
func UpdateSubscriptionTracking(db *sql.DB, subreddit, channelID string, lastCheck time.Time, lastSubmissionID string) error {
	query := `UPDATE subscriptions
		SET last_check = ?, last_submission_id = COALESCE(NULLIF(?, ''), last_submission_id)
		WHERE subreddit = ? AND channel_id = ?`

	if _, err := db.Exec(query, formatTime(lastCheck), lastSubmissionID, subreddit, channelID); err != nil {
		return fmt.Errorf("failed to update tracking for r/%s: %w", subreddit, err)
	}
	return nil
}

// IncrementFailedAttempts bumps the consecutive failure counter and returns
// the new count.
func IncrementFailedAttempts(db *sql.DB, subreddit, channelID string) (int, error) {
	if _, err := db.Exec(`UPDATE subscriptions SET failed_attempts = failed_attempts + 1
		WHERE subreddit = ? AND channel_id = ?`, subreddit, channelID); err != nil {
		return 0, fmt.Errorf("failed to increment failed attempts for r/%s: %w", subreddit, err)
	}

	var attempts int
	err := db.QueryRow(`SELECT failed_attempts FROM subscriptions WHERE subreddit = ? AND channel_id = ?`,
		subreddit, channelID).Scan(&attempts)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read failed attempts for r/%s: %w", subreddit, err)
	}
	return attempts, nil
}

// ResetFailedAttempts clears the failure counter after a successful fetch.
func ResetFailedAttempts(db *sql.DB, subreddit, channelID string) error {
	if _, err := db.Exec(`UPDATE subscriptions SET failed_attempts = 0
		WHERE subreddit = ? AND channel_id = ? AND failed_attempts != 0`, subreddit, channelID); err != nil {
		return fmt.Errorf("failed to reset failed attempts for r/%s: %w", subreddit, err)
	}
	return nil
}
