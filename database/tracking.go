package database

import (
	"database/sql"
	"fmt"
	"time"
)

// MarkSubmissionPosted records that a submission was published to a channel.
// Marking the same submission twice is a no-op.
func MarkSubmissionPosted(db *sql.DB, subreddit, channelID, submissionID string) error {
	stmt, err := db.Prepare(`INSERT OR IGNORE INTO posted_submissions (subreddit, channel_id, submission_id, posted_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare posted submission insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(subreddit, channelID, submissionID, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to record posted submission %s: %w", submissionID, err)
	}
	return nil
}

// GetPostedSubmissionIDs returns the set of submission IDs already published
// to a channel for one subreddit.
func GetPostedSubmissionIDs(db *sql.DB, subreddit, channelID string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT submission_id FROM posted_submissions WHERE subreddit = ? AND channel_id = ?`,
		subreddit, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted submissions for r/%s: %w", subreddit, err)
	}
	defer rows.Close()

	posted := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan posted submission: %w", err)
		}
		posted[id] = true
	}
	return posted, rows.Err()
}

// DeletePostedBefore removes posted submission records older than the cutoff
// and returns how many were deleted.
func DeletePostedBefore(db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM posted_submissions WHERE posted_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old posted submissions: %w", err)
	}
	return res.RowsAffected()
}
