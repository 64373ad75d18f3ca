package database

import (
	"database/sql"
	"fmt"
	"os"
)

// Stats summarizes what the bot is tracking and how large the database file
// has grown.
type Stats struct {
	Subscriptions                int
	ForumSubscriptions           int
	IndividualForumSubscriptions int
	PostedSubmissions            int
	FileSizeBytes                int64
}

func countRows(db *sql.DB, table string) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// GetStats collects row counts for every tracked table plus the on-disk size
// of the database file.
func GetStats(db *sql.DB, dbPath string) (Stats, error) {
	var stats Stats
	var err error

	if stats.Subscriptions, err = countRows(db, "subscriptions"); err != nil {
		return stats, err
	}
	if stats.ForumSubscriptions, err = countRows(db, "forum_subscriptions"); err != nil {
		return stats, err
	}
	if stats.IndividualForumSubscriptions, err = countRows(db, "individual_forum_subscriptions"); err != nil {
		return stats, err
	}
	if stats.PostedSubmissions, err = countRows(db, "posted_submissions"); err != nil {
		return stats, err
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return stats, fmt.Errorf("failed to stat database file: %w", err)
	}
	stats.FileSizeBytes = info.Size()

	return stats, nil
}

// CheckIntegrity runs the SQLite integrity check and returns its verdict,
// which is "ok" for a healthy database.
func CheckIntegrity(db *sql.DB) (string, error) {
	var result string
	if err := db.QueryRow(`PRAGMA integrity_check`).Scan(&result); err != nil {
		return "", fmt.Errorf("failed to run integrity check: %w", err)
	}
	return result, nil
}

// Vacuum rebuilds the database file to reclaim free pages.
func Vacuum(db *sql.DB) error {
	if _, err := db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}
