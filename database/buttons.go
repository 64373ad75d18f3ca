package database

import (
	"database/sql"
	"fmt"
)

// ButtonNames lists every link button the publisher can attach, in the order
// they are seeded and presented.
var ButtonNames = []string{
	"Reddit Post",
	"Watch Video",
	"RedGIFs",
	"YouTube Link",
	"Image Gallery",
	"Web Link",
}

// GetButtonVisibility returns the visibility flag for every known button.
func GetButtonVisibility(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT button_name, is_visible FROM button_visibility`)
	if err != nil {
		return nil, fmt.Errorf("failed to query button visibility: %w", err)
	}
	defer rows.Close()

	visibility := make(map[string]bool)
	for rows.Next() {
		var name string
		var visible bool
		if err := rows.Scan(&name, &visible); err != nil {
			return nil, fmt.Errorf("failed to scan button visibility: %w", err)
		}
		visibility[name] = visible
	}
	return visibility, rows.Err()
}

// SetButtonVisibility updates one button flag. It returns false when the
// button name is not a known button.
func SetButtonVisibility(db *sql.DB, name string, visible bool) (bool, error) {
	res, err := db.Exec(`UPDATE button_visibility SET is_visible = ? WHERE button_name = ?`, visible, name)
	if err != nil {
		return false, fmt.Errorf("failed to update visibility for button %q: %w", name, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SetAllButtonVisibility updates every button flag at once.
func SetAllButtonVisibility(db *sql.DB, visible bool) error {
	if _, err := db.Exec(`UPDATE button_visibility SET is_visible = ?`, visible); err != nil {
		return fmt.Errorf("failed to update visibility for all buttons: %w", err)
	}
	return nil
}
