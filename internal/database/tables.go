package database

import (
	"database/sql"
	"fmt"
)

// initDownloadsTable initializes the download history table.
func initDownloadsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        target TEXT NOT NULL,
        output_path TEXT,
        kind TEXT NOT NULL,
        status TEXT NOT NULL CHECK(status IN ('completed', 'failed', 'stopped')),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_downloads_target ON downloads(target);
    CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create downloads table: %w", err)
	}
	return nil
}

// initUploadsTable initializes the upload history table.
func initUploadsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS uploads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        local_path TEXT NOT NULL,
        remote_url TEXT,
        status TEXT NOT NULL CHECK(status IN ('completed', 'failed')),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create uploads table: %w", err)
	}
	return nil
}
