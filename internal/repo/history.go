// Package repo performs database repository operations.
package repo

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

// HistoryStore records finished downloads and uploads.
type HistoryStore struct {
	DB *sql.DB
}

// GetHistoryStore returns a history store with injected database.
func GetHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{DB: db}
}

// DownloadRecord is one row of download history.
type DownloadRecord struct {
	ID         int64
	Target     string
	OutputPath string
	Kind       models.JobKind
	Status     models.JobStatus
	CreatedAt  time.Time
}

// UploadRecord is one row of upload history.
type UploadRecord struct {
	ID        int64
	LocalPath string
	RemoteURL string
	Status    models.JobStatus
	CreatedAt time.Time
}

// RecordDownload appends a finished download to history.
func (hs *HistoryStore) RecordDownload(target, outputPath string, kind models.JobKind, status models.JobStatus) error {
	query := squirrel.
		Insert(consts.DBDownloads).
		Columns(consts.QDLTarget, consts.QDLOutputPath, consts.QDLKind, consts.QDLStatus, consts.QDLCreatedAt).
		Values(target, outputPath, string(kind), string(status), time.Now()).
		RunWith(hs.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to record download for %q: %w", target, err)
	}
	return nil
}

// RecordUpload appends a finished upload to history.
func (hs *HistoryStore) RecordUpload(localPath, remoteURL string, status models.JobStatus) error {
	query := squirrel.
		Insert(consts.DBUploads).
		Columns(consts.QULLocalPath, consts.QULRemoteURL, consts.QULStatus, consts.QULCreatedAt).
		Values(localPath, remoteURL, string(status), time.Now()).
		RunWith(hs.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to record upload for %q: %w", localPath, err)
	}
	return nil
}

// RecentDownloads returns up to limit download records, newest first.
func (hs *HistoryStore) RecentDownloads(limit int) ([]DownloadRecord, error) {
	query := squirrel.
		Select(consts.QDLID, consts.QDLTarget, consts.QDLOutputPath, consts.QDLKind, consts.QDLStatus, consts.QDLCreatedAt).
		From(consts.DBDownloads).
		OrderBy(consts.QDLCreatedAt + " DESC").
		Limit(uint64(limit)).
		RunWith(hs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query download history: %w", err)
	}
	defer rows.Close()

	var records []DownloadRecord
	for rows.Next() {
		var r DownloadRecord
		var outputPath sql.NullString
		if err := rows.Scan(&r.ID, &r.Target, &outputPath, &r.Kind, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download history row: %w", err)
		}
		r.OutputPath = outputPath.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecentUploads returns up to limit upload records, newest first.
func (hs *HistoryStore) RecentUploads(limit int) ([]UploadRecord, error) {
	query := squirrel.
		Select(consts.QULID, consts.QULLocalPath, consts.QULRemoteURL, consts.QULStatus, consts.QULCreatedAt).
		From(consts.DBUploads).
		OrderBy(consts.QULCreatedAt + " DESC").
		Limit(uint64(limit)).
		RunWith(hs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query upload history: %w", err)
	}
	defer rows.Close()

	var records []UploadRecord
	for rows.Next() {
		var r UploadRecord
		var remoteURL sql.NullString
		if err := rows.Scan(&r.ID, &r.LocalPath, &remoteURL, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload history row: %w", err)
		}
		r.RemoteURL = remoteURL.String
		records = append(records, r)
	}
	return records, rows.Err()
}
