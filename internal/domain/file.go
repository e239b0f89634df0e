package domain

import "time"

// FileRecord is a stored file's metadata. Owned by the upload flow;
// the recommendation core reads it read-only.
type FileRecord struct {
	UserID     string
	Filename   string
	Filepath   string
	Tags       []string
	UploadDate time.Time
}

// SearchHistoryEntry is one append-only search log record.
type SearchHistoryEntry struct {
	UserID    string
	Query     string
	Timestamp time.Time
}
