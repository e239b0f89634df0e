package file

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// buildHashFields converts a FileRecord into a flat map[string]string for HSET.
func buildHashFields(rec *domain.FileRecord) map[string]string {
	tags, _ := json.Marshal(rec.Tags)
	return map[string]string{
		"filename":    rec.Filename,
		"filepath":    rec.Filepath,
		"tags":        string(tags),
		"upload_date": rec.UploadDate.UTC().Format(time.RFC3339),
	}
}

// parseHashFields converts a flat hash map back into a FileRecord.
// Malformed tags JSON yields an empty tag list; the ranker then drops the
// candidate as having empty normalized tag text instead of failing the request.
func parseHashFields(userID, filename string, m map[string]string) domain.FileRecord {
	rec := domain.FileRecord{
		UserID:   userID,
		Filename: filename,
		Filepath: m["filepath"],
	}
	if name := m["filename"]; name != "" {
		rec.Filename = name
	}
	if raw := m["tags"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &rec.Tags)
	}
	if ts, err := time.Parse(time.RFC3339, m["upload_date"]); err == nil {
		rec.UploadDate = ts
	}
	return rec
}
