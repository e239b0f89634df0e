package imagecache

import (
	"strconv"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// buildHashFields converts a descriptor into a flat map[string]string for HSET.
func buildHashFields(query string, d *domain.ImageDescriptor, ts time.Time) map[string]string {
	return map[string]string{
		"url":    d.URL,
		"alt":    d.Alt,
		"source": d.Source,
		"title":  d.Title,
		"query":  query,
		"ts":     strconv.FormatInt(ts.Unix(), 10),
	}
}

// parseHashFields converts a flat hash map back into a descriptor.
func parseHashFields(m map[string]string) domain.ImageDescriptor {
	d := domain.ImageDescriptor{
		URL:    m["url"],
		Alt:    m["alt"],
		Source: m["source"],
		Title:  m["title"],
	}
	if unix, err := strconv.ParseInt(m["ts"], 10, 64); err == nil {
		d.Timestamp = time.Unix(unix, 0).UTC()
	}
	return d
}
