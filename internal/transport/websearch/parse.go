package websearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/filerec/internal/domain"
)

// resultMeta is the per-thumbnail metadata blob Bing embeds in the "m"
// attribute of each result anchor.
type resultMeta struct {
	MediaURL string `json:"murl"`
	PageURL  string `json:"purl"`
	Title    string `json:"t"`
}

// parseResults extracts up to max image descriptors from a search results
// page. Anchors with a metadata blob are preferred; plain <img> tags with an
// alt text serve as a fallback for simpler result markup. Candidates that
// fail to parse are skipped, not errors.
func parseResults(body []byte, max int) ([]domain.ImageDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	now := time.Now().UTC()
	descriptors := make([]domain.ImageDescriptor, 0, max)

	doc.Find("a.iusc").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw, ok := sel.Attr("m")
		if !ok {
			return true
		}
		var meta resultMeta
		if json.Unmarshal([]byte(raw), &meta) != nil || meta.MediaURL == "" {
			return true
		}
		descriptors = append(descriptors, domain.ImageDescriptor{
			URL:       meta.MediaURL,
			Alt:       meta.Title,
			Source:    hostOf(meta.PageURL),
			Title:     meta.Title,
			Timestamp: now,
		})
		return len(descriptors) < max
	})

	if len(descriptors) < max {
		doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			src, _ := sel.Attr("src")
			alt, _ := sel.Attr("alt")
			if src == "" || alt == "" || containsURL(descriptors, src) {
				return true
			}
			title, ok := sel.Attr("title")
			if !ok {
				title = alt
			}
			descriptors = append(descriptors, domain.ImageDescriptor{
				URL:       src,
				Alt:       alt,
				Source:    hostOf(src),
				Title:     title,
				Timestamp: now,
			})
			return len(descriptors) < max
		})
	}

	return descriptors, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func containsURL(descriptors []domain.ImageDescriptor, url string) bool {
	for _, d := range descriptors {
		if d.URL == url {
			return true
		}
	}
	return false
}
