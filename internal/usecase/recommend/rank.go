package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
)

type scoredFile struct {
	filename string
	score    float64
}

// rankFiles scores the user's files against the query and returns up to TopK
// filenames, best first. Exact tag matches score 1.0 without touching the
// embedding provider; everything else is cosine similarity between the
// normalized query text and the file's normalized tag text.
func (s *Service) rankFiles(ctx context.Context, userID, query string, tokens []string) ([]string, error) {
	records, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("rank files: %w", err)
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	queryLower := strings.ToLower(query)
	queryText := strings.Join(tokens, " ")

	var queryVec []float32
	embedQuery := func() []float32 {
		if queryVec == nil {
			res, err := s.embedder.Embed(ctx, queryText)
			if err != nil {
				s.logger.Warn("query embedding failed", zap.Error(err))
				res.Embedding = nil
			}
			queryVec = res.Embedding
			if queryVec == nil {
				queryVec = []float32{}
			}
		}
		return queryVec
	}

	scored := make([]scoredFile, 0, len(records))
	for _, rec := range records {
		score, ok := s.scoreFile(ctx, &rec, queryLower, embedQuery)
		if !ok || score < s.opts.MinScore {
			continue
		}
		scored = append(scored, scoredFile{filename: rec.Filename, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	n := len(scored)
	if s.opts.TopK > 0 && n > s.opts.TopK {
		n = s.opts.TopK
	}
	out := make([]string, n)
	for i := range out {
		out[i] = scored[i].filename
	}
	return out, nil
}

// scoreFile returns the relevance of one file. ok=false drops the candidate
// entirely (no usable tags, or its embedding failed).
func (s *Service) scoreFile(ctx context.Context, rec *domain.FileRecord, queryLower string, embedQuery func() []float32) (float64, bool) {
	for _, t := range rec.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == queryLower {
			return 1.0, true
		}
	}

	tagText := s.norm.Text(rec.Tags)
	if tagText == "" {
		return 0, false
	}

	res, err := s.embedder.Embed(ctx, tagText)
	if err != nil {
		s.logger.Warn("file embedding failed, skipping candidate",
			zap.String("filename", rec.Filename), zap.Error(err))
		return 0, false
	}

	return domain.CosineSimilarity(embedQuery(), res.Embedding), true
}
