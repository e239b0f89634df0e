package prefs

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain/tag"
)

// Service derives a user's preference tags from recent search history.
type Service struct {
	history HistoryReader
	norm    *tag.Normalizer
	window  int
	logger  *zap.Logger
}

// New creates a preference aggregator reading the window most recent queries.
func New(history HistoryReader, norm *tag.Normalizer, window int, logger *zap.Logger) *Service {
	return &Service{history: history, norm: norm, window: window, logger: logger}
}

// Tags returns the deduplicated union of normalized tokens across the user's
// recent queries, in first-seen order (newest query first). A user without
// history, or a failed lookup, yields an empty slice -- never an error.
func (s *Service) Tags(ctx context.Context, userID string) []string {
	queries, err := s.history.Recent(ctx, userID, s.window)
	if err != nil {
		s.logger.Warn("preference lookup failed, continuing without preferences",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, q := range queries {
		for _, token := range s.norm.Query(q) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tags = append(tags, token)
		}
	}
	return tags
}
