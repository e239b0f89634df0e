package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
	"github.com/kailas-cloud/filerec/internal/domain/tag"
)

// Options holds ranking policy knobs.
type Options struct {
	// TopK caps the number of local files returned.
	TopK int
	// MinScore drops candidates below this cosine similarity. Exact tag
	// matches score 1.0 and always clear it.
	MinScore float64
}

// Service orchestrates a recommendation: validate, rank the user's files by
// tag similarity, attach external images, then record the query.
type Service struct {
	files    FileReader
	history  HistoryWriter
	images   ImageProvider
	embedder domain.Embedder
	norm     *tag.Normalizer
	opts     Options
	logger   *zap.Logger
}

// New creates the recommendation service.
func New(
	files FileReader,
	history HistoryWriter,
	images ImageProvider,
	embedder domain.Embedder,
	norm *tag.Normalizer,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		files:    files,
		history:  history,
		images:   images,
		embedder: embedder,
		norm:     norm,
		opts:     opts,
		logger:   logger,
	}
}

// Recommend handles one query for one user.
//
// An empty userID or query is a validation error. A query that normalizes to
// nothing (all stopwords or short tokens) is a successful empty result and
// touches no stores. Image retrieval and history recording never fail the
// request.
func (s *Service) Recommend(ctx context.Context, userID, query string) (domain.Recommendation, error) {
	userID = strings.TrimSpace(userID)
	query = strings.TrimSpace(query)
	if userID == "" {
		return domain.Recommendation{}, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	if query == "" {
		return domain.Recommendation{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	tokens := s.norm.Query(query)
	if len(tokens) == 0 {
		return domain.Recommendation{LocalFiles: []string{}, ExternalImages: []domain.ImageDescriptor{}}, nil
	}

	localFiles, err := s.rankFiles(ctx, userID, query, tokens)
	if err != nil {
		return domain.Recommendation{}, err
	}

	// External retrieval keys off the normalized query so trivially different
	// phrasings of the same search share one cache entry.
	images := s.images.Images(ctx, strings.Join(tokens, " "), userID)
	if images == nil {
		images = []domain.ImageDescriptor{}
	}

	if err := s.history.Append(ctx, userID, query, time.Now().UTC()); err != nil {
		// History feeds future preference aggregation only; losing one
		// entry must not fail the served recommendation.
		s.logger.Warn("history append failed",
			zap.String("user_id", userID), zap.Error(err))
	}

	return domain.Recommendation{LocalFiles: localFiles, ExternalImages: images}, nil
}
