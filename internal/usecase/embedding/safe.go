package embedding

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
	"github.com/kailas-cloud/filerec/internal/metrics"
)

// SafeEmbedder is the outermost embedder decorator. It guarantees a usable
// vector on every call: empty input and provider failures both degrade to
// the zero vector, which the ranker scores as 0 against any candidate.
// Embedding failures never abort a recommendation request.
type SafeEmbedder struct {
	inner  domain.Embedder
	dim    int
	logger *zap.Logger
}

// NewSafeEmbedder creates the zero-vector degradation decorator.
// dim is the provider's dimensionality and sizes every fallback vector.
func NewSafeEmbedder(inner domain.Embedder, dim int, logger *zap.Logger) *SafeEmbedder {
	return &SafeEmbedder{inner: inner, dim: dim, logger: logger}
}

// Embed never returns an error.
func (e *SafeEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if strings.TrimSpace(text) == "" {
		// Not worth a provider round-trip; the zero vector is the defined
		// embedding of nothing.
		return domain.EmbeddingResult{Embedding: domain.ZeroVector(e.dim)}, nil
	}

	result, err := e.inner.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("embedding degraded to zero vector",
			zap.String("text", truncate(text, 80)),
			zap.Error(err),
		)
		metrics.EmbeddingFallbacksTotal.Inc()
		return domain.EmbeddingResult{Embedding: domain.ZeroVector(e.dim)}, nil
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
