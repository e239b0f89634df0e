package recommend

import (
	"context"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
)

type mockFiles struct {
	records []domain.FileRecord
	err     error
	calls   int
}

func (m *mockFiles) ListByUser(context.Context, string) ([]domain.FileRecord, error) {
	m.calls++
	return m.records, m.err
}

type mockHistory struct {
	appended []string
	err      error
}

func (m *mockHistory) Append(_ context.Context, _, query string, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, query)
	return nil
}

type mockImages struct {
	images []domain.ImageDescriptor
	calls  int
}

func (m *mockImages) Images(context.Context, string, string) []domain.ImageDescriptor {
	m.calls++
	return m.images
}

// mockEmbedder maps exact input text to fixed vectors. Unknown inputs get
// the zero vector, mirroring the degraded embedder's behavior.
type mockEmbedder struct {
	vectors map[string][]float32
	dim     int
	calls   int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if v, ok := m.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: v}, nil
	}
	return domain.EmbeddingResult{Embedding: domain.ZeroVector(m.dim)}, nil
}
