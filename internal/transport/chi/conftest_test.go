package chi

import (
	"context"
	"time"

	"github.com/kailas-cloud/filerec/internal/domain"
	healthuc "github.com/kailas-cloud/filerec/internal/usecase/health"
)

type mockRecommender struct {
	rec   domain.Recommendation
	err   error
	calls int
}

func (m *mockRecommender) Recommend(_ context.Context, userID, query string) (domain.Recommendation, error) {
	m.calls++
	if m.err != nil {
		return domain.Recommendation{}, m.err
	}
	return m.rec, nil
}

type mockFileUpserter struct {
	created bool
	err     error
	last    *domain.FileRecord
}

func (m *mockFileUpserter) Upsert(_ context.Context, rec *domain.FileRecord) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if rec.UploadDate.IsZero() {
		rec.UploadDate = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	m.last = rec
	return m.created, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func okHealth() *mockHealth {
	return &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}
}
