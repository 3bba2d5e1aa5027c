package services

import (
	"context"

	"Gin_postgres_redis_local_library/models"

	"github.com/pkg/errors"
)

type CatalogCounter interface {
	CatalogCounts(ctx context.Context) (models.CatalogCounts, error)
}

// VisitCounter bumps the per-session visit counter and returns the new value.
// A session that never counted starts from 0.
type VisitCounter interface {
	IncrVisits(ctx context.Context, sessionID string) (int64, error)
}

type Summary struct {
	models.CatalogCounts
	NumVisits int64 `json:"num_visits"`
}

type SummaryService struct {
	counts CatalogCounter
	visits VisitCounter
}

func NewSummaryService(counts CatalogCounter, visits VisitCounter) *SummaryService {
	return &SummaryService{counts: counts, visits: visits}
}

// Summary shows the visits counted before this view, so the first view in a
// session shows 0 and leaves 1 behind.
func (s *SummaryService) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	counts, err := s.counts.CatalogCounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count catalog")
	}
	n, err := s.visits.IncrVisits(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "count visit")
	}
	return &Summary{CatalogCounts: counts, NumVisits: n - 1}, nil
}
