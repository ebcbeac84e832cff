package attribution

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitalabs/internal/models"
	"vitalabs/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	stats    *storage.Stats
	statsErr error
	orderOAs []*models.OrderAffiliate
}

func (f *fakeStore) RecordClick(ctx context.Context, click *models.AffiliateClick) error { return nil }

func (f *fakeStore) RecordOrderAffiliate(ctx context.Context, oa *models.OrderAffiliate) error {
	f.orderOAs = append(f.orderOAs, oa)
	return nil
}

func (f *fakeStore) Stats(ctx context.Context, affiliateID uint, now time.Time) (*storage.Stats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeStore) Close() error { return nil }

func TestGetStats(t *testing.T) {
	want := &storage.Stats{
		Today:   storage.WindowStats{Clicks: 2, Conversions: 1, RevenueCents: 3000},
		AllTime: storage.WindowStats{Clicks: 10, Conversions: 4, RevenueCents: 12000},
	}
	svc := NewStatsService(&fakeStore{stats: want}, zap.NewNop())

	got, err := svc.GetStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// A store outage degrades the dashboard to all zeros instead of a 500.
func TestGetStats_StoreFailureDegradesToZero(t *testing.T) {
	svc := NewStatsService(&fakeStore{statsErr: errors.New("connection refused")}, zap.NewNop())

	got, err := svc.GetStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &storage.Stats{}, got)
}
