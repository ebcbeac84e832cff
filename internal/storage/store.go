// Package storage persists referral clicks and order attributions and
// computes per-affiliate rollups over fixed time windows. Two backends
// implement the same interface: a pooled Postgres store and a flat-file
// JSON store for deployments without a database. The backend is chosen
// once at startup; there is no runtime fallthrough between them, so an
// environment must run one backend consistently.
package storage

import (
	"context"
	"time"

	"vitalabs/internal/models"
)

// AttributionStore is the single abstraction over attribution persistence.
// RecordClick and RecordOrderAffiliate are called on best-effort paths:
// callers log failures and move on, so neither write may be assumed durable.
type AttributionStore interface {
	RecordClick(ctx context.Context, click *models.AffiliateClick) error
	RecordOrderAffiliate(ctx context.Context, oa *models.OrderAffiliate) error
	Stats(ctx context.Context, affiliateID uint, now time.Time) (*Stats, error)
	Close() error
}

// WindowStats is one window of the rollup. Conversions and revenue exclude
// rows flagged as personal purchases.
type WindowStats struct {
	Clicks       int64 `json:"clicks"`
	Conversions  int64 `json:"conversions"`
	RevenueCents int64 `json:"revenue_cents"`
}

// Stats is the four-window rollup returned to affiliate dashboards.
type Stats struct {
	Today      WindowStats `json:"today"`
	SevenDays  WindowStats `json:"seven_days"`
	ThirtyDays WindowStats `json:"thirty_days"`
	AllTime    WindowStats `json:"all_time"`
}

// windowStarts returns the lower bounds of the bounded windows relative to
// now: local midnight for today, and trailing 7/30 day marks. The all-time
// window has no lower bound.
func windowStarts(now time.Time) (today, sevenDays, thirtyDays time.Time) {
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sevenDays = now.AddDate(0, 0, -7)
	thirtyDays = now.AddDate(0, 0, -30)
	return today, sevenDays, thirtyDays
}
