package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"vitalabs/internal/models"

	_ "github.com/lib/pq"
)

// PostgresStore runs attribution reads and writes on a dedicated pooled
// connection, separate from the ORM used for the rest of the schema.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a pooled connection against databaseURL and
// verifies it with a ping.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open attribution pool: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping attribution pool: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) RecordClick(ctx context.Context, click *models.AffiliateClick) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO affiliate_clicks (id, affiliate_id, code, landing_path, referrer, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		click.ID, click.AffiliateID, click.Code, click.LandingPath,
		click.Referrer, click.UserAgent, click.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecordOrderAffiliate(ctx context.Context, oa *models.OrderAffiliate) error {
	meta, err := json.Marshal(oa.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal attribution metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO order_affiliates
		 (id, provider, order_id, affiliate_id, code, amount_cents, currency, commission_cents, is_personal_purchase, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		oa.ID, oa.Provider, oa.OrderID, oa.AffiliateID, oa.Code,
		oa.AmountCents, oa.Currency, oa.CommissionCents, oa.IsPersonalPurchase,
		meta, oa.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record order attribution: %w", err)
	}
	return nil
}

// Stats runs one pair of count/sum queries per window. Personal purchases
// are excluded from both conversion counts and revenue.
func (s *PostgresStore) Stats(ctx context.Context, affiliateID uint, now time.Time) (*Stats, error) {
	today, sevenDays, thirtyDays := windowStarts(now)

	stats := &Stats{}
	windows := []struct {
		since time.Time
		dest  *WindowStats
	}{
		{today, &stats.Today},
		{sevenDays, &stats.SevenDays},
		{thirtyDays, &stats.ThirtyDays},
		{time.Time{}, &stats.AllTime},
	}

	for _, w := range windows {
		ws, err := s.window(ctx, affiliateID, w.since)
		if err != nil {
			return nil, err
		}
		*w.dest = ws
	}
	return stats, nil
}

func (s *PostgresStore) window(ctx context.Context, affiliateID uint, since time.Time) (WindowStats, error) {
	var ws WindowStats

	clickQuery := `SELECT COUNT(*) FROM affiliate_clicks WHERE affiliate_id = $1`
	orderQuery := `SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)
	               FROM order_affiliates
	               WHERE affiliate_id = $1 AND NOT is_personal_purchase`

	args := []interface{}{affiliateID}
	if !since.IsZero() {
		clickQuery += ` AND created_at >= $2`
		orderQuery += ` AND created_at >= $2`
		args = append(args, since)
	}

	if err := s.db.QueryRowContext(ctx, clickQuery, args...).Scan(&ws.Clicks); err != nil {
		return ws, fmt.Errorf("failed to count clicks: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, orderQuery, args...).Scan(&ws.Conversions, &ws.RevenueCents); err != nil {
		return ws, fmt.Errorf("failed to sum conversions: %w", err)
	}
	return ws, nil
}
