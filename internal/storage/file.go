package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"vitalabs/internal/models"
)

const (
	clicksFile = "affiliate-clicks.json"
	ordersFile = "order-affiliates.json"
)

// FileStore keeps attribution rows in two flat JSON documents under a local
// directory. It is a degraded-capacity fallback for deployments without a
// database, not a cache: nothing synchronizes it with the Postgres store.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) RecordClick(ctx context.Context, click *models.AffiliateClick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clicks []models.AffiliateClick
	if err := s.load(clicksFile, &clicks); err != nil {
		return err
	}
	clicks = append(clicks, *click)
	return s.save(clicksFile, clicks)
}

func (s *FileStore) RecordOrderAffiliate(ctx context.Context, oa *models.OrderAffiliate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.OrderAffiliate
	if err := s.load(ordersFile, &orders); err != nil {
		return err
	}
	orders = append(orders, *oa)
	return s.save(ordersFile, orders)
}

// Stats reads both documents into memory and filters in-process. The result
// shape is identical to the Postgres store's.
func (s *FileStore) Stats(ctx context.Context, affiliateID uint, now time.Time) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clicks []models.AffiliateClick
	if err := s.load(clicksFile, &clicks); err != nil {
		return nil, err
	}
	var orders []models.OrderAffiliate
	if err := s.load(ordersFile, &orders); err != nil {
		return nil, err
	}

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
		for _, c := range clicks {
			if c.AffiliateID != affiliateID {
				continue
			}
			if w.since.IsZero() || !c.CreatedAt.Before(w.since) {
				w.dest.Clicks++
			}
		}
		for _, o := range orders {
			if o.AffiliateID != affiliateID || o.IsPersonalPurchase {
				continue
			}
			if w.since.IsZero() || !o.CreatedAt.Before(w.since) {
				w.dest.Conversions++
				w.dest.RevenueCents += o.AmountCents
			}
		}
	}
	return stats, nil
}

func (s *FileStore) load(name string, dest interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// save writes through a temp file and renames so readers never observe a
// partially written document.
func (s *FileStore) save(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
