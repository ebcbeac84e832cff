package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vitalabs/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService wraps Redis for hot-path lookups. The referral capture path
// hits affiliate-by-code on every tagged page view, so those entries are
// cached and invalidated whenever an application changes status.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Affiliate caching

func affiliateCodeKey(code string) string {
	return fmt.Sprintf("affiliate:code:%s", code)
}

// GetAffiliateByCode returns a cached application row, or (nil, false, nil)
// on a miss.
func (s *CacheService) GetAffiliateByCode(ctx context.Context, code string) (*models.AffiliateApplication, bool, error) {
	var app models.AffiliateApplication
	found, err := s.Get(ctx, affiliateCodeKey(code), &app)
	if err != nil || !found {
		return nil, false, err
	}
	return &app, true, nil
}

func (s *CacheService) CacheAffiliate(ctx context.Context, app *models.AffiliateApplication) error {
	if app == nil || app.Code == nil {
		return nil
	}
	return s.Set(ctx, affiliateCodeKey(*app.Code), app)
}

// InvalidateAffiliate drops the code-keyed entry after a status change so
// a declined affiliate stops resolving immediately.
func (s *CacheService) InvalidateAffiliate(ctx context.Context, app *models.AffiliateApplication) error {
	if app == nil || app.Code == nil {
		return nil
	}
	return s.Delete(ctx, affiliateCodeKey(*app.Code))
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *CacheService) Close() error {
	return s.client.Close()
}
