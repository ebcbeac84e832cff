// Package referral implements referral capture: resolving an inbound
// ?ref code to an approved affiliate and logging the click.
package referral

import (
	"context"
	"errors"
	"time"

	"vitalabs/internal/metrics"
	"vitalabs/internal/models"
	"vitalabs/internal/repositories"
	"vitalabs/internal/repositories/cache"
	"vitalabs/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownCode is returned when a referral code does not resolve to an
// approved affiliate. Callers fail silently on it: the page responds as
// if no ref param were present.
var ErrUnknownCode = errors.New("unknown referral code")

// Visit describes the request that carried a referral code.
type Visit struct {
	LandingPath string
	Referrer    string
	UserAgent   string
}

type Service interface {
	// Resolve returns the currently approved affiliate for a code, using
	// the cache on the hot path. Codes match case-sensitively.
	Resolve(ctx context.Context, code string) (*models.AffiliateApplication, error)

	// Capture resolves the code and logs an AffiliateClick. The click
	// write is best-effort and never blocks or fails the page response.
	Capture(ctx context.Context, code string, visit Visit) (*models.AffiliateApplication, error)
}

type service struct {
	repo   repositories.AffiliateRepository
	cache  *cache.CacheService
	store  storage.AttributionStore
	logger *zap.Logger
}

// NewService creates a new referral service. cache may be nil when Redis
// is not configured.
func NewService(
	repo repositories.AffiliateRepository,
	cacheSvc *cache.CacheService,
	store storage.AttributionStore,
	logger *zap.Logger,
) Service {
	return &service{
		repo:   repo,
		cache:  cacheSvc,
		store:  store,
		logger: logger,
	}
}

func (s *service) Resolve(ctx context.Context, code string) (*models.AffiliateApplication, error) {
	if code == "" {
		return nil, ErrUnknownCode
	}

	if s.cache != nil {
		if app, found, err := s.cache.GetAffiliateByCode(ctx, code); err == nil && found {
			if !app.IsApproved() {
				return nil, ErrUnknownCode
			}
			return app, nil
		}
	}

	app, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return nil, ErrUnknownCode
		}
		return nil, err
	}
	if !app.IsApproved() {
		return nil, ErrUnknownCode
	}

	if s.cache != nil {
		if err := s.cache.CacheAffiliate(ctx, app); err != nil {
			s.logger.Warn("failed to cache affiliate", zap.String("code", code), zap.Error(err))
		}
	}
	return app, nil
}

func (s *service) Capture(ctx context.Context, code string, visit Visit) (*models.AffiliateApplication, error) {
	app, err := s.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, ErrUnknownCode) {
			metrics.ReferralClicksTotal.WithLabelValues("unknown_code").Inc()
		}
		return nil, err
	}

	click := &models.AffiliateClick{
		ID:          uuid.NewString(),
		AffiliateID: app.ID,
		Code:        code,
		LandingPath: visit.LandingPath,
		Referrer:    visit.Referrer,
		UserAgent:   visit.UserAgent,
		CreatedAt:   time.Now(),
	}

	// Click logging never blocks the page response. A failed write is
	// an accepted undercount.
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.store.RecordClick(writeCtx, click); err != nil {
			metrics.AttributionWritesTotal.WithLabelValues("click", "error").Inc()
			s.logger.Warn("failed to record affiliate click",
				zap.String("code", code),
				zap.Uint("affiliate_id", app.ID),
				zap.Error(err))
			return
		}
		metrics.AttributionWritesTotal.WithLabelValues("click", "ok").Inc()
	}()

	metrics.ReferralClicksTotal.WithLabelValues("captured").Inc()
	return app, nil
}
