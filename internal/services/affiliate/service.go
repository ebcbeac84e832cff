// Package affiliate manages the affiliate program: applications, approval
// lifecycle, payouts and API keys.
package affiliate

import (
	"context"
	"errors"
	"fmt"

	"vitalabs/internal/models"
	"vitalabs/internal/repositories"
	"vitalabs/internal/repositories/cache"
	"vitalabs/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrAlreadyApplied    = errors.New("an application already exists for this email")
	ErrNotPending        = errors.New("application is not pending")
	ErrNotApproved       = errors.New("affiliate is not approved")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const referralCodeLength = 8

type Service interface {
	// Apply submits a pending application. userID, when the applicant is
	// logged in, links the application to their account so approval can
	// promote it.
	Apply(ctx context.Context, name, email string, userID *uint) (*models.AffiliateApplication, error)
	Get(ctx context.Context, id uint) (*models.AffiliateApplication, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.AffiliateApplication, int64, error)

	// Approve assigns a referral code on first approval. A previously
	// assigned code is kept: codes are stable for the life of the entity
	// and are never reassigned.
	Approve(ctx context.Context, id uint) (*models.AffiliateApplication, error)
	Decline(ctx context.Context, id uint) (*models.AffiliateApplication, error)

	RecordPayout(ctx context.Context, payout *models.AffiliatePayout) error
	ListPayouts(ctx context.Context, affiliateID uint) ([]*models.AffiliatePayout, error)
}

type service struct {
	repo    repositories.AffiliateRepository
	payouts repositories.PayoutRepository
	users   repositories.UserRepository
	cache   *cache.CacheService
	logger  *zap.Logger
}

// NewService creates a new affiliate service. cache may be nil.
func NewService(
	repo repositories.AffiliateRepository,
	payouts repositories.PayoutRepository,
	users repositories.UserRepository,
	cacheSvc *cache.CacheService,
	logger *zap.Logger,
) Service {
	return &service{
		repo:    repo,
		payouts: payouts,
		users:   users,
		cache:   cacheSvc,
		logger:  logger,
	}
}

func (s *service) Apply(ctx context.Context, name, email string, userID *uint) (*models.AffiliateApplication, error) {
	existing, err := s.repo.GetByEmail(email)
	if err != nil && !errors.Is(err, repositories.ErrAffiliateNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyApplied
	}

	app := &models.AffiliateApplication{
		Name:           name,
		Email:          email,
		Status:         models.AffiliateStatusPending,
		CommissionRate: 0.10,
		UserID:         userID,
	}
	if err := s.repo.Create(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.AffiliateApplication, error) {
	return s.repo.GetByID(id)
}

func (s *service) List(ctx context.Context, status string, offset, limit int) ([]*models.AffiliateApplication, int64, error) {
	return s.repo.List(status, offset, limit)
}

func (s *service) Approve(ctx context.Context, id uint) (*models.AffiliateApplication, error) {
	app, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app.Status == models.AffiliateStatusApproved {
		return app, nil
	}

	if app.Code == nil {
		code, err := s.uniqueCode()
		if err != nil {
			return nil, err
		}
		app.Code = &code
	}
	app.Status = models.AffiliateStatusApproved

	// Applications submitted while logged out are linked here by matching
	// the account registered under the same email.
	if app.UserID == nil {
		if user, err := s.users.GetByEmail(app.Email); err == nil {
			app.UserID = &user.ID
		}
	}

	if err := s.repo.Update(app); err != nil {
		return nil, err
	}
	s.invalidate(ctx, app)
	s.promoteUser(app)
	return app, nil
}

func (s *service) Decline(ctx context.Context, id uint) (*models.AffiliateApplication, error) {
	app, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app.Status == models.AffiliateStatusDeclined {
		return app, nil
	}

	// The code, if one was ever assigned, stays on the row. Resolution
	// checks current status, so a declined affiliate stops attributing
	// immediately without losing their code.
	app.Status = models.AffiliateStatusDeclined
	if err := s.repo.Update(app); err != nil {
		return nil, err
	}
	s.invalidate(ctx, app)
	return app, nil
}

func (s *service) RecordPayout(ctx context.Context, payout *models.AffiliatePayout) error {
	app, err := s.repo.GetByID(payout.AffiliateID)
	if err != nil {
		return err
	}
	if !app.IsApproved() {
		return ErrNotApproved
	}
	if payout.AmountCents <= 0 {
		return fmt.Errorf("payout amount must be positive")
	}
	return s.payouts.Create(payout)
}

func (s *service) ListPayouts(ctx context.Context, affiliateID uint) ([]*models.AffiliatePayout, error) {
	return s.payouts.ListByAffiliate(affiliateID)
}

func (s *service) uniqueCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateReferralCode(referralCodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.repo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique referral code")
}

func (s *service) invalidate(ctx context.Context, app *models.AffiliateApplication) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAffiliate(ctx, app); err != nil {
		s.logger.Warn("failed to invalidate affiliate cache",
			zap.Uint("affiliate_id", app.ID), zap.Error(err))
	}
}

// promoteUser flips the linked account to the affiliate role so session
// auth can reach the dashboard endpoints.
func (s *service) promoteUser(app *models.AffiliateApplication) {
	if app.UserID == nil {
		return
	}
	user, err := s.users.GetByID(*app.UserID)
	if err != nil {
		s.logger.Warn("approved affiliate has no user account",
			zap.Uint("affiliate_id", app.ID), zap.Error(err))
		return
	}
	user.Role = models.RoleAffiliate
	user.AffiliateID = &app.ID
	if err := s.users.Update(user); err != nil {
		s.logger.Warn("failed to promote user to affiliate role",
			zap.Uint("user_id", user.ID), zap.Error(err))
	}
}
