package repositories

import (
	"vitalabs/internal/models"

	"gorm.io/gorm"
)

// PayoutRepository defines persistence for affiliate payouts.
type PayoutRepository interface {
	Create(payout *models.AffiliatePayout) error
	ListByAffiliate(affiliateID uint) ([]*models.AffiliatePayout, error)
	TotalPaidCents(affiliateID uint) (int64, error)
}

type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new instance of PayoutRepository.
func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(payout *models.AffiliatePayout) error {
	if err := r.db.Create(payout).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *payoutRepository) ListByAffiliate(affiliateID uint) ([]*models.AffiliatePayout, error) {
	var payouts []*models.AffiliatePayout
	err := r.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&payouts).Error
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *payoutRepository) TotalPaidCents(affiliateID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.AffiliatePayout{}).
		Where("affiliate_id = ?", affiliateID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
