package repositories

import (
	"time"

	"vitalabs/internal/models"

	"gorm.io/gorm"
)

// APIKeyRepository defines persistence for affiliate API keys. At most one
// non-revoked key exists per affiliate; RevokeActive enforces that before
// a new key is created.
type APIKeyRepository interface {
	Create(key *models.AffiliateAPIKey) error
	ActiveByAffiliate(affiliateID uint) (*models.AffiliateAPIKey, error)
	ActiveByHash(hash string) (*models.AffiliateAPIKey, error)
	RevokeActive(affiliateID uint) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new instance of APIKeyRepository.
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(key *models.AffiliateAPIKey) error {
	if err := r.db.Create(key).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *apiKeyRepository) ActiveByAffiliate(affiliateID uint) (*models.AffiliateAPIKey, error) {
	var key models.AffiliateAPIKey
	err := r.db.Where("affiliate_id = ? AND revoked_at IS NULL", affiliateID).
		First(&key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

// ActiveByHash only matches non-revoked keys; a revoked key fails lookup
// regardless of hash match.
func (r *apiKeyRepository) ActiveByHash(hash string) (*models.AffiliateAPIKey, error) {
	var key models.AffiliateAPIKey
	err := r.db.Where("key_hash = ? AND revoked_at IS NULL", hash).
		First(&key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepository) RevokeActive(affiliateID uint) error {
	now := time.Now()
	return r.db.Model(&models.AffiliateAPIKey{}).
		Where("affiliate_id = ? AND revoked_at IS NULL", affiliateID).
		Update("revoked_at", now).Error
}
