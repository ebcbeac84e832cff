package repositories

import (
	"vitalabs/internal/models"

	"gorm.io/gorm"
)

// AffiliateRepository defines persistence for affiliate applications.
type AffiliateRepository interface {
	Create(app *models.AffiliateApplication) error
	GetByID(id uint) (*models.AffiliateApplication, error)
	GetByEmail(email string) (*models.AffiliateApplication, error)
	GetByCode(code string) (*models.AffiliateApplication, error)
	List(status string, offset, limit int) ([]*models.AffiliateApplication, int64, error)
	Update(app *models.AffiliateApplication) error
	CodeExists(code string) (bool, error)
}

type affiliateRepository struct {
	db *gorm.DB
}

// NewAffiliateRepository creates a new instance of AffiliateRepository.
func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

func (r *affiliateRepository) Create(app *models.AffiliateApplication) error {
	if err := r.db.Create(app).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *affiliateRepository) GetByID(id uint) (*models.AffiliateApplication, error) {
	var app models.AffiliateApplication
	if err := r.db.First(&app, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *affiliateRepository) GetByEmail(email string) (*models.AffiliateApplication, error) {
	var app models.AffiliateApplication
	if err := r.db.Where("email = ?", email).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}
	return &app, nil
}

// GetByCode matches codes case-sensitively; postgres text comparison is
// already case-sensitive so no extra collation handling is needed.
func (r *affiliateRepository) GetByCode(code string) (*models.AffiliateApplication, error) {
	var app models.AffiliateApplication
	if err := r.db.Where("code = ?", code).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAffiliateNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *affiliateRepository) List(status string, offset, limit int) ([]*models.AffiliateApplication, int64, error) {
	var apps []*models.AffiliateApplication
	var total int64

	q := r.db.Model(&models.AffiliateApplication{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *affiliateRepository) Update(app *models.AffiliateApplication) error {
	return r.db.Save(app).Error
}

func (r *affiliateRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.AffiliateApplication{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
