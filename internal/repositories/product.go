package repositories

import (
	"vitalabs/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	Create(product *models.Product) error
	GetBySlug(slug string) (*models.Product, error)
	List(activeOnly bool) ([]*models.Product, error)
	Update(product *models.Product) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *productRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(activeOnly bool) ([]*models.Product, error) {
	var products []*models.Product
	q := r.db.Order("name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}
