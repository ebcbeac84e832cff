package repositories

import (
	"vitalabs/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines persistence for orders, their line items and
// refunds.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByProviderRef(provider, providerOrderID string) (*models.Order, error)
	List(offset, limit int) ([]*models.Order, int64, error)
	CreateRefund(refund *models.Refund) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its line items in one transaction. GORM
// cascades the Items association automatically.
func (r *orderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByProviderRef(provider, providerOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("provider = ? AND provider_order_id = ?", provider, providerOrderID).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(offset, limit int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Items").
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) CreateRefund(refund *models.Refund) error {
	if err := r.db.Create(refund).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}
