package models

import (
	"time"
)

// Product is a catalog row. Checkout line items snapshot product data at
// purchase time, so editing a product never rewrites past orders.
type Product struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name           string    `gorm:"not null" json:"name"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	Sizes          JSON      `gorm:"type:jsonb" json:"sizes,omitempty"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
