package models

import (
	"time"
)

// Payment providers
const (
	ProviderStripe   = "stripe"
	ProviderCoinbase = "coinbase"
)

// Order is the generic order record, independent of affiliate attribution.
// It is keyed by provider + provider order id; the provider's session or
// charge id is the natural idempotency key.
type Order struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	Provider        string      `gorm:"not null;index:idx_orders_provider_ref" json:"provider"`
	ProviderOrderID string      `gorm:"not null;index:idx_orders_provider_ref" json:"provider_order_id"`
	Email           string      `gorm:"index" json:"email"`
	AmountCents     int64       `gorm:"not null" json:"amount_cents"`
	Currency        string      `gorm:"not null;default:'usd'" json:"currency"`
	Autoship        bool        `gorm:"not null;default:false" json:"autoship"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a per-line snapshot of what was bought, frozen at checkout
// time so later catalog edits do not rewrite history.
type OrderItem struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	OrderID        uint   `gorm:"not null;index" json:"order_id"`
	ProductID      string `gorm:"not null" json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `gorm:"not null" json:"unit_price_cents"`
	Quantity       int64  `gorm:"not null" json:"quantity"`
	Size           string `json:"size"`
	Plan           string `json:"plan"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Refund records a provider-side refund against an order.
type Refund struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	Provider         string    `gorm:"not null" json:"provider"`
	ProviderRefundID string    `json:"provider_refund_id"`
	AmountCents      int64     `gorm:"not null" json:"amount_cents"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Refund) TableName() string {
	return "refunds"
}

// OrderAffiliate links a checkout session to the affiliate whose referral
// led to it. Rows flagged IsPersonalPurchase are financially real but are
// excluded from affiliate performance metrics.
type OrderAffiliate struct {
	ID                 string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Provider           string    `gorm:"not null" json:"provider"`
	OrderID            string    `gorm:"not null;index" json:"order_id"`
	AffiliateID        uint      `gorm:"not null;index" json:"affiliate_id"`
	Code               string    `gorm:"not null" json:"code"`
	AmountCents        int64     `gorm:"not null" json:"amount_cents"`
	Currency           string    `gorm:"not null;default:'usd'" json:"currency"`
	CommissionCents    int64     `gorm:"not null;default:0" json:"commission_cents"`
	IsPersonalPurchase bool      `gorm:"not null;default:false" json:"is_personal_purchase"`
	Metadata           JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

func (OrderAffiliate) TableName() string {
	return "order_affiliates"
}
