package models

import (
	"time"
)

// Affiliate application statuses
const (
	AffiliateStatusPending  = "pending"
	AffiliateStatusApproved = "approved"
	AffiliateStatusDeclined = "declined"
)

// AffiliateApplication is the identity and approval state of a marketing
// partner. Code is assigned on first approval and is never reassigned,
// even if the application is later declined and re-approved.
type AffiliateApplication struct {
	ID                uint    `gorm:"primarykey" json:"id"`
	Name              string  `gorm:"not null" json:"name"`
	Email             string  `gorm:"uniqueIndex;not null" json:"email"`
	Status            string  `gorm:"not null;default:'pending';index" json:"status"`
	Code              *string `gorm:"uniqueIndex" json:"code,omitempty"`
	CommissionRate    float64 `gorm:"not null;default:0.10" json:"commission_rate"`
	SignupCreditCents int64   `gorm:"not null;default:0" json:"signup_credit_cents"`
	UserID            *uint   `gorm:"index" json:"user_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (AffiliateApplication) TableName() string {
	return "affiliate_applications"
}

// IsApproved reports whether the affiliate can currently earn attribution.
func (a *AffiliateApplication) IsApproved() bool {
	return a.Status == AffiliateStatusApproved && a.Code != nil
}

// AffiliateClick is one row per referral-cookie-setting visit. Rows are
// append-only and used only for counting.
type AffiliateClick struct {
	ID          string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	AffiliateID uint      `gorm:"not null;index" json:"affiliate_id"`
	Code        string    `gorm:"not null;index" json:"code"`
	LandingPath string    `json:"landing_path"`
	Referrer    string    `json:"referrer"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}

// AffiliatePayout records a commission payment made to an affiliate by an
// admin. Payouts are bookkeeping only; they do not mutate attribution rows.
type AffiliatePayout struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AffiliateID uint      `gorm:"not null;index" json:"affiliate_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Currency    string    `gorm:"not null;default:'usd'" json:"currency"`
	Method      string    `json:"method"`
	Note        string    `json:"note"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AffiliatePayout) TableName() string {
	return "affiliate_payouts"
}
