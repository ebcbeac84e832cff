package models

import (
	"time"
)

// AffiliateAPIKey is a bearer credential for the affiliate stats API.
// Only the SHA-256 hash is stored; the plaintext is returned exactly once
// at creation time. An affiliate holds at most one non-revoked key, and
// rotating a key revokes the prior one.
type AffiliateAPIKey struct {
	ID          string     `gorm:"primarykey;type:varchar(36)" json:"id"`
	AffiliateID uint       `gorm:"not null;index" json:"affiliate_id"`
	KeyHash     string     `gorm:"uniqueIndex;not null" json:"-"`
	LastFour    string     `gorm:"not null" json:"last_four"`
	RevokedAt   *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (AffiliateAPIKey) TableName() string {
	return "affiliate_api_keys"
}

// Active reports whether the key may still authenticate requests.
func (k *AffiliateAPIKey) Active() bool {
	return k.RevokedAt == nil
}
