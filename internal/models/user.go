package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser      = "user"
	RoleAffiliate = "affiliate"
	RoleAdmin     = "admin"
)

// User is a storefront account. Affiliates get Role "affiliate" once their
// application is approved; AffiliateID then points at the application row.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"default:'user'"`
	AffiliateID  *uint  `gorm:"index;default:null"`
	Status       string `gorm:"default:'active'"`
	TokenVersion int    `gorm:"default:0"`
	LastLoginAt  time.Time
	LastLoginIP  string
}
