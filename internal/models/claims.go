package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload for session-authenticated requests.
// TokenVersion lets logout invalidate every outstanding token for a user.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AffiliateID  *uint  `json:"affiliate_id,omitempty"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the claims belong to an admin account.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsAffiliate reports whether the claims belong to an approved affiliate.
func (c *UserClaims) IsAffiliate() bool {
	return c.Role == RoleAffiliate && c.AffiliateID != nil
}
