package referral

import (
	"vitalabs/internal/utils"
)

// CookieName is the referral cookie. Last-touch: a newer code always
// overwrites the existing cookie.
const CookieName = "vl_aff"

// DefaultCookieMaxAge bounds how long a referral sticks, in seconds.
const DefaultCookieMaxAge = 30 * 24 * 60 * 60

// CookieCodec signs and verifies referral cookie values so a visitor
// cannot forge an arbitrary affiliate code.
type CookieCodec struct {
	secret []byte
}

func NewCookieCodec(secret string) *CookieCodec {
	return &CookieCodec{secret: []byte(secret)}
}

// Encode returns the signed cookie value for a code.
func (c *CookieCodec) Encode(code string) string {
	return utils.SignValue(code, c.secret)
}

// Decode verifies a cookie value and returns the embedded code. A missing
// or tampered signature is treated as no cookie at all.
func (c *CookieCodec) Decode(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	return utils.VerifySignedValue(value, c.secret)
}
