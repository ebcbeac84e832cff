package handlers

import (
	"vitalabs/internal/config"
	"vitalabs/internal/services/referral"

	"github.com/gofiber/fiber/v2"
)

// ReferralHandler captures ?ref codes on the storefront root.
type ReferralHandler struct {
	referralService referral.Service
	cookies         *referral.CookieCodec
}

func NewReferralHandler(referralService referral.Service, cookies *referral.CookieCodec) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		cookies:         cookies,
	}
}

// Welcome serves the storefront root. When a known ref code is present the
// referral cookie is set (last-touch: a newer code overwrites any prior
// one). Unknown codes are ignored silently and the page responds normally.
func (h *ReferralHandler) Welcome(c *fiber.Ctx) error {
	if code := c.Query("ref"); code != "" {
		visit := referral.Visit{
			LandingPath: c.Path(),
			Referrer:    c.Get("Referer"),
			UserAgent:   c.Get("User-Agent"),
		}
		if _, err := h.referralService.Capture(c.Context(), code, visit); err == nil {
			c.Cookie(&fiber.Cookie{
				Name:     referral.CookieName,
				Value:    h.cookies.Encode(code),
				Path:     "/",
				MaxAge:   referral.DefaultCookieMaxAge,
				HTTPOnly: true,
				Secure:   config.IsProduction(),
				SameSite: "Lax",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Welcome to the Vitalabs API",
		"version": "1.0.0",
		"docs":    "/api",
	})
}
