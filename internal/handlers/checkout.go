package handlers

import (
	"errors"

	"vitalabs/internal/models"
	"vitalabs/internal/services/checkout"
	"vitalabs/internal/services/referral"
	"vitalabs/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler creates hosted provider checkout sessions.
type CheckoutHandler struct {
	checkoutService checkout.Service
}

func NewCheckoutHandler(checkoutService checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSession handles POST /api/checkout/session. Validation problems
// come back as 400 with field messages; provider and infrastructure
// failures are logged server-side and surface as a generic 500.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req checkout.Request
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	// Guest checkouts carry no claims; the self-purchase discount only
	// applies to a logged-in affiliate buying through their own link.
	claims, _ := c.Locals("claims").(*models.UserClaims)

	result, err := h.checkoutService.CreateSession(
		c.Context(),
		&req,
		c.Cookies(referral.CookieName),
		claims,
	)
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  vErr.Error(),
				"fields": vErr.Fields,
			})
		}
		return response.ServerError(c, "Unable to start checkout")
	}

	return c.JSON(result)
}
