package handlers

import (
	"errors"

	"vitalabs/internal/models"
	"vitalabs/internal/services/affiliate"
	"vitalabs/internal/services/attribution"
	"vitalabs/internal/utils/response"
	"vitalabs/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AffiliateHandler serves the affiliate-facing endpoints: program
// application, the stats dashboard and the own-record view.
type AffiliateHandler struct {
	affiliateService affiliate.Service
	statsService     attribution.StatsService
}

func NewAffiliateHandler(affiliateService affiliate.Service, statsService attribution.StatsService) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService: affiliateService,
		statsService:     statsService,
	}
}

// Apply handles POST /api/affiliate/apply. A logged-in applicant's account
// is linked to the application so approval promotes it to the affiliate
// role; guests are linked later by email match on approval.
func (h *AffiliateHandler) Apply(c *fiber.Ctx) error {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required("name", input.Name)
	v.Email("email", input.Email)
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	var userID *uint
	if claims, ok := c.Locals("claims").(*models.UserClaims); ok {
		userID = &claims.UserID
	}

	app, err := h.affiliateService.Apply(c.Context(), input.Name, input.Email, userID)
	if err != nil {
		if errors.Is(err, affiliate.ErrAlreadyApplied) {
			return response.Error(c, fiber.StatusConflict, err.Error())
		}
		return response.ServerError(c, "Unable to submit application")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Application received",
		"data":    app,
	})
}

// Stats handles GET /api/affiliate/stats for a session- or API-key-
// authenticated affiliate.
func (h *AffiliateHandler) Stats(c *fiber.Ctx) error {
	affiliateID, ok := c.Locals("affiliateID").(uint)
	if !ok {
		return response.Unauthorized(c)
	}

	stats, err := h.statsService.GetStats(c.Context(), affiliateID)
	if err != nil {
		return response.ServerError(c, "Unable to load stats")
	}

	return c.JSON(fiber.Map{"stats": stats})
}

// Me handles GET /api/affiliate/me.
func (h *AffiliateHandler) Me(c *fiber.Ctx) error {
	affiliateID, ok := c.Locals("affiliateID").(uint)
	if !ok {
		return response.Unauthorized(c)
	}

	app, err := h.affiliateService.Get(c.Context(), affiliateID)
	if err != nil {
		return response.NotFound(c, "Affiliate not found")
	}
	return c.JSON(fiber.Map{"data": app})
}
