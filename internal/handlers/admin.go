package handlers

import (
	"errors"
	"time"

	"vitalabs/internal/models"
	"vitalabs/internal/repositories"
	"vitalabs/internal/services/affiliate"
	"vitalabs/internal/utils/response"
	"vitalabs/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the admin dashboard endpoints: affiliate program
// management, payouts, orders, refunds and the product catalog.
type AdminHandler struct {
	affiliateService affiliate.Service
	orders           repositories.OrderRepository
	products         repositories.ProductRepository
}

func NewAdminHandler(
	affiliateService affiliate.Service,
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
) *AdminHandler {
	return &AdminHandler{
		affiliateService: affiliateService,
		orders:           orders,
		products:         products,
	}
}

// ListAffiliates handles GET /api/admin/affiliates?status=pending.
func (h *AdminHandler) ListAffiliates(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	apps, total, err := h.affiliateService.List(c.Context(), c.Query("status"), offset, limit)
	if err != nil {
		return response.ServerError(c, "Unable to list affiliates")
	}
	return c.JSON(fiber.Map{"data": apps, "total": total})
}

// ApproveAffiliate handles POST /api/admin/affiliates/:id/approve.
func (h *AdminHandler) ApproveAffiliate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid affiliate id")
	}

	app, err := h.affiliateService.Approve(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Unable to approve affiliate")
	}
	return response.Success(c, "Affiliate approved", app)
}

// DeclineAffiliate handles POST /api/admin/affiliates/:id/decline.
func (h *AdminHandler) DeclineAffiliate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid affiliate id")
	}

	app, err := h.affiliateService.Decline(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Unable to decline affiliate")
	}
	return response.Success(c, "Affiliate declined", app)
}

// ListPayouts handles GET /api/admin/affiliates/:id/payouts.
func (h *AdminHandler) ListPayouts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid affiliate id")
	}

	payouts, err := h.affiliateService.ListPayouts(c.Context(), uint(id))
	if err != nil {
		return response.ServerError(c, "Unable to list payouts")
	}
	return c.JSON(fiber.Map{"data": payouts})
}

// RecordPayout handles POST /api/admin/affiliates/:id/payouts.
func (h *AdminHandler) RecordPayout(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid affiliate id")
	}

	var input struct {
		AmountCents int64     `json:"amount_cents"`
		Method      string    `json:"method"`
		Note        string    `json:"note"`
		PeriodStart time.Time `json:"period_start"`
		PeriodEnd   time.Time `json:"period_end"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.AmountCents <= 0 {
		return response.BadRequest(c, "amount_cents must be positive")
	}

	payout := &models.AffiliatePayout{
		AffiliateID: uint(id),
		AmountCents: input.AmountCents,
		Currency:    "usd",
		Method:      input.Method,
		Note:        input.Note,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
	}
	if err := h.affiliateService.RecordPayout(c.Context(), payout); err != nil {
		if errors.Is(err, affiliate.ErrNotApproved) {
			return response.BadRequest(c, "affiliate is not approved")
		}
		if errors.Is(err, repositories.ErrAffiliateNotFound) {
			return response.NotFound(c, "Affiliate not found")
		}
		return response.ServerError(c, "Unable to record payout")
	}
	return response.Success(c, "Payout recorded", payout)
}

// ListOrders handles GET /api/admin/orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)

	orders, total, err := h.orders.List(offset, limit)
	if err != nil {
		return response.ServerError(c, "Unable to list orders")
	}
	return c.JSON(fiber.Map{"data": orders, "total": total})
}

// RecordRefund handles POST /api/admin/orders/:id/refund. It records the
// refund row; the provider-side refund is performed in the provider's own
// dashboard.
func (h *AdminHandler) RecordRefund(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid order id")
	}

	var input struct {
		ProviderRefundID string `json:"provider_refund_id"`
		AmountCents      int64  `json:"amount_cents"`
		Reason           string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.AmountCents <= 0 {
		return response.BadRequest(c, "amount_cents must be positive")
	}

	order, err := h.orders.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.ServerError(c, "Unable to load order")
	}

	refund := &models.Refund{
		OrderID:          order.ID,
		Provider:         order.Provider,
		ProviderRefundID: input.ProviderRefundID,
		AmountCents:      input.AmountCents,
		Reason:           input.Reason,
	}
	if err := h.orders.CreateRefund(refund); err != nil {
		return response.ServerError(c, "Unable to record refund")
	}
	return response.Success(c, "Refund recorded", refund)
}

// ListProducts handles GET /api/admin/products.
func (h *AdminHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.products.List(false)
	if err != nil {
		return response.ServerError(c, "Unable to list products")
	}
	return c.JSON(fiber.Map{"data": products})
}

// CreateProduct handles POST /api/admin/products.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var input struct {
		Slug           string `json:"slug"`
		Name           string `json:"name"`
		UnitPriceCents int64  `json:"unit_price_cents"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	v := validation.New()
	v.Required("slug", input.Slug)
	v.Required("name", input.Name)
	v.Check(input.UnitPriceCents > 0, "unit_price_cents", "must be positive")
	if !v.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": v.Errors})
	}

	product := &models.Product{
		Slug:           input.Slug,
		Name:           input.Name,
		UnitPriceCents: input.UnitPriceCents,
		Active:         true,
	}
	if err := h.products.Create(product); err != nil {
		return response.ServerError(c, "Unable to create product")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}
