package handlers

import (
	"errors"

	"vitalabs/internal/services/affiliate"
	"vitalabs/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// APIKeyHandler manages the affiliate API key lifecycle.
type APIKeyHandler struct {
	keys affiliate.APIKeyService
}

func NewAPIKeyHandler(keys affiliate.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

// Get returns metadata for the active key: last-4 and timestamps only.
// The plaintext is never retrievable after creation.
func (h *APIKeyHandler) Get(c *fiber.Ctx) error {
	affiliateID, ok := c.Locals("affiliateID").(uint)
	if !ok {
		return response.Unauthorized(c)
	}

	key, err := h.keys.Active(c.Context(), affiliateID)
	if err != nil {
		if errors.Is(err, affiliate.ErrNoActiveKey) {
			return response.NotFound(c, "No active API key")
		}
		return response.ServerError(c, "Unable to load API key")
	}
	return c.JSON(fiber.Map{"data": key})
}

// Create issues a new key, rotating out any active one. This is the only
// response that ever contains the plaintext key.
func (h *APIKeyHandler) Create(c *fiber.Ctx) error {
	affiliateID, ok := c.Locals("affiliateID").(uint)
	if !ok {
		return response.Unauthorized(c)
	}

	key, plaintext, err := h.keys.Issue(c.Context(), affiliateID)
	if err != nil {
		if errors.Is(err, affiliate.ErrNotApproved) {
			return response.Forbidden(c, "not an approved affiliate")
		}
		return response.ServerError(c, "Unable to create API key")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Store this key now; it will not be shown again",
		"key":     plaintext,
		"data":    key,
	})
}

// Delete revokes the active key.
func (h *APIKeyHandler) Delete(c *fiber.Ctx) error {
	affiliateID, ok := c.Locals("affiliateID").(uint)
	if !ok {
		return response.Unauthorized(c)
	}

	if err := h.keys.Revoke(c.Context(), affiliateID); err != nil {
		return response.ServerError(c, "Unable to revoke API key")
	}
	return response.Success(c, "API key revoked", nil)
}
