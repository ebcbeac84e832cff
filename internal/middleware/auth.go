// Package middleware provides HTTP middleware for the fiber app:
// JWT session auth, admin gating, and affiliate access via session or
// bearer API key.
package middleware

import (
	"strings"

	"vitalabs/internal/models"
	"vitalabs/internal/services/affiliate"
	"vitalabs/internal/services/auth"
	"vitalabs/internal/utils"
	"vitalabs/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware validates JWT bearer tokens and stores the claims in the
// request context under "claims".
type AuthMiddleware struct {
	authService auth.Service
	logger      *zap.Logger
}

func NewAuthMiddleware(authService auth.Service, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, logger: logger}
}

// Handler checks for a Bearer token, validates signature and expiry, and
// rejects tokens whose version no longer matches the user's current one.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	_, claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
	if err != nil {
		m.logger.Warn("token for unknown user", zap.Uint("user_id", claims.UserID))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		return response.Error(c, fiber.StatusUnauthorized, "session expired")
	}

	c.Locals("claims", claims)
	return c.Next()
}

// AdminOnly requires claims with the admin role. It must run after the
// auth handler.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}
	if !claims.IsAdmin() {
		return response.Forbidden(c, "admin access required")
	}
	return c.Next()
}

// AffiliateAuth authenticates affiliate endpoints. It accepts either a JWT
// session of an approved affiliate or a bearer API key; the resolved
// affiliate id is stored under "affiliateID".
type AffiliateAuth struct {
	authService auth.Service
	keys        affiliate.APIKeyService
	logger      *zap.Logger
}

func NewAffiliateAuth(authService auth.Service, keys affiliate.APIKeyService, logger *zap.Logger) *AffiliateAuth {
	return &AffiliateAuth{authService: authService, keys: keys, logger: logger}
}

func (m *AffiliateAuth) Handler(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	// A session token parses as a JWT; anything else is treated as an
	// API key.
	if _, claims, err := utils.ParseToken(token); err == nil {
		currentVersion, err := m.authService.GetUserTokenVersion(claims.UserID)
		if err != nil || claims.TokenVersion != currentVersion {
			return response.Error(c, fiber.StatusUnauthorized, "session expired")
		}
		if !claims.IsAffiliate() {
			return response.Forbidden(c, "not an approved affiliate")
		}
		c.Locals("claims", claims)
		c.Locals("affiliateID", *claims.AffiliateID)
		return c.Next()
	}

	key, err := m.keys.Authenticate(c.Context(), token)
	if err != nil {
		return response.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	c.Locals("affiliateID", key.AffiliateID)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}
