// Package routes defines the API routing configuration. It constructs
// repositories, services and handlers with explicit dependency injection
// and groups routes by the access they require.
package routes

import (
	"vitalabs/internal/config"
	"vitalabs/internal/handlers"
	"vitalabs/internal/middleware"
	"vitalabs/internal/providers"
	"vitalabs/internal/repositories"
	"vitalabs/internal/repositories/cache"
	"vitalabs/internal/services/affiliate"
	"vitalabs/internal/services/attribution"
	"vitalabs/internal/services/auth"
	"vitalabs/internal/services/checkout"
	"vitalabs/internal/services/referral"
	"vitalabs/internal/storage"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries everything the route tree needs. Provider clients, the
// attribution store and the cache are constructed once at startup and
// injected here.
type Deps struct {
	DB        *gorm.DB
	Cache     *cache.CacheService
	Store     storage.AttributionStore
	Providers []providers.CheckoutProvider
	Recorder  attribution.Recorder
	Logger    *zap.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps *Deps) {
	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	affiliateRepo := repositories.NewAffiliateRepository(deps.DB)
	orderRepo := repositories.NewOrderRepository(deps.DB)
	payoutRepo := repositories.NewPayoutRepository(deps.DB)
	productRepo := repositories.NewProductRepository(deps.DB)
	apiKeyRepo := repositories.NewAPIKeyRepository(deps.DB)

	// Services
	authService := auth.NewService(userRepo)
	referralService := referral.NewService(affiliateRepo, deps.Cache, deps.Store, deps.Logger)
	cookieCodec := referral.NewCookieCodec(config.GetEnv("REFERRAL_COOKIE_SECRET", "vitalabs-referral"))
	affiliateService := affiliate.NewService(affiliateRepo, payoutRepo, userRepo, deps.Cache, deps.Logger)
	apiKeyService := affiliate.NewAPIKeyService(apiKeyRepo, affiliateRepo)
	statsService := attribution.NewStatsService(deps.Store, deps.Logger)
	checkoutService := checkout.NewService(deps.Providers, referralService, cookieCodec, deps.Recorder, deps.Logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	referralHandler := handlers.NewReferralHandler(referralService, cookieCodec)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService, statsService)
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService)
	adminHandler := handlers.NewAdminHandler(affiliateService, orderRepo, productRepo)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)

	// Middleware
	authMw := middleware.NewAuthMiddleware(authService, deps.Logger)
	affiliateMw := middleware.NewAffiliateAuth(authService, apiKeyService, deps.Logger)

	// Root: storefront welcome + referral capture
	app.Get("/", referralHandler.Welcome)
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Post("/affiliate/apply", optionalClaims(authMw), affiliateHandler.Apply)
	api.Post("/checkout/session", optionalClaims(authMw), checkoutHandler.CreateSession)

	// Session-authenticated endpoints
	api.Post("/logout", authMw.Handler, authHandler.Logout)

	// Affiliate endpoints: session or bearer API key
	aff := api.Group("/affiliate", affiliateMw.Handler)
	aff.Get("/stats", affiliateHandler.Stats)
	aff.Get("/me", affiliateHandler.Me)
	aff.Get("/api-key", apiKeyHandler.Get)
	aff.Post("/api-key", apiKeyHandler.Create)
	aff.Delete("/api-key", apiKeyHandler.Delete)

	// Admin endpoints
	admin := api.Group("/admin", authMw.Handler, middleware.AdminOnly)
	admin.Get("/affiliates", adminHandler.ListAffiliates)
	admin.Post("/affiliates/:id/approve", adminHandler.ApproveAffiliate)
	admin.Post("/affiliates/:id/decline", adminHandler.DeclineAffiliate)
	admin.Get("/affiliates/:id/payouts", adminHandler.ListPayouts)
	admin.Post("/affiliates/:id/payouts", adminHandler.RecordPayout)
	admin.Get("/orders", adminHandler.ListOrders)
	admin.Post("/orders/:id/refund", adminHandler.RecordRefund)
	admin.Get("/products", adminHandler.ListProducts)
	admin.Post("/products", adminHandler.CreateProduct)
}

// optionalClaims runs session auth when a bearer token is present but lets
// guest requests straight through. Checkout works for guests; the
// self-purchase discount needs to know who is buying.
func optionalClaims(authMw *middleware.AuthMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		return authMw.Handler(c)
	}
}
