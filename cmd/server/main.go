// Package main is the entry point for the storefront API server.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitalabs/internal/config"
	"vitalabs/internal/logging"
	"vitalabs/internal/providers"
	"vitalabs/internal/repositories"
	"vitalabs/internal/repositories/cache"
	"vitalabs/internal/routes"
	"vitalabs/internal/services/attribution"
	"vitalabs/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	logger, err := logging.New(config.Env())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// PostgreSQL via GORM for the relational model
	db, err := repositories.Connect()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := repositories.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Redis cache for hot affiliate-code lookups
	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	cacheService := cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 10*time.Minute))
	defer cacheService.Close()

	// Attribution store backend is picked once at startup: Postgres when
	// DATABASE_URL is set, flat files otherwise.
	var store storage.AttributionStore
	if dsn := config.GetEnv("DATABASE_URL", ""); dsn != "" {
		store, err = storage.NewPostgresStore(dsn)
		if err != nil {
			logger.Fatal("Failed to open attribution store", zap.Error(err))
		}
		logger.Info("Attribution store: postgres")
	} else {
		store, err = storage.NewFileStore(config.GetEnv("DATA_DIR", "data"))
		if err != nil {
			logger.Fatal("Failed to open attribution store", zap.Error(err))
		}
		logger.Info("Attribution store: file", zap.String("dir", config.GetEnv("DATA_DIR", "data")))
	}
	defer store.Close()

	// Payment providers. Each one reports ErrNotConfigured at request time
	// when its key is missing, so a partial configuration still boots.
	checkoutProviders := []providers.CheckoutProvider{
		providers.NewStripeProvider(
			config.GetEnv("STRIPE_SECRET_KEY", ""),
			config.GetEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
			config.GetEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		),
		providers.NewCoinbaseProvider(
			config.GetEnv("COINBASE_API_KEY", ""),
			config.GetEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
			config.GetEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
		),
	}

	recorder := attribution.NewRecorder(repositories.NewOrderRepository(db), store, logger)
	defer recorder.Wait()

	app := fiber.New(fiber.Config{
		AppName: "vitalabs-api",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login", "/api/checkout/session"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        config.GetIntEnv("RATE_LIMIT_MAX", 20),
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, &routes.Deps{
		DB:        db,
		Cache:     cacheService,
		Store:     store,
		Providers: checkoutProviders,
		Recorder:  recorder,
		Logger:    logger,
	})

	// Shut down on SIGINT/SIGTERM and return from main instead of calling
	// os.Exit, so the deferred recorder.Wait and store.Close still run.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		logger.Info("Shutting down", zap.String("signal", sig.String()))
		if err := app.Shutdown(); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.String("port", config.GetEnv("PORT", "3000")))
	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
