package handlers

import (
	"vitalabs/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports database and cache connectivity.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cacheSvc *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheSvc}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		} else {
			status["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			status["status"] = "degraded"
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	code := fiber.StatusOK
	if status["status"] != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(status)
}
