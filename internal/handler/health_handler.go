package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/noah-isme/pagos-go-api/internal/config"
	"github.com/noah-isme/pagos-go-api/internal/utils"
)

// HealthResponse reports service health plus the state of the ledger's
// backing stores.
type HealthResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Timestamp   time.Time         `json:"timestamp"`
	Components  map[string]string `json:"components"`
}

// HealthHandler probes the ledger database and the dashboard cache.
type HealthHandler struct {
	cfg   config.Config
	db    *gorm.DB
	cache *redis.Client
}

// NewHealthHandler constructs the handler. Both stores are optional;
// absent ones are simply not reported.
func NewHealthHandler(cfg config.Config, db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{cfg: cfg, db: db, cache: cache}
}

// Register attaches the health endpoint to the router group.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.check)
}

func (h *HealthHandler) check(c *fiber.Ctx) error {
	components := make(map[string]string)
	status := "ok"

	if h.db != nil {
		components["database"] = "ok"
		if sqlDB, err := h.db.DB(); err != nil {
			components["database"] = "unreachable"
		} else if err := sqlDB.PingContext(c.Context()); err != nil {
			components["database"] = "unreachable"
		}
	}

	if h.cache != nil {
		components["cache"] = "ok"
		if err := h.cache.Ping(c.Context()).Err(); err != nil {
			components["cache"] = "unreachable"
		}
	}

	for _, state := range components {
		if state != "ok" {
			status = "degraded"
			break
		}
	}

	payload := HealthResponse{
		Status:      status,
		Service:     h.cfg.AppName,
		Environment: h.cfg.AppEnv,
		Timestamp:   time.Now().UTC(),
		Components:  components,
	}

	if status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
			Success: false,
			Message: "service degraded",
			Data:    payload,
		})
	}

	return utils.SendSuccess(c, "service healthy", payload)
}
