package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Check reports 503 when the database is unreachable. Redis only backs the
// rate limiter and reset tokens, so losing it degrades the service.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "ok", "redis": "ok"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		body["database"] = "down"
	}

	if h.redis == nil || h.redis.Ping(ctx).Err() != nil {
		body["redis"] = "down"
		if status == http.StatusOK {
			body["status"] = "degraded"
		}
	}

	c.JSON(status, body)
}
