package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthResponse liveness payload
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Time     string `json:"time"`
	Database string `json:"database,omitempty"`
}

// HealthHandler serves / and /health
type HealthHandler struct {
	service string
	db      *gorm.DB
}

// NewHealthHandler creates a new HealthHandler; db may be nil
func NewHealthHandler(service string, db *gorm.DB) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health handles GET /health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		Service: h.service,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	if h.db != nil {
		resp.Database = "up"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			resp.Database = "down"
		}
	}
	c.JSON(http.StatusOK, resp)
}
