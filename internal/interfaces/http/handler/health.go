package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/club21/orderfeed/internal/interfaces/http/dto"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	appName string
	started time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName, started: time.Now()}
}

// RegisterRoutes registers the health endpoint.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health returns the service status.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"service": h.appName,
		"status":  "ok",
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}))
}
