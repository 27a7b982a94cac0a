// Package handler exposes the feed service over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	feedapp "github.com/club21/orderfeed/internal/application/feed"
	"github.com/club21/orderfeed/internal/infrastructure/logger"
	"github.com/club21/orderfeed/internal/interfaces/http/dto"
	"github.com/club21/orderfeed/internal/interfaces/http/middleware"
)

// FeedRunner is the slice of the feed service the handler needs.
type FeedRunner interface {
	RunSalesFeed(ctx context.Context) (*feedapp.RunResult, error)
	RunOrderFeed(ctx context.Context) (*feedapp.RunResult, error)
}

// FeedHandler triggers feed runs over HTTP.
type FeedHandler struct {
	service FeedRunner
}

// NewFeedHandler creates a FeedHandler.
func NewFeedHandler(service FeedRunner) *FeedHandler {
	return &FeedHandler{service: service}
}

// RegisterRoutes registers the feed trigger endpoints.
func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	feeds := rg.Group("/feeds")
	feeds.POST("/sales", h.RunSales)
	feeds.POST("/orders", h.RunOrders)
}

// RunSales triggers a sales feed run and reports the result.
func (h *FeedHandler) RunSales(c *gin.Context) {
	h.run(c, h.service.RunSalesFeed)
}

// RunOrders triggers an order feed run and reports the result.
func (h *FeedHandler) RunOrders(c *gin.Context) {
	h.run(c, h.service.RunOrderFeed)
}

func (h *FeedHandler) run(c *gin.Context, runFeed func(context.Context) (*feedapp.RunResult, error)) {
	result, err := runFeed(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("feed run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse("FEED_RUN_FAILED", err.Error(), middleware.GetRequestID(c)))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
