// Package router assembles the gin engine for the feed service.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/club21/orderfeed/internal/infrastructure/logger"
	"github.com/club21/orderfeed/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router builds the HTTP engine and wires middleware plus registrars.
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// New creates a Router with the standard middleware chain: request IDs,
// request logging, panic recovery and request metrics.
func New(log *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Metrics(),
	)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Router{engine: engine}
}

// Register adds a RouteRegistrar to be registered on Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes and returns the engine.
func (r *Router) Setup() *gin.Engine {
	root := r.engine.Group("")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
	return r.engine
}
