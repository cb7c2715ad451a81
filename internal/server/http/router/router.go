package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/handlers"
	"github.com/bob1127/eSIM-pwa-sub000/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, pinger handlers.Pinger, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	fulfillmentHandler := handlers.NewFulfillmentHandler(facade)
	planHandler := handlers.NewPlanHandler(facade)
	healthHandler := handlers.NewHealthHandler(pinger)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	api.POST("/orders", orderHandler.Create)
	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)
	api.POST("/orders/:id/notify", fulfillmentHandler.Notify)

	api.POST("/checkout/form", checkoutHandler.PaymentForm)
	api.POST("/fulfill", fulfillmentHandler.Fulfill)
	api.PUT("/plans", planHandler.Upsert)

	return engine
}
