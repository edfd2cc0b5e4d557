package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/jmcastano/payflow/internal/server/http/handlers"
	"github.com/jmcastano/payflow/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CheckoutFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	paymentHandler := handlers.NewPaymentHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)

	api := engine.Group("/api")
	api.POST("/create-wompi-transaction", paymentHandler.Create)
	api.POST("/wompi-webhook", webhookHandler.Receive)
	api.GET("/orders/by-wompi-id/:wompiId", orderHandler.GetByWompiID)
	api.GET("/orders/:id", orderHandler.GetByID)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.POST("/products", catalogHandler.CreateProduct)
	api.GET("/customers", catalogHandler.ListCustomers)
	api.GET("/deliveries", catalogHandler.ListDeliveries)

	return engine
}
