package api

import (
	"net/http"
	"strconv"
	"time"

	"storefront-api/internal/auth"
	"storefront-api/internal/service"
	"storefront-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	cartService    *service.CartService
	orderService   *service.OrderService
	paymentService *service.PaymentService
	uploader       service.AssetUploader
	tokens         *auth.Manager
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler. uploader may be nil when no
// external upload service is configured.
func NewHandler(
	authService *service.AuthService,
	catalogService *service.CatalogService,
	cartService *service.CartService,
	orderService *service.OrderService,
	paymentService *service.PaymentService,
	uploader service.AssetUploader,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		authService:    authService,
		catalogService: catalogService,
		cartService:    cartService,
		orderService:   orderService,
		paymentService: paymentService,
		uploader:       uploader,
		tokens:         tokens,
		logger:         util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", AuthRequired(h.tokens), h.currentUser)
	}

	products := api.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/:id", h.getProduct)
		products.POST("", AuthRequired(h.tokens), AdminRequired(), h.createProduct)
		products.PUT("/:id", AuthRequired(h.tokens), AdminRequired(), h.updateProduct)
		products.DELETE("/:id", AuthRequired(h.tokens), AdminRequired(), h.deleteProduct)
	}

	cart := api.Group("/cart", AuthRequired(h.tokens))
	{
		cart.GET("", h.getCart)
		cart.DELETE("", h.clearCart)
		cart.POST("/items", h.addCartItem)
		cart.PUT("/items", h.updateCartItem)
		cart.DELETE("/items/:itemId", h.removeCartItem)
	}

	orders := api.Group("/orders", AuthRequired(h.tokens))
	{
		orders.POST("/checkout", h.checkout)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/confirm", h.confirmPayment)
		orders.POST("/:id/cancel", h.cancelOrder)
	}

	payments := api.Group("/payments", AuthRequired(h.tokens))
	{
		payments.POST("/stripe/checkout-session", h.createCheckoutSession)
	}

	api.POST("/upload", AuthRequired(h.tokens), h.uploadAsset)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
