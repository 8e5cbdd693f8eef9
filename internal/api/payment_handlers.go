package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutSessionRequest starts a hosted payment flow for an order
type CheckoutSessionRequest struct {
	OrderID    string `json:"orderId" binding:"required"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.paymentService.CreateCheckoutSession(
		c.Request.Context(), userID(c), req.OrderID, req.SuccessURL, req.CancelURL)
	if err != nil {
		var gatewayErr *service.GatewayError
		switch {
		case errors.Is(err, service.ErrGatewayNotConfigured):
			c.JSON(http.StatusNotImplemented, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		case errors.Is(err, service.ErrMissingRedirectURLs):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.As(err, &gatewayErr):
			h.logger.Error("Payment gateway rejected checkout session",
				zap.String("order_id", req.OrderID),
				zap.Error(gatewayErr.Err))
			c.JSON(http.StatusBadGateway, gin.H{"message": "payment gateway error"})
		default:
			h.logger.Error("Failed to create checkout session",
				zap.String("order_id", req.OrderID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create checkout session"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
