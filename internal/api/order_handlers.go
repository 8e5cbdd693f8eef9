package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/models"
	"storefront-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlaceOrderRequest carries optional checkout metadata. The order snapshot
// itself always comes from the server-side cart, never the request.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Notes           string `json:"notes"`
}

// ConfirmPaymentRequest marks an order as paid
type ConfirmPaymentRequest struct {
	PaymentReference string `json:"paymentReference"`
}

// Checkout: snapshot the cart into a pending order, then clear the cart.
// Order creation is the durable commit point; a failed clear is logged and
// left behind, not rolled back.
func (h *Handler) checkout(c *gin.Context) {
	var req PlaceOrderRequest
	_ = c.ShouldBindJSON(&req)

	uid := userID(c)
	cart, err := h.cartService.GetOrCreateCart(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("Failed to load cart for checkout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		return
	}

	if len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cart is empty"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), uid, cart)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		h.logger.Error("Failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create order"})
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), uid); err != nil {
		h.logger.Warn("Failed to clear cart after checkout",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   order,
		"message": "Order created successfully",
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrdersForUser(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		h.logger.Error("Failed to load order", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) confirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	_ = c.ShouldBindJSON(&req)

	h.transitionOrder(c, models.OrderStatusPaid, req.PaymentReference, "Order marked as paid")
}

func (h *Handler) cancelOrder(c *gin.Context) {
	h.transitionOrder(c, models.OrderStatusCancelled, "", "Order cancelled")
}

// Ownership is checked before the transition so another user's order reads
// as 404, never 403.
func (h *Handler) transitionOrder(c *gin.Context, status, paymentReference, message string) {
	orderID := c.Param("id")

	existing, err := h.orderService.GetOrderByID(c.Request.Context(), orderID, userID(c))
	if err != nil {
		h.logger.Error("Failed to load order", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update order"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}

	updated, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, status, paymentReference)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatusTransition) {
			h.logger.Warn("Rejected order status transition",
				zap.String("order_id", orderID),
				zap.String("to", status))
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		h.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update order"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   updated,
		"message": message,
	})
}
