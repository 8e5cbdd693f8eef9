package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/models"
	"storefront-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddCartItemRequest adds a product variant to the cart
type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateCartItemRequest changes a line's quantity
type UpdateCartItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func cartResponse(cart *models.Cart) gin.H {
	return gin.H{
		"items": cart.Items,
		"total": cart.Total(),
	}
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.cartService.GetOrCreateCart(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     cart.Items,
		"total":     cart.Total(),
		"updatedAt": cart.UpdatedAt,
	})
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID(c), req.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		h.respondCartError(c, err, "add item to cart")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID(c), req.ItemID, req.Quantity)
	if err != nil {
		h.respondCartError(c, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID(c), c.Param("itemId"))
	if err != nil {
		h.respondCartError(c, err, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cartService.ClearCart(c.Request.Context(), userID(c)); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to clear cart"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Business-rule violations surface as 400s with the rule's message;
// anything else is a generic 500.
func (h *Handler) respondCartError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrQuantityExceedsStock),
		errors.Is(err, service.ErrCartItemNotFound):
		h.logger.Warn("Business rule violation on cart mutation",
			zap.String("action", action),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.Error("Cart mutation failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to " + action})
	}
}
