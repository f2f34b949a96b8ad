package controllers

import (
	"net/http"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartIDHeader carries the opaque cart identity between browser and
// server. A request without one gets a freshly minted ID echoed back.
const CartIDHeader = "X-Cart-ID"

type CartController struct {
	Carts  *services.CartService
	Logger *zap.Logger
}

func NewCartController(carts *services.CartService, logger *zap.Logger) *CartController {
	return &CartController{Carts: carts, Logger: logger}
}

func (cc *CartController) cartID(c *gin.Context) string {
	id := c.GetHeader(CartIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(CartIDHeader, id)
	return id
}

func (cc *CartController) respondCart(c *gin.Context, cart *models.Cart) {
	c.JSON(http.StatusOK, gin.H{
		"id":      cart.ID,
		"items":   cart.Items,
		"summary": cart.Summary(),
	})
}

// GetCart returns the cart and its derived aggregates.
func (cc *CartController) GetCart(c *gin.Context) {
	cartID := cc.cartID(c)

	cart, err := cc.Carts.GetCart(c.Request.Context(), cartID)
	if err != nil {
		cc.Logger.Error("Failed to load cart", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get cart"})
		return
	}

	cc.respondCart(c, cart)
}

// AddItem adds or increments an item in the cart.
func (cc *CartController) AddItem(c *gin.Context) {
	cartID := cc.cartID(c)

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.Carts.AddItem(c.Request.Context(), cartID, req)
	if err != nil {
		cc.Logger.Error("Failed to add cart item", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return
	}

	cc.respondCart(c, cart)
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	cartID := cc.cartID(c)
	itemID := c.Param("item_id")

	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	cart, err := cc.Carts.UpdateQuantity(c.Request.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		cc.Logger.Error("Failed to update cart item", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	cc.respondCart(c, cart)
}

// RemoveItem drops an item from the cart.
func (cc *CartController) RemoveItem(c *gin.Context) {
	cartID := cc.cartID(c)
	itemID := c.Param("item_id")

	cart, err := cc.Carts.RemoveItem(c.Request.Context(), cartID, itemID)
	if err != nil {
		cc.Logger.Error("Failed to remove cart item", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	cc.respondCart(c, cart)
}

// ClearCart removes all items. Clearing an empty cart is a no-op.
func (cc *CartController) ClearCart(c *gin.Context) {
	cartID := cc.cartID(c)

	if err := cc.Carts.ClearCart(c.Request.Context(), cartID); err != nil {
		cc.Logger.Error("Failed to clear cart", zap.String("cart_id", cartID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
