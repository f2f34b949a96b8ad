package routes

import (
	"net/http"

	"storefront-service/controllers"
	"storefront-service/middleware"

	"github.com/gin-gonic/gin"
)

// Register wires up the HTTP surface. The webhook endpoint sits outside
// the rate-limited /api group: its caller is the payment gateway, not a
// browser, and its only protection is signature verification.
// CORS goes on the engine, not the group: preflight OPTIONS requests
// have no registered route and only engine-level middleware runs on
// the method-not-allowed path.
func Register(r *gin.Engine, cart *controllers.CartController, checkout *controllers.CheckoutController, webhook *controllers.WebhookController, allowedOrigins string) {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware(allowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware())

	api.GET("/cart", cart.GetCart)
	api.POST("/cart/items", cart.AddItem)
	api.PUT("/cart/items/:item_id", cart.UpdateQuantity)
	api.DELETE("/cart/items/:item_id", cart.RemoveItem)
	api.DELETE("/cart", cart.ClearCart)

	api.POST("/create-checkout-session", checkout.CreateCheckoutSession)
	api.GET("/checkout/session/:id", checkout.GetSessionStatus)

	r.POST("/stripe/webhook", webhook.HandleWebhook)
}
