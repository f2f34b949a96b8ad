package controllers

import (
	"errors"
	"net/http"

	"storefront-service/models"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// genericCheckoutError is the only failure detail the browser ever
// sees for upstream problems; diagnostics stay in the server logs.
const genericCheckoutError = "Payment processing error. Please try again."

type CheckoutController struct {
	Checkout *services.CheckoutService
	Gateway  services.PaymentGateway
	Carts    *services.CartService
	Logger   *zap.Logger
}

func NewCheckoutController(checkout *services.CheckoutService, gateway services.PaymentGateway, carts *services.CartService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		Checkout: checkout,
		Gateway:  gateway,
		Carts:    carts,
		Logger:   logger,
	}
}

// CreateCheckoutSession validates the request and creates a hosted
// payment session, returning only the session ID and redirect URL.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	validated, err := services.ValidateCheckoutRequest(&req)
	if err != nil {
		var fieldErr *services.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Message, "details": fieldErr.Field})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := cc.Checkout.Build(c.Request.Context(), validated, c.GetHeader("Origin"))
	if err != nil {
		cc.Logger.Error("Checkout session creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericCheckoutError})
		return
	}

	cc.clearCartIfPresent(c)

	c.JSON(http.StatusOK, result)
}

// GetSessionStatus confirms a success-page redirect. Observing the
// confirmation also clears the caller's cart.
func (cc *CheckoutController) GetSessionStatus(c *gin.Context) {
	sessionID := c.Param("id")

	sess, err := cc.Gateway.GetCheckoutSession(c.Request.Context(), sessionID)
	if err != nil {
		// Only a confirmed missing resource is a 404. A gateway outage
		// must not tell a paid customer their session does not exist.
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			cc.Logger.Warn("Checkout session not found", zap.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		cc.Logger.Error("Checkout session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericCheckoutError})
		return
	}

	cc.clearCartIfPresent(c)

	status := models.SessionStatus{
		ID:            sess.ID,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
	}
	if sess.CustomerDetails != nil {
		status.CustomerEmail = sess.CustomerDetails.Email
	}

	c.JSON(http.StatusOK, status)
}

// clearCartIfPresent empties the caller's cart once a redirect has
// been issued or confirmed. Idempotent; failures are logged only.
func (cc *CheckoutController) clearCartIfPresent(c *gin.Context) {
	cartID := c.GetHeader(CartIDHeader)
	if cartID == "" {
		return
	}
	if err := cc.Carts.ClearCart(c.Request.Context(), cartID); err != nil {
		cc.Logger.Warn("Failed to clear cart after checkout", zap.String("cart_id", cartID), zap.Error(err))
	}
}
