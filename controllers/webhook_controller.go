package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// EventLedger deduplicates webhook deliveries by event ID.
type EventLedger interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
}

type WebhookController struct {
	Gateway       services.PaymentGateway
	Ledger        EventLedger
	Notifications *services.NotificationService
	Logger        *zap.Logger
}

func NewWebhookController(gateway services.PaymentGateway, ledger EventLedger, notifications *services.NotificationService, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		Gateway:       gateway,
		Ledger:        ledger,
		Notifications: notifications,
		Logger:        logger,
	}
}

// HandleWebhook receives asynchronous gateway events. The payload is
// untrusted until signature verification succeeds; a rejected event
// triggers no side effects. A verified event is always acknowledged
// with 200, whatever its handler does, so the gateway does not
// retry-storm over a transient fulfillment failure.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	event, err := wc.Gateway.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		wc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	ctx := c.Request.Context()

	first, err := wc.Ledger.FirstDelivery(ctx, event.ID)
	if err != nil {
		// Fail open: a ledger outage must not drop real events, and
		// the handlers tolerate a re-dispatch.
		wc.Logger.Warn("Event ledger unavailable, processing without dedupe",
			zap.String("event_id", event.ID), zap.Error(err))
	} else if !first {
		wc.Logger.Info("Skipping redelivered webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	wc.Logger.Info("Processing webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(ctx, event)
	case "payment_intent.succeeded":
		wc.logPaymentIntent(event, "Payment intent succeeded")
	case "payment_intent.payment_failed":
		wc.logPaymentIntent(event, "Payment intent failed")
	default:
		// Unknown types are acknowledged so new gateway event types
		// never break delivery.
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (wc *WebhookController) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.String("event_id", event.ID), zap.Error(err))
		return
	}

	wc.Logger.Info("Checkout session completed",
		zap.String("session_id", sess.ID),
		zap.Int64("amount_total", sess.AmountTotal),
		zap.String("payment_status", string(sess.PaymentStatus)),
	)

	lineItems, err := wc.Gateway.ListLineItems(ctx, sess.ID)
	if err != nil {
		wc.Logger.Error("Failed to fetch session line items",
			zap.String("session_id", sess.ID), zap.Error(err))
		return
	}

	if err := wc.Notifications.SendOrderConfirmation(ctx, &sess, lineItems); err != nil {
		wc.Logger.Error("Order confirmation dispatch incomplete",
			zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func (wc *WebhookController) logPaymentIntent(event stripe.Event, msg string) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		wc.Logger.Error("Failed to unmarshal payment intent", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	wc.Logger.Info(msg,
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount),
	)
}
