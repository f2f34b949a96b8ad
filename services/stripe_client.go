package services

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentGateway is the narrow slice of the payment provider this
// service depends on. Tests substitute mocks.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
	ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)
	VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error)
}

// gatewayCallTimeout bounds every outbound Stripe call.
const gatewayCallTimeout = 15 * time.Second

type StripeService struct {
	SecretKey  string
	WebhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()
	params.Context = ctx
	return session.New(params)
}

func (s *StripeService) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return session.Get(sessionID, params)
}

func (s *StripeService) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()

	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	var items []*stripe.LineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// VerifyWebhook reconstructs the signature from the raw payload and the
// shared secret. The payload must not be read before this succeeds.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
