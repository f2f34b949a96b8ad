package controllers_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"storefront-service/controllers"
	"storefront-service/models"
	"storefront-service/routes"
	"storefront-service/sender"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// ---- mock gateway ----

type mockGateway struct {
	createCalls []*stripe.CheckoutSessionParams
	createErr   error
	session     *stripe.CheckoutSession
	getErr      error

	listCalls    int
	lineItems    []*stripe.LineItem
	lineItemsErr error
}

func (m *mockGateway) CreateCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.createCalls = append(m.createCalls, params)
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.session, nil
}

func (m *mockGateway) GetCheckoutSession(_ context.Context, _ string) (*stripe.CheckoutSession, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.session, nil
}

func (m *mockGateway) ListLineItems(_ context.Context, _ string) ([]*stripe.LineItem, error) {
	m.listCalls++
	return m.lineItems, m.lineItemsErr
}

// VerifyWebhook runs the real signature check against the test secret.
func (m *mockGateway) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, testWebhookSecret)
}

// ---- mock event ledger ----

type mockLedger struct {
	seen  map[string]bool
	err   error
	calls int
}

func newMockLedger() *mockLedger {
	return &mockLedger{seen: make(map[string]bool)}
}

func (m *mockLedger) FirstDelivery(_ context.Context, eventID string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	if m.seen[eventID] {
		return false, nil
	}
	m.seen[eventID] = true
	return true, nil
}

// ---- mock email sender ----

type sentEmail struct {
	to      string
	subject string
	body    string
}

type mockSender struct {
	sent []sentEmail
	err  error
}

func (m *mockSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return sender.SendResult{}, m.err
}

// ---- mock cart repository ----

type mockCartRepo struct {
	carts    map[string][]models.CartItem
	delCalls int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string][]models.CartItem)}
}

func (m *mockCartRepo) GetCart(_ context.Context, cartID string) (*models.Cart, error) {
	items, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	return &models.Cart{ID: cartID, Items: items}, nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	m.carts[cart.ID] = cart.Items
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, cartID string) error {
	m.delCalls++
	delete(m.carts, cartID)
	return nil
}

// ---- fixtures ----

type testEnv struct {
	router   *gin.Engine
	gateway  *mockGateway
	ledger   *mockLedger
	sender   *mockSender
	cartRepo *mockCartRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gw := &mockGateway{}
	ledger := newMockLedger()
	snd := &mockSender{}
	repo := newMockCartRepo()
	log := zap.NewNop()

	cartSvc := services.NewCartService(repo, log)
	checkoutSvc := services.NewCheckoutService(gw, "https://durvalis.com", log)
	notifySvc := services.NewNotificationService(snd, "info@durvalis.com", log)

	r := gin.New()
	routes.Register(r,
		controllers.NewCartController(cartSvc, log),
		controllers.NewCheckoutController(checkoutSvc, gw, cartSvc, log),
		controllers.NewWebhookController(gw, ledger, notifySvc, log),
		"*",
	)

	return &testEnv{router: r, gateway: gw, ledger: ledger, sender: snd, cartRepo: repo}
}

// signPayload forges a valid Stripe-Signature header for the payload.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// eventPayload builds a webhook event body that stripe-go will accept.
func eventPayload(eventID, eventType string, object string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": %s}
	}`, eventID, stripe.APIVersion, eventType, object))
}
