package email_test

import (
	"encoding/json"
	"strings"
	"testing"

	"storefront-service/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
)

// testSession decodes from JSON the way webhook payloads arrive.
func testSession(t *testing.T) *stripe.CheckoutSession {
	t.Helper()
	var sess stripe.CheckoutSession
	err := json.Unmarshal([]byte(`{
		"id": "cs_test_abc123",
		"amount_total": 5897,
		"created": 1735689600,
		"customer_details": {"name": "Jane Rider", "email": "jane@example.com"},
		"shipping_details": {
			"name": "Jane Rider",
			"address": {"line1": "1 Stable Lane", "city": "Austin", "state": "TX", "postal_code": "78731", "country": "US"}
		},
		"total_details": {"amount_tax": 412},
		"metadata": {"deliveryInstructions": "leave at the barn door"}
	}`), &sess)
	require.NoError(t, err)
	return &sess
}

func testLineItems() []*stripe.LineItem {
	return []*stripe.LineItem{
		{Description: "Single Tube", Quantity: 1, AmountTotal: 1499},
		{Description: "2-Pack", Quantity: 2, AmountTotal: 4398},
	}
}

func TestBuildOrderConfirmation(t *testing.T) {
	body := email.BuildOrderConfirmation(testSession(t), testLineItems())

	assert.Contains(t, body, "cs_test_abc123")
	assert.Contains(t, body, "Jane Rider")
	assert.Contains(t, body, "jane@example.com")
	assert.Contains(t, body, "Single Tube")
	assert.Contains(t, body, "Quantity: 2")
	assert.Contains(t, body, "$14.99")
	assert.Contains(t, body, "$43.98")
	assert.Contains(t, body, "$4.12")  // tax
	assert.Contains(t, body, "$58.97") // total
	assert.Contains(t, body, "1 Stable Lane")
	assert.Contains(t, body, "leave at the barn door")
	assert.Contains(t, body, "FREE")
}

func TestBuildOrderConfirmation_MinimalSession(t *testing.T) {
	sess := &stripe.CheckoutSession{ID: "cs_min", AmountTotal: 1499, Created: 1735689600}

	body := email.BuildOrderConfirmation(sess, nil)

	assert.Contains(t, body, "cs_min")
	assert.Contains(t, body, "Hi <strong>Customer</strong>")
	assert.Contains(t, body, "N/A")
	assert.NotContains(t, body, "Delivery Instructions")
}

func TestBuildOrderConfirmation_EscapesUserContent(t *testing.T) {
	sess := testSession(t)
	sess.Metadata["deliveryInstructions"] = `<script>alert("x")</script>`
	lineItems := []*stripe.LineItem{
		{Description: `Tube <img src=x>`, Quantity: 1, AmountTotal: 1499},
	}

	body := email.BuildOrderConfirmation(sess, lineItems)

	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "<img src=x>")
	assert.True(t, strings.Contains(body, "&lt;script&gt;"))
}
