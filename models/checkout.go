package models

// Product and Variant mirror the storefront catalog entries the browser
// sends when adding to the cart. The cart snapshots the variant's
// pricing at add time.
type Product struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

type Variant struct {
	ID            string  `json:"id" binding:"required"`
	Name          string  `json:"name"`
	PackQuantity  int     `json:"quantity"` // units per pack
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	Savings       float64 `json:"savings"`
}

type AddItemRequest struct {
	Product  Product `json:"product" binding:"required"`
	Variant  Variant `json:"variant" binding:"required"`
	Quantity int     `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutItem is one untrusted line item from the browser. Every field
// is validated server-side before it reaches Stripe.
// Quantity decodes as float64 so a fractional value reaches the
// validator as-is and gets a quantity-category rejection instead of a
// bare JSON unmarshal error.
type CheckoutItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// CustomerData carries the optional contact fields from the checkout
// form. MarketingOptIn is deliberately loose; the validator coerces it
// to a strict bool.
type CustomerData struct {
	Email                string `json:"email"`
	DeliveryInstructions string `json:"deliveryInstructions"`
	MarketingOptIn       any    `json:"marketingOptIn"`
}

type CheckoutRequest struct {
	Items        []CheckoutItem `json:"items"`
	CustomerData *CustomerData  `json:"customerData"`
}

// ValidatedItem is a CheckoutItem after sanitization: name/description
// trimmed to Stripe's field limits, price known positive and finite.
type ValidatedItem struct {
	Name        string
	Description string
	Image       string
	Price       float64
	Quantity    int64
}

type ValidatedRequest struct {
	Items                []ValidatedItem
	Email                string
	DeliveryInstructions string
	MarketingOptIn       bool
}

// CheckoutSessionResult is the only session data the browser ever sees.
type CheckoutSessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SessionStatus is returned to the success page to confirm a redirect.
type SessionStatus struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	CustomerEmail string `json:"customer_email,omitempty"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}
