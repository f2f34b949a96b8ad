package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one entry in a cart. Price, OriginalPrice and Savings are
// snapshots of the variant at add time; later catalog changes do not
// touch items already in the cart.
type CartItem struct {
	ID            string  `json:"id"` // compound key: productID-variantID
	ProductID     string  `json:"product_id"`
	VariantID     string  `json:"variant_id"`
	Name          string  `json:"name"`
	VariantName   string  `json:"variant_name,omitempty"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
	Savings       float64 `json:"savings,omitempty"`
	Image         string  `json:"image,omitempty"`
	PackQuantity  int     `json:"pack_quantity"`
	Quantity      int     `json:"quantity"`
}

// ItemKey builds the compound key that makes cart entries unique.
func ItemKey(productID, variantID string) string {
	return productID + "-" + variantID
}

type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartSummary holds the derived aggregates. They are computed on read
// and never stored.
type CartSummary struct {
	ItemCount    int     `json:"item_count"`
	TotalUnits   int     `json:"total_units"`
	Subtotal     float64 `json:"subtotal"`
	TotalSavings float64 `json:"total_savings"`
}

// Summary computes the cart aggregates with decimal math so fractional
// prices stay exact.
func (c *Cart) Summary() CartSummary {
	var s CartSummary
	subtotal := decimal.Zero
	savings := decimal.Zero

	for _, item := range c.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		s.ItemCount += item.Quantity
		s.TotalUnits += item.Quantity * item.PackQuantity
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Price).Mul(qty))
		if item.Savings > 0 {
			savings = savings.Add(decimal.NewFromFloat(item.Savings).Mul(qty))
		}
	}

	s.Subtotal, _ = subtotal.Round(2).Float64()
	s.TotalSavings, _ = savings.Round(2).Float64()
	return s
}
