package services

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"storefront-service/models"
)

const (
	maxItemQuantity    = 100
	maxNameLen         = 100 // Stripe product name limit
	maxDescriptionLen  = 200 // Stripe product description limit
	maxInstructionsLen = 500
)

// FieldError identifies which category of the request was rejected.
// It is safe to return to the browser.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCheckoutRequest checks and normalizes an untrusted checkout
// request. The first violated rule short-circuits; a rejected request
// has no side effects. All rules are enforced here regardless of what
// the browser already checked.
func ValidateCheckoutRequest(req *models.CheckoutRequest) (*models.ValidatedRequest, error) {
	if len(req.Items) == 0 {
		return nil, &FieldError{Field: "items", Message: "at least one item is required"}
	}

	validated := &models.ValidatedRequest{
		Items: make([]models.ValidatedItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, &FieldError{Field: "name", Message: "item name is required"}
		}
		if item.Price <= 0 || math.IsInf(item.Price, 0) || math.IsNaN(item.Price) {
			return nil, &FieldError{Field: "price", Message: "item price must be a positive number"}
		}
		if item.Quantity != math.Trunc(item.Quantity) || item.Quantity < 1 || item.Quantity > maxItemQuantity {
			return nil, &FieldError{Field: "quantity", Message: fmt.Sprintf("item quantity must be an integer between 1 and %d", maxItemQuantity)}
		}

		validated.Items = append(validated.Items, models.ValidatedItem{
			Name:        truncate(item.Name, maxNameLen),
			Description: truncate(item.Description, maxDescriptionLen),
			Image:       item.Image,
			Price:       item.Price,
			Quantity:    int64(item.Quantity),
		})
	}

	if req.CustomerData != nil {
		validated.Email = strings.ToLower(strings.TrimSpace(req.CustomerData.Email))
		validated.DeliveryInstructions = truncate(req.CustomerData.DeliveryInstructions, maxInstructionsLen)
		validated.MarketingOptIn = coerceBool(req.CustomerData.MarketingOptIn)
	}

	return validated, nil
}

// truncate caps s at max characters, never splitting a multi-byte
// rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// coerceBool folds the loose values browsers send for a checkbox into
// a strict bool. Deliberately stricter than a bare JS Boolean() cast:
// the literal strings "false" and "0" count as false, so a form layer
// that stringifies its state cannot opt a customer in by accident.
func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != "" && val != "false" && val != "0"
	case float64:
		return val != 0
	default:
		return false
	}
}
