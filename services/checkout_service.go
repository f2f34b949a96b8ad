package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"storefront-service/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

const (
	sessionCurrency = "usd"
	metadataSource  = "durvalis_website"

	// Fallback copy when the browser sends an item without a description.
	defaultItemDescription = "Professional-grade apple-flavored dewormer for complete equine parasite control"

	shippingDisplayName    = "Free Standard Shipping"
	shippingEstimateMinDay = 3
	shippingEstimateMaxDay = 5
)

var allowedShippingCountries = []string{"US", "CA"}

// CheckoutService turns a validated checkout request into a hosted
// payment session. Only the session ID and redirect URL leave this
// package; none of the gateway configuration is echoed back.
type CheckoutService struct {
	gateway      PaymentGateway
	publicOrigin string
	logger       *zap.Logger
}

func NewCheckoutService(gateway PaymentGateway, publicOrigin string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gateway:      gateway,
		publicOrigin: strings.TrimSuffix(publicOrigin, "/"),
		logger:       logger,
	}
}

// Build creates the checkout session. Automatic tax is an optional
// capability of the gateway: the first attempt enables it, and a
// failure classified as tax-related gets exactly one retry with tax
// disabled. Any other failure propagates immediately so it is never
// masked by a pointless second attempt.
func (s *CheckoutService) Build(ctx context.Context, req *models.ValidatedRequest, requestOrigin string) (*models.CheckoutSessionResult, error) {
	sess, err := s.gateway.CreateCheckoutSession(ctx, s.sessionParams(req, requestOrigin, true))
	if err != nil {
		if !isTaxCapabilityError(err) {
			return nil, err
		}
		s.logger.Warn("Automatic tax unavailable, retrying session without tax", zap.Error(err))
		sess, err = s.gateway.CreateCheckoutSession(ctx, s.sessionParams(req, requestOrigin, false))
		if err != nil {
			return nil, err
		}
	}

	return &models.CheckoutSessionResult{ID: sess.ID, URL: sess.URL}, nil
}

func (s *CheckoutService) sessionParams(req *models.ValidatedRequest, requestOrigin string, withTax bool) *stripe.CheckoutSessionParams {
	origin := strings.TrimSuffix(requestOrigin, "/")
	if origin == "" {
		origin = s.publicOrigin
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		description := item.Description
		if description == "" {
			description = defaultItemDescription
		}

		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(item.Name),
			Description: stripe.String(description),
		}
		if item.Image != "" {
			productData.Images = []*string{stripe.String(s.absoluteImageURL(item.Image))}
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(sessionCurrency),
				UnitAmount:  stripe.Int64(ToMinorUnits(item.Price)),
				ProductData: productData,
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(origin + "/checkout"),
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(0),
						Currency: stripe.String(sessionCurrency),
					},
					DisplayName: stripe.String(shippingDisplayName),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(shippingEstimateMinDay),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(shippingEstimateMaxDay),
						},
					},
				},
			},
		},
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(allowedShippingCountries),
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		CustomerCreation: stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
	}

	if withTax {
		params.AutomaticTax = &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(true),
		}
	}

	// The metadata round-trips back on the webhook event.
	params.AddMetadata("source", metadataSource)
	params.AddMetadata("deliveryInstructions", req.DeliveryInstructions)
	params.AddMetadata("marketingOptIn", strconv.FormatBool(req.MarketingOptIn))

	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	return params
}

func (s *CheckoutService) absoluteImageURL(image string) string {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	if !strings.HasPrefix(image, "/") {
		image = "/" + image
	}
	return s.publicOrigin + image
}

// ToMinorUnits converts a decimal price to integer minor currency
// units. Rounding rule: round-half-to-even (banker's rounding).
func ToMinorUnits(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).RoundBank(0).IntPart()
}

// isTaxCapabilityError reports whether a session-creation failure is
// attributable to the automatic-tax capability, the only failure that
// warrants the no-tax retry.
func isTaxCapabilityError(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	if strings.Contains(stripeErr.Param, "automatic_tax") {
		return true
	}
	msg := strings.ToLower(stripeErr.Msg)
	return strings.Contains(msg, "automatic tax") || strings.Contains(msg, "stripe tax")
}
