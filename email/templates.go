package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v80"
)

// BuildOrderConfirmation renders the order-confirmation document for a
// completed checkout session. The document is ephemeral: it exists only
// for the duration of dispatch and is never persisted.
func BuildOrderConfirmation(session *stripe.CheckoutSession, lineItems []*stripe.LineItem) string {
	customerName := "Customer"
	customerEmail := ""
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Name != "" {
			customerName = session.CustomerDetails.Name
		}
		customerEmail = session.CustomerDetails.Email
	}

	orderDate := time.Unix(session.Created, 0).UTC().Format("January 2, 2006 15:04")

	var itemsHTML strings.Builder
	for _, item := range lineItems {
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #e5e7eb;">
					<strong>%s</strong><br>
					<span style="color: #6b7280; font-size: 14px;">Quantity: %d</span>
				</td>
				<td style="padding: 12px; border-bottom: 1px solid #e5e7eb; text-align: right;">$%s</td>
			</tr>`,
			html.EscapeString(item.Description),
			item.Quantity,
			formatAmount(item.AmountTotal),
		))
	}

	var amountTax int64
	if session.TotalDetails != nil {
		amountTax = session.TotalDetails.AmountTax
	}

	shippingName := customerName
	shippingAddress := "N/A"
	if session.ShippingDetails != nil {
		if session.ShippingDetails.Name != "" {
			shippingName = session.ShippingDetails.Name
		}
		if addr := session.ShippingDetails.Address; addr != nil {
			line := addr.Line1
			if addr.Line2 != "" {
				line += ", " + addr.Line2
			}
			shippingAddress = fmt.Sprintf("%s<br>%s, %s %s<br>%s",
				html.EscapeString(line),
				html.EscapeString(addr.City),
				html.EscapeString(addr.State),
				html.EscapeString(addr.PostalCode),
				html.EscapeString(addr.Country),
			)
		}
	}

	instructionsHTML := ""
	if instructions := session.Metadata["deliveryInstructions"]; instructions != "" {
		instructionsHTML = fmt.Sprintf(`
			<h2 style="margin: 30px 0 15px 0; font-size: 20px; color: #111827;">Delivery Instructions</h2>
			<div style="padding: 15px; background-color: #fef3c7; border-radius: 8px; border: 1px solid #fbbf24;">
				<p style="margin: 0; color: #92400e;">%s</p>
			</div>`, html.EscapeString(instructions))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Order Confirmation</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
	<table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f3f4f6; padding: 20px;">
		<tr>
			<td align="center">
				<table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
					<tr>
						<td style="background: linear-gradient(135deg, #dc2626 0%%, #b91c1c 100%%); padding: 40px 30px; text-align: center;">
							<h1 style="margin: 0; color: #ffffff; font-size: 28px; font-weight: bold;">Order Confirmation</h1>
							<p style="margin: 10px 0 0 0; color: #fecaca; font-size: 16px;">Thank you for your purchase!</p>
						</td>
					</tr>
					<tr>
						<td style="padding: 30px;">
							<p style="margin: 0 0 20px 0; font-size: 16px; color: #374151;">Hi <strong>%s</strong>,</p>
							<p style="margin: 0 0 20px 0; font-size: 16px; color: #374151; line-height: 1.6;">
								Your order has been confirmed and will be shipped soon. Here are your order details:
							</p>
							<table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f9fafb; border-radius: 8px; margin-bottom: 20px;">
								<tr><td style="padding: 20px;">
									<table width="100%%" cellpadding="0" cellspacing="0">
										<tr>
											<td style="padding: 8px 0;"><strong style="color: #6b7280;">Order Number:</strong></td>
											<td style="padding: 8px 0; text-align: right;"><span style="color: #111827;">%s</span></td>
										</tr>
										<tr>
											<td style="padding: 8px 0;"><strong style="color: #6b7280;">Order Date:</strong></td>
											<td style="padding: 8px 0; text-align: right;"><span style="color: #111827;">%s</span></td>
										</tr>
										<tr>
											<td style="padding: 8px 0;"><strong style="color: #6b7280;">Email:</strong></td>
											<td style="padding: 8px 0; text-align: right;"><span style="color: #111827;">%s</span></td>
										</tr>
									</table>
								</td></tr>
							</table>
							<h2 style="margin: 30px 0 15px 0; font-size: 20px; color: #111827;">Order Items</h2>
							<table width="100%%" cellpadding="0" cellspacing="0" style="border: 1px solid #e5e7eb; border-radius: 8px; overflow: hidden;">
								%s
								<tr>
									<td style="padding: 12px; background-color: #f9fafb;"><strong>Shipping</strong></td>
									<td style="padding: 12px; background-color: #f9fafb; text-align: right;"><span style="color: #059669; font-weight: bold;">FREE</span></td>
								</tr>
								<tr>
									<td style="padding: 12px; background-color: #f9fafb;"><strong>Tax</strong></td>
									<td style="padding: 12px; background-color: #f9fafb; text-align: right;">$%s</td>
								</tr>
								<tr>
									<td style="padding: 15px; background-color: #dc2626;"><strong style="color: #ffffff; font-size: 18px;">Total</strong></td>
									<td style="padding: 15px; background-color: #dc2626; text-align: right;"><strong style="color: #ffffff; font-size: 18px;">$%s</strong></td>
								</tr>
							</table>
							<h2 style="margin: 30px 0 15px 0; font-size: 20px; color: #111827;">Shipping Address</h2>
							<div style="padding: 15px; background-color: #f9fafb; border-radius: 8px; border: 1px solid #e5e7eb;">
								<p style="margin: 0; color: #374151; line-height: 1.6;"><strong>%s</strong><br>%s</p>
							</div>
							%s
							<h2 style="margin: 30px 0 15px 0; font-size: 20px; color: #111827;">What's Next?</h2>
							<ul style="color: #374151; line-height: 1.8; padding-left: 20px;">
								<li>Your order will be processed within 1-2 business days</li>
								<li>You'll receive a shipping confirmation email with tracking information</li>
								<li>Estimated delivery: 3-5 business days</li>
							</ul>
							<div style="margin-top: 30px; padding: 20px; background-color: #eff6ff; border-radius: 8px; border: 1px solid #3b82f6;">
								<p style="margin: 0 0 10px 0; color: #1e40af; font-weight: bold;">Need Help?</p>
								<p style="margin: 0; color: #1e3a8a; font-size: 14px;">
									Contact us at <a href="mailto:contact@durvalis.com" style="color: #2563eb;">contact@durvalis.com</a><br>
									or call <a href="tel:737-999-0318" style="color: #2563eb;">737-999-0318</a>
								</p>
							</div>
						</td>
					</tr>
					<tr>
						<td style="background-color: #f9fafb; padding: 30px; text-align: center; border-top: 1px solid #e5e7eb;">
							<p style="margin: 0 0 10px 0; color: #6b7280; font-size: 14px;">Thank you for choosing Durvalis!</p>
							<p style="margin: 0; color: #9ca3af; font-size: 12px;">
								Durvalis | 5900 Balcones Dr #22995, Austin, TX 78731
							</p>
						</td>
					</tr>
				</table>
			</td>
		</tr>
	</table>
</body>
</html>`,
		html.EscapeString(customerName),
		html.EscapeString(session.ID),
		orderDate,
		html.EscapeString(customerEmail),
		itemsHTML.String(),
		formatAmount(amountTax),
		formatAmount(session.AmountTotal),
		html.EscapeString(shippingName),
		shippingAddress,
		instructionsHTML,
	)
}

// formatAmount renders integer minor units as a dollar string.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
