package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/email"
	"storefront-service/sender"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// NotificationService renders and dispatches order confirmations. A
// failed send never contests the payment, which is already committed
// at the gateway; errors are reported for logging only.
type NotificationService struct {
	sender        sender.EmailSender
	operatorEmail string
	logger        *zap.Logger
}

func NewNotificationService(emailSender sender.EmailSender, operatorEmail string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender:        emailSender,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

// SendOrderConfirmation emails the confirmation document to the
// customer (when an email was captured) and to the operator mailbox.
// Each dispatch is attempted independently.
func (n *NotificationService) SendOrderConfirmation(ctx context.Context, session *stripe.CheckoutSession, lineItems []*stripe.LineItem) error {
	body := email.BuildOrderConfirmation(session, lineItems)

	var errs []error

	customerEmail := ""
	if session.CustomerDetails != nil {
		customerEmail = session.CustomerDetails.Email
	}
	if customerEmail != "" {
		subject := fmt.Sprintf("Order Confirmation - %s", session.ID)
		if _, err := n.sender.SendEmail(ctx, customerEmail, subject, body); err != nil {
			n.logger.Error("Failed to send customer confirmation",
				zap.String("session_id", session.ID),
				zap.String("to", customerEmail),
				zap.Error(err),
			)
			errs = append(errs, err)
		} else {
			n.logger.Info("Customer confirmation sent",
				zap.String("session_id", session.ID),
				zap.String("to", customerEmail),
			)
		}
	}

	subject := fmt.Sprintf("New Order Received - %s", session.ID)
	if _, err := n.sender.SendEmail(ctx, n.operatorEmail, subject, body); err != nil {
		n.logger.Error("Failed to send operator notification",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
