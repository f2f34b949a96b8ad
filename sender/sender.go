package sender

import (
	"context"
	"time"
)

type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSender is the notification transport. Callers format the
// message themselves and hand over recipient, subject and body.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}
