package sender

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LogSender logs instead of sending. Used when the service runs
// without SMTP credentials (NOTIFICATIONS_DISABLED=true).
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, _ string) (SendResult, error) {
	s.logger.Info("Email dispatch skipped (notifications disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
