package notify

import (
	"context"

	"iskort_backend/internal/logger"
)

// LogSender пишет уведомления в лог вместо реальной отправки (development, SMS без провайдера)
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	logger.CtxInfo(ctx, "email (log sink)", "to", to, "subject", subject, "body_bytes", len(body))
	return nil
}

func (s *LogSender) SendSMS(ctx context.Context, to, message string) error {
	if to == "" {
		return ErrNoRecipient
	}
	logger.CtxInfo(ctx, "sms (log sink)", "to", to, "message", message)
	return nil
}
