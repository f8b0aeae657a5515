// Package notify доставляет уведомления о проверке аккаунтов и объявлений по email и SMS.
// Доставка best-effort: ошибки логируются и пишутся в notification_logs, наружу не возвращаются.
package notify

import (
	"context"
	"errors"

	"iskort_backend/internal/models"
)

var ErrNoRecipient = errors.New("no recipient address")

// EmailSender - канал email
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender - канал SMS
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// Dispatcher принимает уведомление и доставляет его вне запроса
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
}

type Event string

const (
	EventAccountVerified Event = "account_verified"
	EventAccountRejected Event = "account_rejected"
	EventListingVerified Event = "listing_verified"
	EventListingRejected Event = "listing_rejected"
)

// Contact - куда и как доставлять
type Contact struct {
	Name       string                 `json:"name"`
	Email      string                 `json:"email"`
	Phone      string                 `json:"phone"`
	Preference models.NotifPreference `json:"preference"`
}

// Message - одно уведомление о переходе состояния
type Message struct {
	Event       Event              `json:"event"`
	SubjectKind models.SubjectKind `json:"subject_kind"`
	SubjectID   uint               `json:"subject_id"`
	// Title - название объявления, для аккаунтов пусто
	Title     string  `json:"title,omitempty"`
	Contact   Contact `json:"contact"`
	RequestID string  `json:"request_id,omitempty"`
}
