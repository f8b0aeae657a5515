package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/repositories"
)

// Recorder сохраняет результат каждой попытки доставки
type Recorder interface {
	Record(ctx context.Context, entry *models.NotificationLog)
}

// Deliverer выбирает каналы по предпочтению контакта и отправляет по ним независимо
type Deliverer struct {
	email     EmailSender
	sms       SMSSender
	templates *Templates
	recorder  Recorder
}

func NewDeliverer(email EmailSender, sms SMSSender, templates *Templates, recorder Recorder) *Deliverer {
	return &Deliverer{
		email:     email,
		sms:       sms,
		templates: templates,
		recorder:  recorder,
	}
}

// Deliver делает одну попытку по каждому выбранному каналу.
// Ошибка одного канала не мешает другому; возвращается объединённая ошибка для лога.
func (d *Deliverer) Deliver(ctx context.Context, msg Message) error {
	rendered, err := d.templates.Render(msg)
	if err != nil {
		return err
	}

	payload, _ := json.Marshal(msg)
	pref := msg.Contact.Preference

	// errgroup без WithContext: ошибка одного канала не отменяет другой
	var g errgroup.Group
	var emailErr, smsErr error

	if pref.WantsEmail() {
		g.Go(func() error {
			emailErr = d.email.SendEmail(ctx, msg.Contact.Email, rendered.Subject, rendered.EmailBody)
			d.record(ctx, msg, models.ChannelEmail, msg.Contact.Email, rendered.Subject, emailErr, payload)
			return nil
		})
	}

	if pref.WantsSMS() {
		if msg.Contact.Phone == "" {
			d.recordSkipped(ctx, msg, payload)
		} else {
			g.Go(func() error {
				smsErr = d.sms.SendSMS(ctx, msg.Contact.Phone, rendered.SMSBody)
				d.record(ctx, msg, models.ChannelSMS, msg.Contact.Phone, rendered.Subject, smsErr, payload)
				return nil
			})
		}
	}

	_ = g.Wait()

	var errs []error
	if emailErr != nil {
		errs = append(errs, fmt.Errorf("email: %w", emailErr))
	}
	if smsErr != nil {
		errs = append(errs, fmt.Errorf("sms: %w", smsErr))
	}
	return errors.Join(errs...)
}

func (d *Deliverer) record(ctx context.Context, msg Message, channel models.NotificationChannel, recipient, subject string, sendErr error, payload []byte) {
	entry := &models.NotificationLog{
		Channel:     channel,
		Recipient:   recipient,
		Subject:     subject,
		Event:       string(msg.Event),
		SubjectKind: string(msg.SubjectKind),
		SubjectID:   msg.SubjectID,
		Status:      models.NotificationSent,
		Payload:     datatypes.JSON(payload),
	}
	if sendErr != nil {
		entry.Status = models.NotificationFailed
		entry.Error = sendErr.Error()
		logger.CtxWithError(ctx, "notification delivery failed", sendErr,
			"channel", channel,
			"event", msg.Event,
			"subject_kind", msg.SubjectKind,
			"subject_id", msg.SubjectID,
		)
	}
	if d.recorder != nil {
		d.recorder.Record(ctx, entry)
	}
}

// recordSkipped - SMS выбран, но телефона нет: пропускаем молча
func (d *Deliverer) recordSkipped(ctx context.Context, msg Message, payload []byte) {
	logger.CtxDebug(ctx, "sms skipped: no phone number", "subject_kind", msg.SubjectKind, "subject_id", msg.SubjectID)
	if d.recorder == nil {
		return
	}
	d.recorder.Record(ctx, &models.NotificationLog{
		Channel:     models.ChannelSMS,
		Event:       string(msg.Event),
		SubjectKind: string(msg.SubjectKind),
		SubjectID:   msg.SubjectID,
		Status:      models.NotificationSkipped,
		Payload:     datatypes.JSON(payload),
	})
}

// GormRecorder пишет попытки в notification_logs
type GormRecorder struct {
	db   *gorm.DB
	repo repositories.NotificationRepository
}

func NewGormRecorder(db *gorm.DB, repo repositories.NotificationRepository) *GormRecorder {
	return &GormRecorder{db: db, repo: repo}
}

func (r *GormRecorder) Record(ctx context.Context, entry *models.NotificationLog) {
	if err := r.repo.Create(r.db.WithContext(ctx), entry); err != nil {
		logger.CtxWithError(ctx, "failed to record notification attempt", err, "channel", entry.Channel)
	}
}
