package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
	"iskort_backend/test/helpers"
)

type memRecorder struct {
	mu      sync.Mutex
	entries []models.NotificationLog
}

func (r *memRecorder) Record(_ context.Context, entry *models.NotificationLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
}

func (r *memRecorder) byChannel(channel models.NotificationChannel) []models.NotificationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.NotificationLog
	for _, e := range r.entries {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

func message(pref models.NotifPreference, phone string) notify.Message {
	return notify.Message{
		Event:       notify.EventListingVerified,
		SubjectKind: models.KindEatery,
		SubjectID:   7,
		Title:       "Dastarkhan",
		Contact: notify.Contact{
			Name:       "Aigerim",
			Email:      "aigerim@example.com",
			Phone:      phone,
			Preference: pref,
		},
	}
}

func TestDeliver_ChannelSelection(t *testing.T) {
	tests := []struct {
		name      string
		pref      models.NotifPreference
		phone     string
		wantEmail int
		wantSMS   int
		wantSkip  bool
	}{
		{name: "email", pref: models.NotifEmail, phone: "+7701", wantEmail: 1},
		{name: "empty preference means email", pref: "", phone: "+7701", wantEmail: 1},
		{name: "sms", pref: models.NotifSMS, phone: "+7701", wantSMS: 1},
		{name: "both", pref: models.NotifBoth, phone: "+7701", wantEmail: 1, wantSMS: 1},
		{name: "sms without phone", pref: models.NotifSMS, wantSkip: true},
		{name: "both without phone", pref: models.NotifBoth, wantEmail: 1, wantSkip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &helpers.FakeSender{}
			recorder := &memRecorder{}
			d := notify.NewDeliverer(sender, sender, notify.MustTemplates(), recorder)

			require.NoError(t, d.Deliver(context.Background(), message(tt.pref, tt.phone)))

			emails, sms := sender.Sent()
			assert.Equal(t, tt.wantEmail, emails)
			assert.Equal(t, tt.wantSMS, sms)

			smsLogs := recorder.byChannel(models.ChannelSMS)
			if tt.wantSkip {
				require.Len(t, smsLogs, 1)
				assert.Equal(t, models.NotificationSkipped, smsLogs[0].Status)
			} else {
				assert.Len(t, smsLogs, tt.wantSMS)
			}
			assert.Len(t, recorder.byChannel(models.ChannelEmail), tt.wantEmail)
		})
	}
}

type splitSender struct {
	helpers.FakeSender
	emailErr error
}

func (s *splitSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if s.emailErr != nil {
		return s.emailErr
	}
	return s.FakeSender.SendEmail(ctx, to, subject, body)
}

func TestDeliver_FailedChannelDoesNotBlockOther(t *testing.T) {
	sender := &splitSender{emailErr: errors.New("smtp down")}
	recorder := &memRecorder{}
	d := notify.NewDeliverer(sender, sender, notify.MustTemplates(), recorder)

	err := d.Deliver(context.Background(), message(models.NotifBoth, "+77010000000"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")

	_, sms := sender.Sent()
	assert.Equal(t, 1, sms)

	emailLogs := recorder.byChannel(models.ChannelEmail)
	require.Len(t, emailLogs, 1)
	assert.Equal(t, models.NotificationFailed, emailLogs[0].Status)
	assert.Equal(t, "smtp down", emailLogs[0].Error)

	smsLogs := recorder.byChannel(models.ChannelSMS)
	require.Len(t, smsLogs, 1)
	assert.Equal(t, models.NotificationSent, smsLogs[0].Status)
	assert.Equal(t, "+77010000000", smsLogs[0].Recipient)
}

func TestDeliver_UnknownEvent(t *testing.T) {
	d := notify.NewDeliverer(&helpers.FakeSender{}, &helpers.FakeSender{}, notify.MustTemplates(), nil)
	msg := message(models.NotifEmail, "")
	msg.Event = "something_else"

	assert.Error(t, d.Deliver(context.Background(), msg))
}

func TestGormRecorder_PersistsAttempts(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := repositories.NewNotificationRepository()
	sender := &helpers.FakeSender{}
	d := notify.NewDeliverer(sender, sender, notify.MustTemplates(), notify.NewGormRecorder(db, repo))

	require.NoError(t, d.Deliver(context.Background(), message(models.NotifBoth, "+77010000000")))

	var logs []models.NotificationLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, string(notify.EventListingVerified), entry.Event)
		assert.Equal(t, string(models.KindEatery), entry.SubjectKind)
		assert.EqualValues(t, 7, entry.SubjectID)
		assert.Equal(t, models.NotificationSent, entry.Status)
		assert.NotEmpty(t, entry.Payload)
	}
}

func TestTemplates_RenderAllEvents(t *testing.T) {
	tpl, err := notify.NewTemplates()
	require.NoError(t, err)

	events := []notify.Event{
		notify.EventAccountVerified,
		notify.EventAccountRejected,
		notify.EventListingVerified,
		notify.EventListingRejected,
	}
	for _, event := range events {
		msg := message(models.NotifEmail, "")
		msg.Event = event

		rendered, err := tpl.Render(msg)
		require.NoError(t, err, event)
		assert.NotEmpty(t, rendered.Subject)
		assert.Contains(t, rendered.EmailBody, "Aigerim")
		assert.Contains(t, rendered.SMSBody, "Iskort")
	}

	msg := message(models.NotifEmail, "")
	msg.Contact.Name = "<script>"
	rendered, err := tpl.Render(msg)
	require.NoError(t, err)
	assert.NotContains(t, rendered.EmailBody, "<script>")
}
