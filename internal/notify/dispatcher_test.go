package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/internal/notify"
	"iskort_backend/test/helpers"
)

type fakeDeliverer struct {
	mu       sync.Mutex
	messages []notify.Message
	ctxErrs  []error
}

func (d *fakeDeliverer) Deliver(ctx context.Context, msg notify.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	return nil
}

func TestAsyncDispatcher_SurvivesRequestCancel(t *testing.T) {
	deliverer := &fakeDeliverer{}
	dispatcher := notify.NewAsyncDispatcher(deliverer, time.Second)

	ctx, cancel := context.WithCancel(logger.WithRequestID(context.Background(), "req-42"))
	dispatcher.Dispatch(ctx, message(models.NotifEmail, ""))
	cancel()
	dispatcher.Wait()

	require.Len(t, deliverer.messages, 1)
	assert.Equal(t, "req-42", deliverer.messages[0].RequestID)
	assert.NoError(t, deliverer.ctxErrs[0], "delivery context must not inherit request cancellation")
}

func TestRedisQueue_FallsBackWhenRedisUnavailable(t *testing.T) {
	client := notify.NewRedisClient("127.0.0.1:1", "", 0)
	defer client.Close()

	fallback := &helpers.RecordingDispatcher{}
	queue := notify.NewRedisQueue(client, "iskort:test", fallback)

	queue.Dispatch(context.Background(), message(models.NotifEmail, ""))

	messages := fallback.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, notify.EventListingVerified, messages[0].Event)
}

func TestHTTPSMSSender(t *testing.T) {
	var got struct {
		To      string `json:"to"`
		Message string `json:"message"`
		Sender  string `json:"sender"`
	}
	var auth string

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.To == "+70000000000" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("rejected"))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer gateway.Close()

	sender := notify.NewHTTPSMSSender(notify.HTTPSMSConfig{
		Endpoint: gateway.URL,
		APIKey:   "key-1",
		Sender:   "ISKORT",
	}, gateway.Client())

	require.NoError(t, sender.SendSMS(context.Background(), "+77015554433", "hello"))
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "+77015554433", got.To)
	assert.Equal(t, "hello", got.Message)
	assert.Equal(t, "ISKORT", got.Sender)

	err := sender.SendSMS(context.Background(), "+70000000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	assert.ErrorIs(t, sender.SendSMS(context.Background(), "", "hello"), notify.ErrNoRecipient)
}
