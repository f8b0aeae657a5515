package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iskort_backend/internal/notify"
)

type sliceQueue struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (q *sliceQueue) Pop(ctx context.Context, wait time.Duration) (*notify.Message, error) {
	q.mu.Lock()
	if len(q.messages) > 0 {
		msg := q.messages[0]
		q.messages = q.messages[1:]
		q.mu.Unlock()
		return &msg, nil
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(wait):
		return nil, nil
	}
}

type countingDeliverer struct {
	mu        sync.Mutex
	delivered []notify.Message
	done      chan struct{}
	want      int
}

func (d *countingDeliverer) Deliver(_ context.Context, msg notify.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, msg)
	if len(d.delivered) == d.want {
		close(d.done)
	}
	return nil
}

func TestNotificationWorker_DeliversQueuedMessages(t *testing.T) {
	queue := &sliceQueue{messages: []notify.Message{
		{Event: notify.EventAccountVerified, SubjectID: 1},
		{Event: notify.EventListingRejected, SubjectID: 2},
	}}
	deliverer := &countingDeliverer{done: make(chan struct{}), want: 2}

	worker := NewNotificationWorker(queue, deliverer, time.Second)
	worker.pollWait = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)

	select {
	case <-deliverer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not deliver queued messages")
	}

	cancel()
	worker.Wait()

	require.Len(t, deliverer.delivered, 2)
	assert.EqualValues(t, 1, deliverer.delivered[0].SubjectID)
	assert.EqualValues(t, 2, deliverer.delivered[1].SubjectID)
}
