package notify

import (
	"context"
	"sync"
	"time"

	"iskort_backend/internal/logger"
)

// MessageDeliverer - то, что умеет доставить одно сообщение (Deliverer)
type MessageDeliverer interface {
	Deliver(ctx context.Context, msg Message) error
}

// AsyncDispatcher доставляет каждое сообщение в своей горутине.
// Контекст запроса отвязан от отмены, время доставки ограничено timeout.
type AsyncDispatcher struct {
	deliverer MessageDeliverer
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewAsyncDispatcher(deliverer MessageDeliverer, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AsyncDispatcher{deliverer: deliverer, timeout: timeout}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, msg Message) {
	if ctx == nil {
		ctx = context.Background()
	}
	if msg.RequestID == "" {
		msg.RequestID = logger.GetRequestID(ctx)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if err := d.deliverer.Deliver(sendCtx, msg); err != nil {
			logger.CtxWarn(sendCtx, "notification not fully delivered",
				"event", msg.Event,
				"subject_kind", msg.SubjectKind,
				"subject_id", msg.SubjectID,
				"error", err.Error(),
			)
			return
		}
		logger.CtxDebug(sendCtx, "notification delivered", "event", msg.Event, "subject_id", msg.SubjectID)
	}()
}

// Wait дожидается всех запущенных доставок (graceful shutdown, тесты)
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
