package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/notify"
)

const workerName = "notification_worker"

// NotificationQueue - источник сообщений (notify.RedisQueue)
type NotificationQueue interface {
	Pop(ctx context.Context, wait time.Duration) (*notify.Message, error)
}

// NotificationWorker забирает уведомления из очереди и доставляет их по одному
type NotificationWorker struct {
	queue     NotificationQueue
	deliverer notify.MessageDeliverer
	timeout   time.Duration
	pollWait  time.Duration
	backoff   time.Duration
	wg        sync.WaitGroup
}

func NewNotificationWorker(queue NotificationQueue, deliverer notify.MessageDeliverer, timeout time.Duration) *NotificationWorker {
	return &NotificationWorker{
		queue:     queue,
		deliverer: deliverer,
		timeout:   timeout,
		pollWait:  5 * time.Second,
		backoff:   time.Second,
	}
}

// Start запускает цикл чтения очереди до отмены ctx
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Wait дожидается остановки цикла после отмены ctx
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	logger.WorkerLog(workerName, "start", nil)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
		}

		msg, err := w.queue.Pop(ctx, w.pollWait)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			logger.WorkerLog(workerName, "pop", err)
			w.sleep(ctx)
			continue
		}
		if msg == nil {
			continue
		}

		w.deliver(ctx, *msg)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, msg notify.Message) {
	sendCtx := ctx
	if msg.RequestID != "" {
		sendCtx = logger.WithRequestID(ctx, msg.RequestID)
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(sendCtx), w.timeout)
	defer cancel()

	err := w.deliverer.Deliver(sendCtx, msg)
	logger.WorkerLog(workerName, string(msg.Event), err)
}

func (w *NotificationWorker) sleep(ctx context.Context) {
	t := time.NewTimer(w.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
