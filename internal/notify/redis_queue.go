package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"iskort_backend/internal/logger"
)

const enqueueTimeout = 2 * time.Second

// RedisQueue кладёт уведомления в список Redis (LPUSH), воркер забирает их BRPOP.
// Если Redis недоступен, сообщение уходит в fallback.
type RedisQueue struct {
	client   *redis.Client
	key      string
	fallback Dispatcher
}

func NewRedisQueue(client *redis.Client, key string, fallback Dispatcher) *RedisQueue {
	return &RedisQueue{client: client, key: key, fallback: fallback}
}

func (q *RedisQueue) Dispatch(ctx context.Context, msg Message) {
	if msg.RequestID == "" {
		msg.RequestID = logger.GetRequestID(ctx)
	}

	payload, err := json.Marshal(msg)
	if err == nil {
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
		err = q.client.LPush(pushCtx, q.key, payload).Err()
		cancel()
	}
	if err != nil {
		logger.CtxWithError(ctx, "failed to enqueue notification, delivering in-process", err, "event", msg.Event)
		if q.fallback != nil {
			q.fallback.Dispatch(ctx, msg)
		}
		return
	}
	logger.CtxDebug(ctx, "notification enqueued", "event", msg.Event, "subject_id", msg.SubjectID)
}

// Pop ждёт следующее сообщение до wait. (nil, nil) - очередь пуста.
func (q *RedisQueue) Pop(ctx context.Context, wait time.Duration) (*Message, error) {
	res, err := q.client.BRPop(ctx, wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	// BRPOP возвращает [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("decode queued notification: %w", err)
	}
	return &msg, nil
}

// NewRedisClient - клиент по адресу из конфигурации
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
