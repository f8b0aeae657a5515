package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"iskort_backend/internal/config"
	"iskort_backend/internal/logger"
	"iskort_backend/internal/notify"
	"iskort_backend/internal/repositories"
	"iskort_backend/internal/workers"
)

type notifier struct {
	dispatcher notify.Dispatcher
	close      func()
}

// buildNotifier собирает каналы, шаблоны и диспетчер по конфигурации
func buildNotifier(ctx context.Context, cfg *config.Config, db *gorm.DB) (*notifier, error) {
	var emailSender notify.EmailSender = notify.NewLogSender()
	if cfg.Email.Enabled {
		emailSender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			From:     cfg.Email.FromEmail,
			FromName: cfg.Email.FromName,
		})
		logger.Info("Email sender: smtp", "host", cfg.Email.SMTPHost)
	} else {
		logger.Warn("Email disabled, messages are written to the log")
	}

	var smsSender notify.SMSSender = notify.NewLogSender()
	if cfg.SMS.Provider == "http" {
		smsSender = notify.NewHTTPSMSSender(notify.HTTPSMSConfig{
			Endpoint: cfg.SMS.Endpoint,
			APIKey:   cfg.SMS.APIKey,
			Sender:   cfg.SMS.Sender,
		}, &http.Client{Timeout: cfg.NotificationTimeout()})
		logger.Info("SMS sender: http", "endpoint", cfg.SMS.Endpoint)
	}

	templates, err := notify.NewTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}

	recorder := notify.NewGormRecorder(db, repositories.NewNotificationRepository())
	deliverer := notify.NewDeliverer(emailSender, smsSender, templates, recorder)
	async := notify.NewAsyncDispatcher(deliverer, cfg.NotificationTimeout())

	if cfg.Notifications.Queue != "redis" {
		return &notifier{dispatcher: async, close: async.Wait}, nil
	}

	client := notify.NewRedisClient(cfg.Notifications.RedisAddr, cfg.Notifications.RedisPassword, cfg.Notifications.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// очередь недоступна на старте: работаем в процессе
		logger.Warn("Redis unavailable, falling back to in-process notifications", "error", err.Error())
		_ = client.Close()
		return &notifier{dispatcher: async, close: async.Wait}, nil
	}

	queue := notify.NewRedisQueue(client, cfg.Notifications.RedisKey, async)
	worker := workers.NewNotificationWorker(queue, deliverer, cfg.NotificationTimeout())
	worker.Start(ctx)
	logger.Info("Notification queue: redis", "addr", cfg.Notifications.RedisAddr, "key", cfg.Notifications.RedisKey)

	return &notifier{
		dispatcher: queue,
		close: func() {
			worker.Wait()
			async.Wait()
			_ = client.Close()
		},
	}, nil
}
