package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init настраивает глобальный логгер.
// development: текст, уровень debug. Остальные окружения: JSON, уровень info.
func Init(env string) {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: true}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if env == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log = slog.New(handler).With("service", "iskort")
	slog.SetDefault(log)
}

func get() *slog.Logger {
	once.Do(func() {
		if log == nil {
			Init("development")
		}
	})
	return log
}

func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

// Fatal пишет ошибку и завершает процесс с кодом 1
func Fatal(msg string, args ...any) {
	get().Error(msg, args...)
	os.Exit(1)
}

// WorkerLog - итог одной операции фонового воркера
func WorkerLog(worker, operation string, err error) {
	l := get().With("worker", worker, "operation", operation)
	if err != nil {
		l.Error("worker operation failed", "error", err.Error())
		return
	}
	l.Debug("worker operation completed")
}
