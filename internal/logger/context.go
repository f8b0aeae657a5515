package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	accountKey   contextKey = "account"
)

type accountInfo struct {
	id   uint
	role string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithAccount кладёт в context аккаунт из JWT, чтобы он попадал в логи запроса
func WithAccount(ctx context.Context, id uint, role string) context.Context {
	return context.WithValue(ctx, accountKey, accountInfo{id: id, role: role})
}

func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// FromContext - логгер с request_id и аккаунтом, если они есть
func FromContext(ctx context.Context) *slog.Logger {
	l := get()
	if ctx == nil {
		return l
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		l = l.With("request_id", requestID)
	}
	if acc, ok := ctx.Value(accountKey).(accountInfo); ok {
		l = l.With("account_id", acc.id, "role", acc.role)
	}
	return l
}

func CtxDebug(ctx context.Context, msg string, args ...any) { FromContext(ctx).Debug(msg, args...) }
func CtxInfo(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Info(msg, args...) }
func CtxWarn(ctx context.Context, msg string, args ...any)  { FromContext(ctx).Warn(msg, args...) }
func CtxError(ctx context.Context, msg string, args ...any) { FromContext(ctx).Error(msg, args...) }

// CtxWithError - CtxError с полем error
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error(msg, append([]any{"error", err.Error()}, args...)...)
}
