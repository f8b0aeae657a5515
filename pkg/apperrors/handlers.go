package apperrors

import (
	"errors"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/logger"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   *AppError `json:"error"`
}

// debug включается только в development: тогда текст внутренней ошибки попадает в details
var debug atomic.Bool

// SetDebug вызывается один раз при старте приложения
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "server error", err,
			"code", appErr.Code,
			"domain", appErr.Domain,
			"path", c.Request.URL.Path,
		)

		// Копия, чтобы не менять общую ошибку и не отдавать драйверный текст клиенту
		public := *appErr
		public.Details = nil
		if h.Debug && appErr.Err != nil {
			public.Details = map[string]string{"cause": appErr.Err.Error()}
		}
		appErr = &public
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Error:   appErr,
	})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{Debug: debug.Load()}
	handler.HandleGinError(c, err)
}

// AsAppError - первый *AppError в цепочке
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}
