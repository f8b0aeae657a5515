package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"iskort_backend/internal/logger"
	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services/dto"
	"iskort_backend/internal/validator"
	"iskort_backend/pkg/apperrors"
	"iskort_backend/pkg/contextkeys"
)

// BaseHandler - общие помощники всех обработчиков
type BaseHandler struct {
	validator *validator.Validator
	// Auth - AuthMiddleware с настроенным TokenManager
	Auth gin.HandlerFunc
}

func NewBaseHandler(v *validator.Validator, authMiddleware gin.HandlerFunc) *BaseHandler {
	return &BaseHandler{
		validator: v,
		Auth:      authMiddleware,
	}
}

// GetDB - *gorm.DB, положенный DBMiddleware. Без него маршрут собран неверно, поэтому panic.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := c.Value(string(contextkeys.DBContextKey)).(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "db handle missing in gin context", "path", c.FullPath())
		panic("handlers: DBMiddleware is not installed")
	}
	return db
}

// BindJSON разбирает тело и прогоняет валидатор; при ошибке ответ уже отправлен
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWarn(c.Request.Context(), "bad json body", "error", err.Error(), "path", c.FullPath())
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWarn(c.Request.Context(), "bad query params", "error", err.Error(), "path", c.FullPath())
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	err := h.validator.Validate(obj)
	if err == nil {
		return true
	}

	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		logger.CtxWarn(c.Request.Context(), "request rejected by validator", "fields", vErr.Errors, "path", c.FullPath())
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		return false
	}
	logger.CtxWithError(c.Request.Context(), "validator failure", err, "path", c.FullPath())
	apperrors.HandleError(c, apperrors.InternalError(err))
	return false
}

// HandleServiceError - 4xx пишутся в лог как warn, 5xx логирует apperrors
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.HTTPCode < 500 {
			logger.CtxWarn(ctx, "Service error",
				"error", appErr.Message,
				"code", appErr.Code,
				"path", c.Request.URL.Path,
			)
		}
		apperrors.HandleError(c, appErr)
		return
	}
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// GetAccount возвращает id и роль из AuthMiddleware; при отсутствии отвечает 401
func (h *BaseHandler) GetAccount(c *gin.Context) (uint, models.Role, bool) {
	id, okID := middleware.GetAccountID(c)
	role, okRole := middleware.GetRole(c)
	if !okID || !okRole {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: account not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Account not authenticated"))
		return 0, "", false
	}
	return id, role, true
}

// ====================================================================
// Параметры запроса
// ====================================================================

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

// ParseParamUint читает положительный id из пути; при ошибке сам отвечает 400
func ParseParamUint(c *gin.Context, key string) (uint, bool) {
	valueStr := c.Param(key)
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil || value == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid path parameter: "+key+" must be a positive integer"))
		return 0, false
	}
	return uint(value), true
}

// ParseQueryUint - необязательный положительный id из query
func ParseQueryUint(c *gin.Context, key string) (*uint, bool) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, true
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil || value == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameter: "+key+" must be a positive integer"))
		return nil, false
	}
	id := uint(value)
	return &id, true
}

func ParsePagination(c *gin.Context) dto.Pagination {
	const defaultPage = 1
	const defaultLimit = 20
	const maxLimit = 100

	page := queryInt(c, "page", defaultPage)
	if page <= 0 {
		page = defaultPage
	}

	limit := queryInt(c, "limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return dto.Pagination{Page: page, Limit: limit}
}
