package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/auth"
	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type AdminHandler struct {
	*BaseHandler
	accountService      services.AccountService
	verificationService services.VerificationService
	notificationService services.NotificationService
}

func NewAdminHandler(
	base *BaseHandler,
	accountService services.AccountService,
	verificationService services.VerificationService,
	notificationService services.NotificationService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:         base,
		accountService:      accountService,
		verificationService: verificationService,
		notificationService: notificationService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(h.Auth, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", h.ListAccounts)
		admin.GET("/notifications", middleware.RequirePermission(auth.PermNotificationsRead), h.ListNotifications)
		admin.PUT("/verify/:kind/:id", h.Verify)
		admin.DELETE("/reject/:kind/:id", h.Reject)
	}
}

// ListAccounts godoc
// @Summary Все аккаунты
// @Description Аккаунты всех ролей и ожидающие проверки регистрации, новые сверху
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "admin | owner | user"
// @Param status query string false "pending | verified"
// @Success 200 {array} dto.AccountSummary
// @Router /api/admin/users [get]
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	var query dto.AccountListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), h.GetDB(c), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   accounts,
		"total":   len(accounts),
	})
}

// ListNotifications godoc
// @Summary Журнал уведомлений
// @Description Попытки отправки email/SMS по событиям проверки, новые сверху
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param subject_kind query string false "admin | owner | user | eatery | housing"
// @Param subject_id query int false "ID записи"
// @Param status query string false "sent | failed | skipped"
// @Param page query int false "Страница" default(1)
// @Param limit query int false "Размер страницы" default(20)
// @Success 200 {object} dto.ListResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /api/admin/notifications [get]
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	var query dto.NotificationQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := ParsePagination(c)

	logs, total, err := h.notificationService.List(c.Request.Context(), h.GetDB(c), query, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Items:   logs,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

// Verify godoc
// @Summary Подтвердить запись
// @Description Переводит аккаунт или объявление в verified. Повторное подтверждение возвращает 409.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param kind path string true "admin | owner | user | eatery | housing"
// @Param id path int true "ID записи"
// @Success 200 {object} dto.VerificationResult
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Уже подтверждено"
// @Router /api/admin/verify/{kind}/{id} [put]
func (h *AdminHandler) Verify(c *gin.Context) {
	adminID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}
	kind := models.SubjectKind(c.Param("kind"))

	result, err := h.verificationService.Verify(c.Request.Context(), h.GetDB(c), kind, id, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": string(kind) + " verified successfully",
		"result":  result,
	})
}

// Reject godoc
// @Summary Отклонить запись
// @Description Удаляет неподтверждённую запись. Повторное отклонение возвращает 404, подтверждённая запись 409.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param kind path string true "admin | owner | user | eatery | housing"
// @Param id path int true "ID записи"
// @Success 200 {object} dto.VerificationResult
// @Failure 404 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse
// @Router /api/admin/reject/{kind}/{id} [delete]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}
	kind := models.SubjectKind(c.Param("kind"))

	result, err := h.verificationService.Reject(c.Request.Context(), h.GetDB(c), kind, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": string(kind) + " rejected and removed",
		"result":  result,
	})
}
