package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type EateryHandler struct {
	*BaseHandler
	eateryService services.EateryService
}

func NewEateryHandler(base *BaseHandler, eateryService services.EateryService) *EateryHandler {
	return &EateryHandler{BaseHandler: base, eateryService: eateryService}
}

func (h *EateryHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/eatery")
	{
		public.GET("", h.ListEateries)
		public.GET("/:id", h.GetEatery)
	}

	owner := r.Group("/eatery")
	owner.Use(h.Auth, middleware.RequireRoles(models.RoleOwner))
	{
		owner.POST("", h.CreateEatery)
		owner.PUT("/:id", h.UpdateEatery)
		owner.DELETE("/:id", h.DeleteEatery)
	}
}

// CreateEatery godoc
// @Summary Добавить заведение
// @Description Заведение создаётся в статусе pending и ждёт проверки администратором
// @Tags eatery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEateryRequest true "Заведение"
// @Success 201 {object} models.Eatery
// @Router /api/eatery [post]
func (h *EateryHandler) CreateEatery(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateEateryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	eatery, err := h.eateryService.Create(c.Request.Context(), h.GetDB(c), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "eatery": eatery})
}

func (h *EateryHandler) ListEateries(c *gin.Context) {
	var query dto.ListingQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := ParsePagination(c)

	eateries, total, err := h.eateryService.List(c.Request.Context(), h.GetDB(c), query, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Items:   eateries,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

func (h *EateryHandler) GetEatery(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	eatery, err := h.eateryService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eatery": eatery})
}

// UpdateEatery godoc
// @Summary Изменить заведение
// @Description Доступно владельцу и только после проверки администратором
// @Tags eatery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заведения"
// @Param request body dto.UpdateEateryRequest true "Изменяемые поля"
// @Success 200 {object} models.Eatery
// @Failure 403 {object} apperrors.ErrorResponse "Не владелец или заведение не подтверждено"
// @Router /api/eatery/{id} [put]
func (h *EateryHandler) UpdateEatery(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEateryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	eatery, err := h.eateryService.Update(c.Request.Context(), h.GetDB(c), ownerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eatery": eatery})
}

func (h *EateryHandler) DeleteEatery(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.eateryService.Delete(c.Request.Context(), h.GetDB(c), ownerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Eatery deleted"})
}
