package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type HousingHandler struct {
	*BaseHandler
	housingService services.HousingService
}

func NewHousingHandler(base *BaseHandler, housingService services.HousingService) *HousingHandler {
	return &HousingHandler{BaseHandler: base, housingService: housingService}
}

func (h *HousingHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/housing")
	{
		public.GET("", h.ListHousings)
		public.GET("/:id", h.GetHousing)
	}

	owner := r.Group("/housing")
	owner.Use(h.Auth, middleware.RequireRoles(models.RoleOwner))
	{
		owner.POST("", h.CreateHousing)
		owner.PUT("/:id", h.UpdateHousing)
		owner.DELETE("/:id", h.DeleteHousing)
	}
}

// CreateHousing godoc
// @Summary Добавить жильё
// @Description Жильё создаётся в статусе pending и ждёт проверки администратором
// @Tags housing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateHousingRequest true "Жильё"
// @Success 201 {object} models.Housing
// @Router /api/housing [post]
func (h *HousingHandler) CreateHousing(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateHousingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	housing, err := h.housingService.Create(c.Request.Context(), h.GetDB(c), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "housing": housing})
}

func (h *HousingHandler) ListHousings(c *gin.Context) {
	var query dto.ListingQuery
	if !h.BindQuery(c, &query) {
		return
	}
	page := ParsePagination(c)

	housings, total, err := h.housingService.List(c.Request.Context(), h.GetDB(c), query, page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Items:   housings,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

func (h *HousingHandler) GetHousing(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	housing, err := h.housingService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "housing": housing})
}

// UpdateHousing godoc
// @Summary Изменить жильё
// @Description Доступно владельцу и только после проверки администратором
// @Tags housing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID жилья"
// @Param request body dto.UpdateHousingRequest true "Изменяемые поля"
// @Success 200 {object} models.Housing
// @Failure 403 {object} apperrors.ErrorResponse "Не владелец или жильё не подтверждено"
// @Router /api/housing/{id} [put]
func (h *HousingHandler) UpdateHousing(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHousingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	housing, err := h.housingService.Update(c.Request.Context(), h.GetDB(c), ownerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "housing": housing})
}

func (h *HousingHandler) DeleteHousing(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.housingService.Delete(c.Request.Context(), h.GetDB(c), ownerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Housing deleted"})
}
