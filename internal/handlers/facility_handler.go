package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type FacilityHandler struct {
	*BaseHandler
	facilityService services.FacilityService
}

func NewFacilityHandler(base *BaseHandler, facilityService services.FacilityService) *FacilityHandler {
	return &FacilityHandler{BaseHandler: base, facilityService: facilityService}
}

func (h *FacilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/facilities/:housing_id", h.ListByHousing)
	r.GET("/facility/:id", h.GetFacility)

	owner := r.Group("/facility")
	owner.Use(h.Auth, middleware.RequireRoles(models.RoleOwner))
	{
		owner.POST("", h.CreateFacility)
		owner.PUT("/:id", h.UpdateFacility)
		owner.DELETE("/:id", h.DeleteFacility)
	}
}

func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateFacilityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	facility, err := h.facilityService.Create(c.Request.Context(), h.GetDB(c), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "facility": facility})
}

func (h *FacilityHandler) GetFacility(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	facility, err := h.facilityService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "facility": facility})
}

func (h *FacilityHandler) ListByHousing(c *gin.Context) {
	housingID, ok := ParseParamUint(c, "housing_id")
	if !ok {
		return
	}

	facilities, err := h.facilityService.ListByHousing(c.Request.Context(), h.GetDB(c), housingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "facilities": facilities})
}

func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateFacilityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	facility, err := h.facilityService.Update(c.Request.Context(), h.GetDB(c), ownerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "facility": facility})
}

func (h *FacilityHandler) DeleteFacility(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.facilityService.Delete(c.Request.Context(), h.GetDB(c), ownerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Facility deleted"})
}
