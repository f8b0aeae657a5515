package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

// OwnerHandler - публичная информация о владельцах
type OwnerHandler struct {
	*BaseHandler
	accountService services.AccountService
}

func NewOwnerHandler(base *BaseHandler, accountService services.AccountService) *OwnerHandler {
	return &OwnerHandler{BaseHandler: base, accountService: accountService}
}

func (h *OwnerHandler) RegisterRoutes(r *gin.RouterGroup) {
	owners := r.Group("/owners")
	{
		owners.GET("", h.ListOwners)
		owners.GET("/:id", h.GetOwner)
		owners.GET("/:id/eateries", h.GetOwnerEateries)
		owners.GET("/:id/housings", h.GetOwnerHousings)
	}
}

func (h *OwnerHandler) ListOwners(c *gin.Context) {
	page := ParsePagination(c)

	owners, total, err := h.accountService.ListOwners(c.Request.Context(), h.GetDB(c), page)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Success: true,
		Items:   owners,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	})
}

func (h *OwnerHandler) GetOwner(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	owner, err := h.accountService.GetOwner(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "owner": owner})
}

func (h *OwnerHandler) GetOwnerEateries(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	eateries, err := h.accountService.GetOwnerEateries(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "eateries": eateries})
}

func (h *OwnerHandler) GetOwnerHousings(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	housings, err := h.accountService.GetOwnerHousings(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "housings": housings})
}
