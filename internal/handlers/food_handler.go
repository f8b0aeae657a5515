package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type FoodHandler struct {
	*BaseHandler
	foodService services.FoodService
}

func NewFoodHandler(base *BaseHandler, foodService services.FoodService) *FoodHandler {
	return &FoodHandler{BaseHandler: base, foodService: foodService}
}

func (h *FoodHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/foods/:eatery_id", h.ListByEatery)
	r.GET("/food/:id", h.GetFood)

	owner := r.Group("/food")
	owner.Use(h.Auth, middleware.RequireRoles(models.RoleOwner))
	{
		owner.POST("", h.CreateFood)
		owner.PUT("/:id", h.UpdateFood)
		owner.DELETE("/:id", h.DeleteFood)
	}
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateFoodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	food, err := h.foodService.Create(c.Request.Context(), h.GetDB(c), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "food": food})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	food, err := h.foodService.Get(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "food": food})
}

func (h *FoodHandler) ListByEatery(c *gin.Context) {
	eateryID, ok := ParseParamUint(c, "eatery_id")
	if !ok {
		return
	}

	foods, err := h.foodService.ListByEatery(c.Request.Context(), h.GetDB(c), eateryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "foods": foods})
}

func (h *FoodHandler) UpdateFood(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateFoodRequest
	if !h.BindJSON(c, &req) {
		return
	}

	food, err := h.foodService.Update(c.Request.Context(), h.GetDB(c), ownerID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "food": food})
}

func (h *FoodHandler) DeleteFood(c *gin.Context) {
	ownerID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.foodService.Delete(c.Request.Context(), h.GetDB(c), ownerID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Food deleted"})
}
