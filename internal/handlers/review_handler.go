package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/middleware"
	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{BaseHandler: base, reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	userOnly := []gin.HandlerFunc{h.Auth, middleware.RequireRoles(models.RoleUser)}

	eatery := r.Group("/eatery_reviews")
	{
		eatery.GET("", h.ListEateryReviews)
		eatery.GET("/:id", h.GetEateryReview)
		eatery.POST("", append(userOnly, h.CreateEateryReview)...)
		eatery.PUT("/:id", append(userOnly, h.UpdateEateryReview)...)
		eatery.DELETE("/:id", append(userOnly, h.DeleteEateryReview)...)
	}

	housing := r.Group("/housing_reviews")
	{
		housing.GET("", h.ListHousingReviews)
		housing.GET("/:id", h.GetHousingReview)
		housing.POST("", append(userOnly, h.CreateHousingReview)...)
		housing.PUT("/:id", append(userOnly, h.UpdateHousingReview)...)
		housing.DELETE("/:id", append(userOnly, h.DeleteHousingReview)...)
	}

	r.GET("/user/reviews", append(userOnly, h.ListMyReviews)...)
}

// ---------------- Eatery reviews ----------------

// CreateEateryReview godoc
// @Summary Отзыв о заведении
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEateryReviewRequest true "Рейтинг 1-5 и комментарий"
// @Success 201 {object} models.EateryReview
// @Failure 400 {object} apperrors.ErrorResponse "Рейтинг вне диапазона"
// @Router /api/eatery_reviews [post]
func (h *ReviewHandler) CreateEateryReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateEateryReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateEateryReview(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) GetEateryReview(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetEateryReview(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) ListEateryReviews(c *gin.Context) {
	eateryID, ok := ParseQueryUint(c, "eatery_id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListEateryReviews(c.Request.Context(), h.GetDB(c), eateryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

func (h *ReviewHandler) UpdateEateryReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateEateryReview(c.Request.Context(), h.GetDB(c), userID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) DeleteEateryReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteEateryReview(c.Request.Context(), h.GetDB(c), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// ---------------- Housing reviews ----------------

func (h *ReviewHandler) CreateHousingReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	var req dto.CreateHousingReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateHousingReview(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) GetHousingReview(c *gin.Context) {
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetHousingReview(c.Request.Context(), h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) ListHousingReviews(c *gin.Context) {
	housingID, ok := ParseQueryUint(c, "housing_id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListHousingReviews(c.Request.Context(), h.GetDB(c), housingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

func (h *ReviewHandler) UpdateHousingReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateHousingReview(c.Request.Context(), h.GetDB(c), userID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
}

func (h *ReviewHandler) DeleteHousingReview(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}
	id, ok := ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteHousingReview(c.Request.Context(), h.GetDB(c), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
}

// ListMyReviews godoc
// @Summary Мои отзывы
// @Description Отзывы о заведениях и жилье одной лентой, новые сверху
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserReview
// @Router /api/user/reviews [get]
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	userID, _, ok := h.GetAccount(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}
