package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/auth"
	"iskort_backend/internal/middleware"
	"iskort_backend/internal/services"
	"iskort_backend/pkg/apperrors"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
	maxBodyBytes  int64
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		// запас на multipart-заголовки
		maxBodyBytes: maxFileSize + 1<<20,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/uploads", h.Auth, middleware.RequirePermission(auth.PermUploadsWrite), h.UploadPhoto)
}

// UploadPhoto godoc
// @Summary Загрузить фото
// @Description JPEG или PNG; большие изображения уменьшаются
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Фото"
// @Success 201 {object} dto.UploadResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /api/uploads [post]
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	accountID, role, ok := h.GetAccount(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	file, err := c.FormFile("photo")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Multipart field 'photo' is required"))
		return
	}

	resp, err := h.uploadService.UploadPhoto(c.Request.Context(), accountID, role, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
