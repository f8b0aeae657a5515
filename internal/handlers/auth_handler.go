package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/models"
	"iskort_backend/internal/services"
	"iskort_backend/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes - по паре register/login на каждую роль
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	for _, role := range models.Roles {
		group := r.Group("/" + string(role))
		group.POST("/register", h.Register(role))
		group.POST("/login", h.Login(role))
	}
}

// Register godoc
// @Summary Регистрация
// @Description Создаёт заявку на регистрацию в роли admin, owner или user. Вход возможен после проверки администратором.
// @Tags auth
// @Accept json
// @Produce json
// @Param role path string true "admin | owner | user"
// @Param request body dto.RegisterRequest true "Данные регистрации"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Email уже занят"
// @Router /api/{role}/register [post]
func (h *AuthHandler) Register(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RegisterRequest
		if !h.BindJSON(c, &req) {
			return
		}

		resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), role, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param role path string true "admin | owner | user"
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Аккаунт не подтверждён или другая роль"
// @Router /api/{role}/login [post]
func (h *AuthHandler) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if !h.BindJSON(c, &req) {
			return
		}

		resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), role, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
