package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"iskort_backend/internal/auth"
	"iskort_backend/internal/logger"
	"iskort_backend/internal/models"
	"iskort_backend/pkg/apperrors"
	"iskort_backend/pkg/contextkeys"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				apperrors.HandleError(c, apperrors.New(apperrors.CodeTokenExpired, "auth", "Token has expired", http.StatusUnauthorized))
				return
			}
			apperrors.HandleError(c, apperrors.ErrInvalidToken())
			return
		}

		c.Set(contextkeys.AccountIDKey, claims.AccountID)
		c.Set(contextkeys.RoleKey, claims.Role)
		ctx := logger.WithAccount(c.Request.Context(), claims.AccountID, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles пропускает только перечисленные роли. Ставится после AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			logger.CtxWarn(c.Request.Context(), "Access denied by role", "role", role, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions())
			return
		}
		c.Next()
	}
}

// RequirePermission - проверка по таблице разрешений ролей
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok || !auth.HasPermission(role, permission) {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions())
			return
		}
		c.Next()
	}
}

// GetAccountID извлекает ID аккаунта из контекста
func GetAccountID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(contextkeys.AccountIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok && id != 0
}

func GetRole(c *gin.Context) (models.Role, bool) {
	val, exists := c.Get(contextkeys.RoleKey)
	if !exists {
		return "", false
	}
	role, ok := val.(models.Role)
	return role, ok
}
