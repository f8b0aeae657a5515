package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	*BaseHandler
	startedAt time.Time
}

func NewSystemHandler(base *BaseHandler) *SystemHandler {
	return &SystemHandler{BaseHandler: base, startedAt: time.Now()}
}

func (h *SystemHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Iskort API is live and ready for use!")
}

// Health godoc
// @Summary Состояние сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"success":  status == http.StatusOK,
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
	})
}
