package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	// Маршруты жизненного цикла инцидентов
	incidents := api.Group("/incidents", auth)
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id/status", h.updateStatus)
	}

	// Маршрут подключения push-уведомлений
	api.GET("/ws", auth, h.attachPush)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
