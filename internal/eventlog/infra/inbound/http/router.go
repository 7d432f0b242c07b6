package http

import "github.com/gin-gonic/gin"

// RegisterEventRoutes registra las rutas del servicio de registro de eventos.
func RegisterEventRoutes(r gin.IRouter, handler *EventsHandler) {
	events := r.Group("/events")
	{
		events.POST("", handler.LogEvent)
		events.GET("", handler.ListEvents)
		events.GET("/:taskId", handler.ListEventsByTask)
	}
}
