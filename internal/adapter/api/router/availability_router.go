package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
)

func SetupAvailabilityRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	availabilityHandler := handler.GetAvailabilityHandler()

	// Public calendar views
	e.GET("/v1/performers/:id/availability", availabilityHandler.Check)
	e.GET("/v1/performers/:id/calendar", availabilityHandler.Calendar)

	// Own calendar management
	me := e.Group("/v1/my-availability")
	me.Use(authMiddleware.Authenticate)
	me.POST("/block", availabilityHandler.Block)
	me.POST("/unblock", availabilityHandler.Unblock)
	me.POST("/bulk-block", availabilityHandler.BulkBlock)
	me.POST("/bulk-unblock", availabilityHandler.BulkUnblock)
}
