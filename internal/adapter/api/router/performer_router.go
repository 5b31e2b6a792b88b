package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
)

func SetupPerformerRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	performerHandler := handler.GetPerformerHandler()

	// Public directory
	e.GET("/v1/performers", performerHandler.List)
	e.GET("/v1/performers/:id", performerHandler.GetByID)
	e.GET("/v1/performers/:id/reviews", performerHandler.ListReviews)

	// Own profile
	me := e.Group("/v1/my-performer")
	me.Use(authMiddleware.Authenticate)
	me.POST("", performerHandler.Register)
	me.GET("", performerHandler.GetMine)
	me.PUT("", performerHandler.Update)
	me.POST("/gallery", performerHandler.UploadGallery)
	me.DELETE("/gallery", performerHandler.RemoveGallery)

	// Moderation
	admin := e.Group("/v1/admin/performers")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.PUT("/:id/status", performerHandler.SetStatus)
}
