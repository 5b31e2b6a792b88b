package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	reviews := e.Group("/v1/reviews")
	reviews.Use(authMiddleware.Authenticate)

	reviews.POST("", reviewHandler.Submit)
	reviews.POST("/:id/response", reviewHandler.Respond)
	reviews.POST("/:id/flag", reviewHandler.Flag)

	// Arbitration queue
	admin := e.Group("/v1/admin/reviews")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.GET("/flagged", reviewHandler.ListFlagged)
	admin.POST("/:id/arbitrate", reviewHandler.Arbitrate)
}
