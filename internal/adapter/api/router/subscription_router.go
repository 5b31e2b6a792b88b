package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
)

func SetupSubscriptionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	subscriptionHandler := handler.GetSubscriptionHandler()

	subscriptions := e.Group("/v1/subscriptions")
	subscriptions.Use(authMiddleware.Authenticate)

	subscriptions.POST("", subscriptionHandler.Subscribe)
	subscriptions.GET("/active", subscriptionHandler.GetActive)
	subscriptions.POST("/cancel", subscriptionHandler.Cancel)
}
