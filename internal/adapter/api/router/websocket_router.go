package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	websocketHandler := handler.GetWebSocketHandler()

	e.GET("/ws", websocketHandler.HandleWebSocket, authMiddleware.Authenticate)
}
