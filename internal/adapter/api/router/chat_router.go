package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
	"gigstage/internal/infrastructure/ratelimit"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.OpenForBooking)
	chats.GET("", chatHandler.ListChats)
	chats.POST("/:id/messages", chatHandler.SendMessage, middleware.ActionRateLimit(limiter, "send_message"))
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.PUT("/:id/read", chatHandler.MarkRead)
}
