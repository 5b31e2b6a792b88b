package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
	"gigstage/internal/infrastructure/ratelimit"
)

func SetupMarketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	marketHandler := handler.GetMarketHandler()

	market := e.Group("/v1/market")
	market.Use(authMiddleware.Authenticate)

	market.POST("/events", marketHandler.CreateEvent, middleware.ActionRateLimit(limiter, "post_event"))
	market.GET("/events", marketHandler.ListEvents)
	market.GET("/events/:id", marketHandler.GetEvent)
	market.POST("/events/:id/cancel", marketHandler.CancelEvent)
	market.POST("/events/:id/bids", marketHandler.SubmitBid, middleware.ActionRateLimit(limiter, "submit_bid"))
	market.POST("/bids/:bidId/accept", marketHandler.AcceptBid)
	market.POST("/bids/:bidId/withdraw", marketHandler.WithdrawBid)
}
