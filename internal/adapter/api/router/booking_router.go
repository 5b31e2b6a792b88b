package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
	"gigstage/internal/adapter/api/middleware"
	"gigstage/internal/infrastructure/ratelimit"
)

func SetupBookingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	bookingHandler := handler.GetBookingHandler()

	bookings := e.Group("/v1/bookings")
	bookings.Use(authMiddleware.Authenticate)

	bookings.POST("", bookingHandler.Create, middleware.ActionRateLimit(limiter, "create_booking"))
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.GetByID)
	bookings.POST("/:id/confirm", bookingHandler.PerformerConfirm)
	bookings.POST("/:id/complete", bookingHandler.ConfirmCompletion)
	bookings.POST("/:id/cancel", bookingHandler.Cancel)
	bookings.POST("/:id/balance", bookingHandler.PayBalance)
	bookings.GET("/:id/ledger", bookingHandler.ListLedger)
}
