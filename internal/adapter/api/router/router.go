package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/middleware"
	"gigstage/internal/infrastructure/ratelimit"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter *ratelimit.RateLimiter, environment string) {
	SetupAuthRouter(e, authMiddleware)
	SetupDevRouter(e, environment)
	SetupPerformerRouter(e, authMiddleware, adminMiddleware)
	SetupAvailabilityRouter(e, authMiddleware)
	SetupBookingRouter(e, authMiddleware, limiter)
	SetupMarketRouter(e, authMiddleware, limiter)
	SetupReviewRouter(e, authMiddleware, adminMiddleware)
	SetupSubscriptionRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware, limiter)
	SetupPaymentRouter(e)
	SetupWebSocketRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
