package router

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/adapter/api/handler"
)

func SetupPaymentRouter(e *echo.Echo) {
	paymentHandler := handler.GetPaymentHandler()

	// Gateway callbacks authenticate by signature, not by token.
	e.POST("/v1/payments/notification", paymentHandler.HandleNotification)
	e.POST("/v1/payments/recurring-notification", paymentHandler.HandleRecurringNotification)
}
