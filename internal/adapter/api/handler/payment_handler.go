package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/logger"
	"gigstage/pkg/response"
)

type PaymentHandler struct {
	bookingUsecase      *usecase.BookingUsecase
	subscriptionUsecase *usecase.SubscriptionUsecase
}

func NewPaymentHandler(bookingUsecase *usecase.BookingUsecase, subscriptionUsecase *usecase.SubscriptionUsecase) *PaymentHandler {
	return &PaymentHandler{
		bookingUsecase:      bookingUsecase,
		subscriptionUsecase: subscriptionUsecase,
	}
}

// HandleNotification receives Midtrans payment callbacks for deposit and
// balance orders. The gateway retries on non-2xx, so verification
// failures return 401 and everything else acknowledges.
func (h *PaymentHandler) HandleNotification(c echo.Context) error {
	var notification map[string]interface{}
	if err := c.Bind(&notification); err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification payload", err))
	}

	orderID, _ := notification["order_id"].(string)
	statusCode, _ := notification["status_code"].(string)
	grossAmount, _ := notification["gross_amount"].(string)
	signature, _ := notification["signature_key"].(string)
	transactionStatus, _ := notification["transaction_status"].(string)

	if orderID == "" {
		return response.Error(c, errors.BadRequest("Missing order_id", nil))
	}

	logger.Info("Payment notification for order %s: %s", orderID, transactionStatus)

	if err := h.bookingUsecase.HandlePaymentNotification(c.Request().Context(), orderID, statusCode, grossAmount, signature, transactionStatus); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "ok"})
}

// HandleRecurringNotification receives subscription lifecycle callbacks.
func (h *PaymentHandler) HandleRecurringNotification(c echo.Context) error {
	var notification map[string]interface{}
	if err := c.Bind(&notification); err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification payload", err))
	}

	subscriptionID, _ := notification["subscription_id"].(string)
	status, _ := notification["status"].(string)

	if subscriptionID == "" {
		return response.Error(c, errors.BadRequest("Missing subscription_id", nil))
	}

	logger.Info("Recurring notification for subscription %s: %s", subscriptionID, status)

	if err := h.subscriptionUsecase.HandleRecurringNotification(c.Request().Context(), subscriptionID, status); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "ok"})
}
