package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
	"gigstage/pkg/utils"
)

type BookingHandler struct {
	bookingUsecase *usecase.BookingUsecase
}

func NewBookingHandler(bookingUsecase *usecase.BookingUsecase) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
	}
}

func (h *BookingHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateBookingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUsecase.Create(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, booking)
}

func (h *BookingHandler) List(c echo.Context) error {
	uid := c.Get("uid").(string)
	role := c.QueryParam("role")
	status := c.QueryParam("status")
	pagination := utils.GetPaginationParams(c)

	bookings, total, err := h.bookingUsecase.List(c.Request().Context(), uid, role, status, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, bookings, total, pagination.Page, pagination.PageSize)
}

func (h *BookingHandler) GetByID(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")
	if bookingID == "" {
		return response.Error(c, errors.BadRequest("Booking ID is required", nil))
	}

	booking, err := h.bookingUsecase.GetByID(c.Request().Context(), bookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

func (h *BookingHandler) PerformerConfirm(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")

	booking, err := h.bookingUsecase.PerformerConfirm(c.Request().Context(), bookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

func (h *BookingHandler) ConfirmCompletion(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")

	booking, err := h.bookingUsecase.CustomerConfirmCompletion(c.Request().Context(), bookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")

	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	booking, err := h.bookingUsecase.Cancel(c.Request().Context(), bookingID, uid, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

func (h *BookingHandler) PayBalance(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")

	booking, err := h.bookingUsecase.CreateBalanceCheckout(c.Request().Context(), bookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, booking)
}

func (h *BookingHandler) ListLedger(c echo.Context) error {
	uid := c.Get("uid").(string)
	bookingID := c.Param("id")

	entries, err := h.bookingUsecase.ListLedger(c.Request().Context(), bookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, entries)
}
