package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
	"gigstage/pkg/utils"
)

type MarketHandler struct {
	marketUsecase *usecase.MarketUsecase
}

func NewMarketHandler(marketUsecase *usecase.MarketUsecase) *MarketHandler {
	return &MarketHandler{
		marketUsecase: marketUsecase,
	}
}

func (h *MarketHandler) CreateEvent(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateEventInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	marketEvent, err := h.marketUsecase.CreateEvent(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, marketEvent)
}

func (h *MarketHandler) ListEvents(c echo.Context) error {
	status := c.QueryParam("status")
	category := c.QueryParam("category")
	pagination := utils.GetPaginationParams(c)

	events, total, err := h.marketUsecase.ListEvents(c.Request().Context(), status, category, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, events, total, pagination.Page, pagination.PageSize)
}

func (h *MarketHandler) GetEvent(c echo.Context) error {
	uid := c.Get("uid").(string)
	eventID := c.Param("id")
	if eventID == "" {
		return response.Error(c, errors.BadRequest("Event ID is required", nil))
	}

	marketEvent, bids, err := h.marketUsecase.GetEvent(c.Request().Context(), eventID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"event": marketEvent,
		"bids":  bids,
	})
}

func (h *MarketHandler) CancelEvent(c echo.Context) error {
	uid := c.Get("uid").(string)
	eventID := c.Param("id")

	if err := h.marketUsecase.CancelEvent(c.Request().Context(), eventID, uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "cancelled"})
}

func (h *MarketHandler) SubmitBid(c echo.Context) error {
	uid := c.Get("uid").(string)
	eventID := c.Param("id")

	var req usecase.SubmitBidInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	req.EventID = eventID
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	bid, err := h.marketUsecase.SubmitBid(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, bid)
}

func (h *MarketHandler) AcceptBid(c echo.Context) error {
	uid := c.Get("uid").(string)
	bidID := c.Param("bidId")
	if bidID == "" {
		return response.Error(c, errors.BadRequest("Bid ID is required", nil))
	}

	booking, err := h.marketUsecase.AcceptBid(c.Request().Context(), bidID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, booking)
}

func (h *MarketHandler) WithdrawBid(c echo.Context) error {
	uid := c.Get("uid").(string)
	bidID := c.Param("bidId")

	if err := h.marketUsecase.WithdrawBid(c.Request().Context(), bidID, uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "withdrawn"})
}
