package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/response"
)

type SubscriptionHandler struct {
	subscriptionUsecase *usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUsecase *usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUsecase: subscriptionUsecase,
	}
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.SubscribeInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	subscription, err := h.subscriptionUsecase.Subscribe(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, subscription)
}

func (h *SubscriptionHandler) GetActive(c echo.Context) error {
	uid := c.Get("uid").(string)

	subscription, err := h.subscriptionUsecase.GetActive(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, subscription)
}

func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	uid := c.Get("uid").(string)

	subscription, err := h.subscriptionUsecase.Cancel(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, subscription)
}
