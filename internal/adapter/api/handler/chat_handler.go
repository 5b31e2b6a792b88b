package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
	"gigstage/pkg/utils"
)

type ChatHandler struct {
	chatUsecase *usecase.ChatUsecase
}

func NewChatHandler(chatUsecase *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
	}
}

type openChatRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

func (h *ChatHandler) OpenForBooking(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req openChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUsecase.GetOrCreateForBooking(c.Request().Context(), req.BookingID, uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	chats, total, err := h.chatUsecase.ListChats(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, chats, total, pagination.Page, pagination.PageSize)
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("id")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUsecase.SendMessage(c.Request().Context(), chatID, uid, req.Body)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("id")
	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUsecase.ListMessages(c.Request().Context(), chatID, uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("id")

	if err := h.chatUsecase.MarkRead(c.Request().Context(), chatID, uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}
