package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
	"gigstage/pkg/utils"
)

type ReviewHandler struct {
	reviewUsecase *usecase.ReviewUsecase
}

func NewReviewHandler(reviewUsecase *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
	}
}

func (h *ReviewHandler) Submit(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.SubmitReviewInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUsecase.Submit(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

type respondRequest struct {
	Response string `json:"response" validate:"required"`
}

func (h *ReviewHandler) Respond(c echo.Context) error {
	uid := c.Get("uid").(string)
	reviewID := c.Param("id")
	if reviewID == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUsecase.Respond(c.Request().Context(), reviewID, uid, req.Response)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

type flagRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *ReviewHandler) Flag(c echo.Context) error {
	uid := c.Get("uid").(string)
	reviewID := c.Param("id")

	var req flagRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUsecase.Flag(c.Request().Context(), reviewID, uid, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

type arbitrateRequest struct {
	Decision      string `json:"decision" validate:"required,oneof=upheld removed edited"`
	EditedContent string `json:"edited_content"`
}

func (h *ReviewHandler) Arbitrate(c echo.Context) error {
	uid := c.Get("uid").(string)
	reviewID := c.Param("id")

	var req arbitrateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUsecase.Arbitrate(c.Request().Context(), reviewID, uid, req.Decision, req.EditedContent)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, review)
}

func (h *ReviewHandler) ListFlagged(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUsecase.ListFlagged(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}
