package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/domain/entity"
	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
)

type AvailabilityHandler struct {
	availabilityUsecase *usecase.AvailabilityUsecase
	performerUsecase    *usecase.PerformerUsecase
}

func NewAvailabilityHandler(availabilityUsecase *usecase.AvailabilityUsecase, performerUsecase *usecase.PerformerUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		performerUsecase:    performerUsecase,
	}
}

func (h *AvailabilityHandler) Check(c echo.Context) error {
	performerID := c.Param("id")
	if performerID == "" {
		return response.Error(c, errors.BadRequest("Performer ID is required", nil))
	}

	date := c.QueryParam("date")
	startTime := c.QueryParam("start_time")
	endTime := c.QueryParam("end_time")

	available, err := h.availabilityUsecase.IsAvailable(c.Request().Context(), performerID, date, startTime, endTime)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"date":      date,
		"available": available,
	})
}

func (h *AvailabilityHandler) Calendar(c echo.Context) error {
	performerID := c.Param("id")
	if performerID == "" {
		return response.Error(c, errors.BadRequest("Performer ID is required", nil))
	}

	month := c.QueryParam("month")

	days, err := h.availabilityUsecase.GetCalendarData(c.Request().Context(), performerID, month)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, days)
}

type blockDateRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	BlockType string `json:"block_type"`
}

func (h *AvailabilityHandler) Block(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req blockDateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	blockType := req.BlockType
	if blockType == "" {
		blockType = entity.BlockTypeManual
	}

	if err := h.availabilityUsecase.BlockDate(c.Request().Context(), performer.ID, req.Date, req.StartTime, req.EndTime, blockType, ""); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"date":   req.Date,
		"status": "blocked",
	})
}

type unblockDateRequest struct {
	Date string `json:"date" validate:"required"`
}

func (h *AvailabilityHandler) Unblock(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req unblockDateRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.availabilityUsecase.UnblockDate(c.Request().Context(), performer.ID, req.Date); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"date":   req.Date,
		"status": "unblocked",
	})
}

type bulkBlockRequest struct {
	Dates     []string `json:"dates" validate:"required,min=1"`
	BlockType string   `json:"block_type"`
}

func (h *AvailabilityHandler) BulkBlock(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req bulkBlockRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	blockType := req.BlockType
	if blockType == "" {
		blockType = entity.BlockTypeManual
	}

	blocked, err := h.availabilityUsecase.BlockDates(c.Request().Context(), performer.ID, req.Dates, blockType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"requested": len(req.Dates),
		"blocked":   blocked,
	})
}

type bulkUnblockRequest struct {
	Dates []string `json:"dates" validate:"required,min=1"`
}

func (h *AvailabilityHandler) BulkUnblock(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req bulkUnblockRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	unblocked, err := h.availabilityUsecase.UnblockDates(c.Request().Context(), performer.ID, req.Dates)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"requested": len(req.Dates),
		"unblocked": unblocked,
	})
}
