package handler

import (
	"github.com/labstack/echo/v4"

	"gigstage/internal/usecase"
	"gigstage/pkg/errors"
	"gigstage/pkg/response"
	"gigstage/pkg/utils"
)

type PerformerHandler struct {
	performerUsecase *usecase.PerformerUsecase
	reviewUsecase    *usecase.ReviewUsecase
}

func NewPerformerHandler(performerUsecase *usecase.PerformerUsecase, reviewUsecase *usecase.ReviewUsecase) *PerformerHandler {
	return &PerformerHandler{
		performerUsecase: performerUsecase,
		reviewUsecase:    reviewUsecase,
	}
}

func (h *PerformerHandler) Register(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.RegisterPerformerInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.Register(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, performer)
}

func (h *PerformerHandler) List(c echo.Context) error {
	category := c.QueryParam("category")
	tier := c.QueryParam("tier")
	pagination := utils.GetPaginationParams(c)

	performers, total, err := h.performerUsecase.List(c.Request().Context(), category, tier, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, performers, total, pagination.Page, pagination.PageSize)
}

func (h *PerformerHandler) GetByID(c echo.Context) error {
	performerID := c.Param("id")
	if performerID == "" {
		return response.Error(c, errors.BadRequest("Performer ID is required", nil))
	}

	performer, err := h.performerUsecase.GetByID(c.Request().Context(), performerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, performer)
}

func (h *PerformerHandler) GetMine(c echo.Context) error {
	uid := c.Get("uid").(string)

	performer, err := h.performerUsecase.GetByUserID(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, performer)
}

func (h *PerformerHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdatePerformerInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.Update(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, performer)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *PerformerHandler) SetStatus(c echo.Context) error {
	uid := c.Get("uid").(string)
	performerID := c.Param("id")

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.SetStatus(c.Request().Context(), uid, performerID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, performer)
}

func (h *PerformerHandler) UploadGallery(c echo.Context) error {
	uid := c.Get("uid").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read file", err))
	}
	defer file.Close()

	fileType := fileHeader.Header.Get("Content-Type")

	performer, err := h.performerUsecase.UploadGalleryMedia(c.Request().Context(), uid, file, fileType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, performer)
}

type removeGalleryRequest struct {
	URL string `json:"url" validate:"required"`
}

func (h *PerformerHandler) RemoveGallery(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req removeGalleryRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	performer, err := h.performerUsecase.RemoveGalleryMedia(c.Request().Context(), uid, req.URL)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, performer)
}

func (h *PerformerHandler) ListReviews(c echo.Context) error {
	performerID := c.Param("id")
	if performerID == "" {
		return response.Error(c, errors.BadRequest("Performer ID is required", nil))
	}

	reviews, err := h.reviewUsecase.ListForPerformer(c.Request().Context(), performerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, reviews)
}
