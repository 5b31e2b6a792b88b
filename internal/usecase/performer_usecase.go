package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/internal/domain/service"
	"gigstage/pkg/config"
	"gigstage/pkg/errors"
	"gigstage/pkg/logger"
)

// MediaStorage is the gallery upload collaborator.
type MediaStorage interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

type PerformerUsecase struct {
	performerRepo repository.PerformerRepository
	userRepo      repository.UserRepository
	authorizer    service.Authorizer
	media         MediaStorage
	cfg           *config.Config
}

func NewPerformerUsecase(
	performerRepo repository.PerformerRepository,
	userRepo repository.UserRepository,
	authorizer service.Authorizer,
	media MediaStorage,
	cfg *config.Config,
) *PerformerUsecase {
	return &PerformerUsecase{
		performerRepo: performerRepo,
		userRepo:      userRepo,
		authorizer:    authorizer,
		media:         media,
		cfg:           cfg,
	}
}

type RegisterPerformerInput struct {
	StageName         string   `json:"stage_name" validate:"required"`
	Category          string   `json:"category" validate:"required"`
	Bio               string   `json:"bio"`
	ServiceAreas      []string `json:"service_areas"`
	VideoLinks        []string `json:"video_links"`
	HourlyRate        float64  `json:"hourly_rate" validate:"gte=0"`
	DepositPercentage float64  `json:"deposit_percentage" validate:"gte=0,lte=100"`
}

// Register creates a pending performer profile for the user.
func (uc *PerformerUsecase) Register(ctx context.Context, userID string, input RegisterPerformerInput) (*entity.Performer, error) {
	if _, err := uc.performerRepo.GetByUserID(ctx, userID); err == nil {
		return nil, errors.Conflict("You already have a performer profile")
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	performer := &entity.Performer{
		ID:                uuid.New().String(),
		UserID:            user.ID,
		StageName:         input.StageName,
		Category:          input.Category,
		Bio:               input.Bio,
		ServiceAreas:      input.ServiceAreas,
		VideoLinks:        input.VideoLinks,
		HourlyRate:        input.HourlyRate,
		DepositPercentage: input.DepositPercentage,
		Tier:              entity.TierFree,
		Status:            entity.PerformerStatusPending,
		AchievementLevel:  "bronze",
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.performerRepo.Create(ctx, performer); err != nil {
		return nil, err
	}

	if user.Role == "customer" {
		user.Role = "performer"
		if err := uc.userRepo.Update(ctx, user); err != nil {
			logger.Error("Failed to update role for user %s: %v", user.ID, err)
		}
	}

	return performer, nil
}

func (uc *PerformerUsecase) GetByID(ctx context.Context, performerID string) (*entity.Performer, error) {
	return uc.performerRepo.GetByID(ctx, performerID)
}

func (uc *PerformerUsecase) GetByUserID(ctx context.Context, userID string) (*entity.Performer, error) {
	return uc.performerRepo.GetByUserID(ctx, userID)
}

// List searches approved performers with optional filters.
func (uc *PerformerUsecase) List(ctx context.Context, category, tier string, limit, offset int) ([]*entity.Performer, int64, error) {
	filter := map[string]interface{}{
		"status": entity.PerformerStatusApproved,
	}
	if category != "" {
		filter["category"] = category
	}
	if tier != "" {
		filter["tier"] = tier
	}

	return uc.performerRepo.List(ctx, filter, limit, offset)
}

type UpdatePerformerInput struct {
	StageName         string   `json:"stage_name"`
	Category          string   `json:"category"`
	Bio               string   `json:"bio"`
	ServiceAreas      []string `json:"service_areas"`
	VideoLinks        []string `json:"video_links"`
	HourlyRate        float64  `json:"hourly_rate" validate:"gte=0"`
	DepositPercentage float64  `json:"deposit_percentage" validate:"gte=0,lte=100"`
}

// Update edits the caller's own profile. Empty fields keep their value.
func (uc *PerformerUsecase) Update(ctx context.Context, userID string, input UpdatePerformerInput) (*entity.Performer, error) {
	performer, err := uc.performerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.StageName != "" {
		performer.StageName = input.StageName
	}
	if input.Category != "" {
		performer.Category = input.Category
	}
	if input.Bio != "" {
		performer.Bio = input.Bio
	}
	if input.ServiceAreas != nil {
		performer.ServiceAreas = input.ServiceAreas
	}
	if input.VideoLinks != nil {
		performer.VideoLinks = input.VideoLinks
	}
	if input.HourlyRate > 0 {
		performer.HourlyRate = input.HourlyRate
	}
	if input.DepositPercentage > 0 {
		performer.DepositPercentage = input.DepositPercentage
	}

	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return nil, err
	}

	if err := uc.RecalculateAchievement(ctx, performer.ID); err != nil {
		logger.Error("Failed to recalculate achievement for %s: %v", performer.ID, err)
	}

	return performer, nil
}

// SetStatus is the admin approval/suspension gate. Profiles are never
// deleted, only suspended.
func (uc *PerformerUsecase) SetStatus(ctx context.Context, adminID, performerID, newStatus string) (*entity.Performer, error) {
	if err := uc.authorizer.Authorize(ctx, adminID, service.ActionManagePerformers, performerID); err != nil {
		return nil, err
	}

	switch newStatus {
	case entity.PerformerStatusApproved, entity.PerformerStatusSuspended, entity.PerformerStatusPending:
	default:
		return nil, errors.Invalid("INVALID_STATUS", "Status must be pending, approved, or suspended")
	}

	performer, err := uc.performerRepo.GetByID(ctx, performerID)
	if err != nil {
		return nil, err
	}

	performer.Status = newStatus
	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return nil, err
	}

	return performer, nil
}

// UploadGalleryMedia stores one image or clip and appends its URL.
func (uc *PerformerUsecase) UploadGalleryMedia(ctx context.Context, userID string, file io.Reader, fileType string) (*entity.Performer, error) {
	performer, err := uc.performerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := uc.media.UploadFile(ctx, file, fileType, "gallery/"+performer.ID)
	if err != nil {
		return nil, errors.Internal("Failed to upload media", err)
	}

	performer.GalleryURLs = append(performer.GalleryURLs, url)
	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return nil, err
	}

	if err := uc.RecalculateAchievement(ctx, performer.ID); err != nil {
		logger.Error("Failed to recalculate achievement for %s: %v", performer.ID, err)
	}

	return performer, nil
}

// RemoveGalleryMedia deletes one URL from the gallery and the bucket.
func (uc *PerformerUsecase) RemoveGalleryMedia(ctx context.Context, userID, mediaURL string) (*entity.Performer, error) {
	performer, err := uc.performerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := performer.GalleryURLs[:0]
	found := false
	for _, url := range performer.GalleryURLs {
		if url == mediaURL {
			found = true
			continue
		}
		kept = append(kept, url)
	}
	if !found {
		return nil, errors.NotFound("Gallery media", nil)
	}
	performer.GalleryURLs = kept

	if err := uc.media.DeleteFile(ctx, mediaURL); err != nil {
		logger.Warn("Failed to delete media %s: %v", mediaURL, err)
	}

	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return nil, err
	}

	return performer, nil
}

// RecalculateAchievement rebuilds the weighted score and level:
// completed bookings x10, average rating x20, profile completeness
// x0.5, truncated. Levels are compared top-down, platinum first.
func (uc *PerformerUsecase) RecalculateAchievement(ctx context.Context, performerID string) error {
	performer, err := uc.performerRepo.GetByID(ctx, performerID)
	if err != nil {
		return err
	}

	score := int(float64(performer.CompletedBookings)*10 +
		performer.AverageRating*20 +
		performer.ProfileCompleteness()*0.5)

	level := "bronze"
	switch {
	case score >= uc.cfg.LevelPlatinum:
		level = "platinum"
	case score >= uc.cfg.LevelGold:
		level = "gold"
	case score >= uc.cfg.LevelSilver:
		level = "silver"
	}

	if score == performer.AchievementScore && level == performer.AchievementLevel {
		return nil
	}

	performer.AchievementScore = score
	performer.AchievementLevel = level
	return uc.performerRepo.Update(ctx, performer)
}
