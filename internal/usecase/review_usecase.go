package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/internal/domain/service"
	"gigstage/internal/event"
	"gigstage/pkg/errors"
)

type ReviewUsecase struct {
	reviewRepo    repository.ReviewRepository
	bookingRepo   repository.BookingRepository
	performerRepo repository.PerformerRepository
	authorizer    service.Authorizer
	achievements  achievementRecalculator
	bus           *event.Bus
}

func NewReviewUsecase(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	performerRepo repository.PerformerRepository,
	authorizer service.Authorizer,
	achievements achievementRecalculator,
	bus *event.Bus,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:    reviewRepo,
		bookingRepo:   bookingRepo,
		performerRepo: performerRepo,
		authorizer:    authorizer,
		achievements:  achievements,
		bus:           bus,
	}
}

type SubmitReviewInput struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Content   string `json:"content"`
}

// Submit creates the reviewer's one review for a completed booking.
// The reviewer type is inferred from which side of the booking they
// are on.
func (uc *ReviewUsecase) Submit(ctx context.Context, reviewerID string, input SubmitReviewInput) (*entity.Review, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.BookingStatusCompleted {
		return nil, errors.Invalid("TOO_EARLY", "Reviews open once the booking is completed")
	}

	var reviewerType, revieweeID string
	switch {
	case booking.CustomerID == reviewerID:
		reviewerType = entity.ReviewerTypeCustomer
		revieweeID = booking.PerformerID
	default:
		performer, err := uc.performerRepo.GetByUserID(ctx, reviewerID)
		if err != nil || performer.ID != booking.PerformerID {
			return nil, errors.Forbidden("Only booking parties can review", err)
		}
		reviewerType = entity.ReviewerTypePerformer
		revieweeID = booking.CustomerID
	}

	if _, err := uc.reviewRepo.GetByBookingAndReviewer(ctx, input.BookingID, reviewerID); err == nil {
		return nil, errors.Invalid("ALREADY_REVIEWED", "You have already reviewed this booking")
	}

	rating := input.Rating
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	now := time.Now()
	review := &entity.Review{
		ID:                uuid.New().String(),
		BookingID:         booking.ID,
		ReviewerID:        reviewerID,
		RevieweeID:        revieweeID,
		ReviewerType:      reviewerType,
		Rating:            rating,
		Content:           input.Content,
		ArbitrationStatus: entity.ArbitrationNone,
		Visible:           true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if reviewerType == entity.ReviewerTypeCustomer {
		review.PerformerID = booking.PerformerID
	}

	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if reviewerType == entity.ReviewerTypeCustomer {
		if err := uc.recomputeRating(ctx, booking.PerformerID); err != nil {
			return nil, err
		}
	}

	uc.bus.Publish(event.ReviewSubmitted{Review: review})

	return review, nil
}

// recomputeRating rebuilds the performer aggregate from all visible
// customer reviews, then refreshes the achievement score.
func (uc *ReviewUsecase) recomputeRating(ctx context.Context, performerID string) error {
	reviews, err := uc.reviewRepo.ListVisibleCustomerReviews(ctx, performerID)
	if err != nil {
		return err
	}

	performer, err := uc.performerRepo.GetByID(ctx, performerID)
	if err != nil {
		return err
	}

	performer.ReviewCount = len(reviews)
	if len(reviews) == 0 {
		performer.AverageRating = 0
	} else {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		performer.AverageRating = round2(float64(sum) / float64(len(reviews)))
	}

	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return err
	}

	return uc.achievements.RecalculateAchievement(ctx, performerID)
}

// Respond adds the reviewee's single public response.
func (uc *ReviewUsecase) Respond(ctx context.Context, reviewID, actorID, responseText string) (*entity.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !uc.isReviewee(ctx, review, actorID) {
		return nil, errors.Forbidden("Only the reviewee can respond", nil)
	}
	if review.Response != "" {
		return nil, errors.Invalid("INVALID_STATUS", "This review already has a response")
	}

	now := time.Now()
	review.Response = responseText
	review.ResponseAt = &now

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// isReviewee resolves performer reviewee ids through the profile.
func (uc *ReviewUsecase) isReviewee(ctx context.Context, review *entity.Review, actorID string) bool {
	if review.RevieweeID == actorID {
		return true
	}
	if performer, err := uc.performerRepo.GetByUserID(ctx, actorID); err == nil {
		return performer.ID == review.RevieweeID
	}
	return false
}

// Flag marks the review for arbitration. One flag per review.
func (uc *ReviewUsecase) Flag(ctx context.Context, reviewID, actorID, reason string) (*entity.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.ReviewerID != actorID && !uc.isReviewee(ctx, review, actorID) {
		return nil, errors.Forbidden("Only the reviewer or reviewee can flag", nil)
	}
	if review.Flagged {
		return nil, errors.Invalid("INVALID_STATUS", "This review has already been flagged")
	}

	review.Flagged = true
	review.FlaggedBy = actorID
	review.FlagReason = reason
	review.ArbitrationStatus = entity.ArbitrationPending

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	uc.bus.Publish(event.ReviewFlagged{Review: review})

	return review, nil
}

// Arbitrate applies an admin decision to a flagged review. The flag
// cycle is terminal; a review is never re-flagged.
func (uc *ReviewUsecase) Arbitrate(ctx context.Context, reviewID, adminID, decision, editedContent string) (*entity.Review, error) {
	if err := uc.authorizer.Authorize(ctx, adminID, service.ActionArbitrateReviews, reviewID); err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.ArbitrationStatus != entity.ArbitrationPending {
		return nil, errors.Invalid("INVALID_STATUS", "This review is not awaiting arbitration")
	}

	switch decision {
	case entity.ArbitrationUpheld:
		review.ArbitrationStatus = entity.ArbitrationUpheld

	case entity.ArbitrationRemoved:
		review.ArbitrationStatus = entity.ArbitrationRemoved
		review.Visible = false

	case entity.ArbitrationEdited:
		if editedContent == "" {
			return nil, errors.Invalid("MISSING_FIELD", "Edited content is required")
		}
		review.ArbitrationStatus = entity.ArbitrationEdited
		review.Content = editedContent

	default:
		return nil, errors.Invalid("INVALID_STATUS", "Decision must be upheld, removed, or edited")
	}

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if decision == entity.ArbitrationRemoved && review.ReviewerType == entity.ReviewerTypeCustomer {
		if err := uc.recomputeRating(ctx, review.PerformerID); err != nil {
			return nil, err
		}
	}

	uc.bus.Publish(event.ReviewArbitrated{Review: review, Decision: decision})

	return review, nil
}

// ListForPerformer returns a performer's visible customer reviews.
func (uc *ReviewUsecase) ListForPerformer(ctx context.Context, performerID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListVisibleCustomerReviews(ctx, performerID)
}

// ListFlagged returns reviews awaiting arbitration, for the admin queue.
func (uc *ReviewUsecase) ListFlagged(ctx context.Context, adminID string, limit, offset int) ([]*entity.Review, int64, error) {
	if err := uc.authorizer.Authorize(ctx, adminID, service.ActionArbitrateReviews, ""); err != nil {
		return nil, 0, err
	}

	return uc.reviewRepo.List(ctx, map[string]interface{}{
		"arbitrationStatus": entity.ArbitrationPending,
	}, limit, offset)
}
