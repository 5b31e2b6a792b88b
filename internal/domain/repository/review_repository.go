package repository

import (
	"context"

	"gigstage/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByBookingAndReviewer(ctx context.Context, bookingID, reviewerID string) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Review, int64, error)

	// ListVisibleCustomerReviews returns every visible customer-written
	// review for a performer; the rating aggregate is rebuilt from it.
	ListVisibleCustomerReviews(ctx context.Context, performerID string) ([]*entity.Review, error)
}
