package repository

import (
	"context"

	"gigstage/internal/domain/entity"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) error
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, performerID, date string) ([]*entity.AvailabilitySlot, error)
	ListByDateRange(ctx context.Context, performerID, from, to string) ([]*entity.AvailabilitySlot, error)
	DeleteByBookingID(ctx context.Context, bookingID string) error
}
