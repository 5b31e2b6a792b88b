package repository

import (
	"context"
	"time"

	"gigstage/internal/domain/entity"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Booking, int64, error)
	ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Booking, int64, error)

	// ListHeldPastEvent returns confirmed/in-progress bookings whose
	// event date is on or before the cutoff date and whose escrow is
	// still held. Feeds the auto-release sweep.
	ListHeldPastEvent(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error)

	// ListByEventDate returns non-terminal bookings on an exact date.
	// Feeds the reminder sweep.
	ListByEventDate(ctx context.Context, date string) ([]*entity.Booking, error)
}
