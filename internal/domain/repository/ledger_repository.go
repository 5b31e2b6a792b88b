package repository

import (
	"context"

	"gigstage/internal/domain/entity"
)

type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	ListByBookingID(ctx context.Context, bookingID string) ([]*entity.LedgerEntry, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error)
}
