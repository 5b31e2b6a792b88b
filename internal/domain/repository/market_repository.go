package repository

import (
	"context"
	"time"

	"gigstage/internal/domain/entity"
)

type MarketRepository interface {
	CreateEvent(ctx context.Context, event *entity.MarketEvent) error
	GetEventByID(ctx context.Context, id string) (*entity.MarketEvent, error)
	UpdateEvent(ctx context.Context, event *entity.MarketEvent) error
	ListEvents(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketEvent, int64, error)
	ListOpenPastDeadline(ctx context.Context, cutoff time.Time, limit int) ([]*entity.MarketEvent, error)

	CreateBid(ctx context.Context, bid *entity.Bid) error
	GetBidByID(ctx context.Context, id string) (*entity.Bid, error)
	GetBidByEventAndPerformer(ctx context.Context, eventID, performerID string) (*entity.Bid, error)
	UpdateBid(ctx context.Context, bid *entity.Bid) error
	ListBidsByEvent(ctx context.Context, eventID string) ([]*entity.Bid, error)

	// AcceptBid runs the whole acceptance as one transaction: the
	// winning bid becomes accepted, every other pending bid on the
	// event becomes rejected, the event becomes booked with the
	// accepted bid recorded, and the prepared booking document is
	// created. Either all of it commits or none of it does. Returns
	// the performer ids of the rejected bidders.
	AcceptBid(ctx context.Context, eventID, bidID string, booking *entity.Booking) ([]string, error)
}
