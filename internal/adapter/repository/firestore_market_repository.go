package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type firestoreMarketRepository struct {
	client *firestore.Client
}

func NewFirestoreMarketRepository(client *firestore.Client) repository.MarketRepository {
	return &firestoreMarketRepository{
		client: client,
	}
}

func (r *firestoreMarketRepository) CreateEvent(ctx context.Context, event *entity.MarketEvent) error {
	_, err := r.client.Collection("market_events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to create market event", err)
	}
	return nil
}

func (r *firestoreMarketRepository) GetEventByID(ctx context.Context, id string) (*entity.MarketEvent, error) {
	doc, err := r.client.Collection("market_events").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Event", err)
		}
		return nil, errors.Internal("Failed to get market event", err)
	}

	var event entity.MarketEvent
	if err := doc.DataTo(&event); err != nil {
		return nil, errors.Internal("Failed to parse market event", err)
	}

	return &event, nil
}

func (r *firestoreMarketRepository) UpdateEvent(ctx context.Context, event *entity.MarketEvent) error {
	event.UpdatedAt = time.Now()
	_, err := r.client.Collection("market_events").Doc(event.ID).Set(ctx, event)
	if err != nil {
		return errors.Internal("Failed to update market event", err)
	}
	return nil
}

func (r *firestoreMarketRepository) ListEvents(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketEvent, int64, error) {
	query := r.client.Collection("market_events").Query

	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count market events", err)
	}
	total := int64(len(countDocs))

	query = query.OrderBy("createdAt", firestore.Desc)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var events []*entity.MarketEvent

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list market events", err)
		}

		var event entity.MarketEvent
		if err := doc.DataTo(&event); err != nil {
			return nil, 0, errors.Internal("Failed to parse market event", err)
		}
		events = append(events, &event)
	}

	return events, total, nil
}

func (r *firestoreMarketRepository) ListOpenPastDeadline(ctx context.Context, cutoff time.Time, limit int) ([]*entity.MarketEvent, error) {
	query := r.client.Collection("market_events").
		Where("status", "==", entity.EventStatusOpen).
		Where("bidDeadline", "<=", cutoff).
		Limit(limit)

	iter := query.Documents(ctx)
	var events []*entity.MarketEvent

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list expired events", err)
		}

		var event entity.MarketEvent
		if err := doc.DataTo(&event); err != nil {
			return nil, errors.Internal("Failed to parse market event", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *firestoreMarketRepository) CreateBid(ctx context.Context, bid *entity.Bid) error {
	_, err := r.client.Collection("bids").Doc(bid.ID).Set(ctx, bid)
	if err != nil {
		return errors.Internal("Failed to create bid", err)
	}
	return nil
}

func (r *firestoreMarketRepository) GetBidByID(ctx context.Context, id string) (*entity.Bid, error) {
	doc, err := r.client.Collection("bids").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Bid", err)
		}
		return nil, errors.Internal("Failed to get bid", err)
	}

	var bid entity.Bid
	if err := doc.DataTo(&bid); err != nil {
		return nil, errors.Internal("Failed to parse bid", err)
	}

	return &bid, nil
}

func (r *firestoreMarketRepository) GetBidByEventAndPerformer(ctx context.Context, eventID, performerID string) (*entity.Bid, error) {
	query := r.client.Collection("bids").
		Where("eventId", "==", eventID).
		Where("performerId", "==", performerID).
		Limit(1)

	doc, err := query.Documents(ctx).Next()
	if err != nil {
		return nil, errors.NotFound("Bid", err)
	}

	var bid entity.Bid
	if err := doc.DataTo(&bid); err != nil {
		return nil, errors.Internal("Failed to parse bid", err)
	}

	return &bid, nil
}

func (r *firestoreMarketRepository) UpdateBid(ctx context.Context, bid *entity.Bid) error {
	bid.UpdatedAt = time.Now()
	_, err := r.client.Collection("bids").Doc(bid.ID).Set(ctx, bid)
	if err != nil {
		return errors.Internal("Failed to update bid", err)
	}
	return nil
}

func (r *firestoreMarketRepository) ListBidsByEvent(ctx context.Context, eventID string) ([]*entity.Bid, error) {
	query := r.client.Collection("bids").
		Where("eventId", "==", eventID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var bids []*entity.Bid

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list bids", err)
		}

		var bid entity.Bid
		if err := doc.DataTo(&bid); err != nil {
			return nil, errors.Internal("Failed to parse bid", err)
		}
		bids = append(bids, &bid)
	}

	return bids, nil
}

// AcceptBid commits the whole acceptance atomically. All reads happen
// before writes per the Firestore transaction contract.
func (r *firestoreMarketRepository) AcceptBid(ctx context.Context, eventID, bidID string, booking *entity.Booking) ([]string, error) {
	var rejectedPerformers []string

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		rejectedPerformers = rejectedPerformers[:0]

		eventRef := r.client.Collection("market_events").Doc(eventID)
		eventDoc, err := tx.Get(eventRef)
		if err != nil {
			return err
		}

		var event entity.MarketEvent
		if err := eventDoc.DataTo(&event); err != nil {
			return err
		}

		if event.Status != entity.EventStatusOpen {
			return fmt.Errorf("event is %s, not open", event.Status)
		}

		bidRef := r.client.Collection("bids").Doc(bidID)
		bidDoc, err := tx.Get(bidRef)
		if err != nil {
			return err
		}

		var winning entity.Bid
		if err := bidDoc.DataTo(&winning); err != nil {
			return err
		}

		if winning.EventID != eventID {
			return fmt.Errorf("bid does not belong to event")
		}
		if winning.Status != entity.BidStatusPending {
			return fmt.Errorf("bid is %s, not pending", winning.Status)
		}

		siblingQuery := r.client.Collection("bids").
			Where("eventId", "==", eventID).
			Where("status", "==", entity.BidStatusPending)

		siblingDocs, err := tx.Documents(siblingQuery).GetAll()
		if err != nil {
			return err
		}

		now := time.Now()

		for _, doc := range siblingDocs {
			if doc.Ref.ID == bidID {
				continue
			}

			var sibling entity.Bid
			if err := doc.DataTo(&sibling); err != nil {
				return err
			}
			rejectedPerformers = append(rejectedPerformers, sibling.PerformerID)

			if err := tx.Update(doc.Ref, []firestore.Update{
				{Path: "status", Value: entity.BidStatusRejected},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}

		if err := tx.Update(bidRef, []firestore.Update{
			{Path: "status", Value: entity.BidStatusAccepted},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		if err := tx.Update(eventRef, []firestore.Update{
			{Path: "status", Value: entity.EventStatusBooked},
			{Path: "acceptedBidId", Value: bidID},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		bookingRef := r.client.Collection("bookings").Doc(booking.ID)
		return tx.Create(bookingRef, booking)
	})

	if err != nil {
		return nil, errors.Conflict(fmt.Sprintf("Failed to accept bid: %v", err))
	}

	return rejectedPerformers, nil
}
