package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type firestoreBookingRepository struct {
	client *firestore.Client
}

func NewFirestoreBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &firestoreBookingRepository{
		client: client,
	}
}

func (r *firestoreBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	_, err := r.client.Collection("bookings").Doc(booking.ID).Set(ctx, booking)
	if err != nil {
		return errors.Internal("Failed to create booking", err)
	}
	return nil
}

func (r *firestoreBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	doc, err := r.client.Collection("bookings").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Booking", err)
		}
		return nil, errors.Internal("Failed to get booking", err)
	}

	var booking entity.Booking
	if err := doc.DataTo(&booking); err != nil {
		return nil, errors.Internal("Failed to parse booking data", err)
	}

	return &booking, nil
}

// GetByOrderID resolves a gateway order reference to its booking. The
// same order id appears in either the deposit or the balance field.
func (r *firestoreBookingRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	for _, field := range []string{"depositOrderId", "balanceOrderId"} {
		query := r.client.Collection("bookings").Where(field, "==", orderID).Limit(1)
		doc, err := query.Documents(ctx).Next()
		if err == iterator.Done {
			continue
		}
		if err != nil {
			return nil, errors.Internal("Failed to look up booking by order", err)
		}

		var booking entity.Booking
		if err := doc.DataTo(&booking); err != nil {
			return nil, errors.Internal("Failed to parse booking data", err)
		}
		return &booking, nil
	}

	return nil, errors.NotFound("Booking", nil)
}

func (r *firestoreBookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	booking.UpdatedAt = time.Now()
	_, err := r.client.Collection("bookings").Doc(booking.ID).Set(ctx, booking)
	if err != nil {
		return errors.Internal("Failed to update booking", err)
	}
	return nil
}

func (r *firestoreBookingRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Booking, int64, error) {
	query := r.client.Collection("bookings").Query

	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	return r.paginate(ctx, query, limit, offset)
}

func (r *firestoreBookingRepository) ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Booking, int64, error) {
	field := "customerId"
	if role == "performer" {
		field = "performerId"
	}

	query := r.client.Collection("bookings").Where(field, "==", userID)
	if status != "" {
		query = query.Where("status", "==", status)
	}

	return r.paginate(ctx, query, limit, offset)
}

func (r *firestoreBookingRepository) ListHeldPastEvent(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	query := r.client.Collection("bookings").
		Where("escrowStatus", "in", []string{entity.EscrowStatusDepositHeld, entity.EscrowStatusFullHeld}).
		Where("eventDate", "<=", cutoff.Format("2006-01-02")).
		Limit(limit)

	iter := query.Documents(ctx)
	var bookings []*entity.Booking

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list held bookings", err)
		}

		var booking entity.Booking
		if err := doc.DataTo(&booking); err != nil {
			return nil, errors.Internal("Failed to parse booking data", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func (r *firestoreBookingRepository) ListByEventDate(ctx context.Context, date string) ([]*entity.Booking, error) {
	query := r.client.Collection("bookings").
		Where("eventDate", "==", date).
		Where("status", "in", []string{entity.BookingStatusPending, entity.BookingStatusConfirmed})

	iter := query.Documents(ctx)
	var bookings []*entity.Booking

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list bookings by date", err)
		}

		var booking entity.Booking
		if err := doc.DataTo(&booking); err != nil {
			return nil, errors.Internal("Failed to parse booking data", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}

func (r *firestoreBookingRepository) paginate(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Booking, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count bookings", err)
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
	var bookings []*entity.Booking

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list bookings", err)
		}

		var booking entity.Booking
		if err := doc.DataTo(&booking); err != nil {
			return nil, 0, errors.Internal("Failed to parse booking data", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, total, nil
}
