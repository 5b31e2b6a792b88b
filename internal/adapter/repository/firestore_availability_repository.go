package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type firestoreAvailabilityRepository struct {
	client *firestore.Client
}

func NewFirestoreAvailabilityRepository(client *firestore.Client) repository.AvailabilityRepository {
	return &firestoreAvailabilityRepository{
		client: client,
	}
}

func (r *firestoreAvailabilityRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	_, err := r.client.Collection("availability_slots").Doc(slot.ID).Set(ctx, slot)
	if err != nil {
		return errors.Internal("Failed to create availability slot", err)
	}
	return nil
}

func (r *firestoreAvailabilityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("availability_slots").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete availability slot", err)
	}
	return nil
}

func (r *firestoreAvailabilityRepository) ListByDate(ctx context.Context, performerID, date string) ([]*entity.AvailabilitySlot, error) {
	query := r.client.Collection("availability_slots").
		Where("performerId", "==", performerID).
		Where("date", "==", date)

	return r.collect(ctx, query)
}

func (r *firestoreAvailabilityRepository) ListByDateRange(ctx context.Context, performerID, from, to string) ([]*entity.AvailabilitySlot, error) {
	query := r.client.Collection("availability_slots").
		Where("performerId", "==", performerID).
		Where("date", ">=", from).
		Where("date", "<=", to)

	return r.collect(ctx, query)
}

func (r *firestoreAvailabilityRepository) DeleteByBookingID(ctx context.Context, bookingID string) error {
	query := r.client.Collection("availability_slots").Where("bookingId", "==", bookingID)
	iter := query.Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to find slots for booking", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete availability slot", err)
		}
	}

	return nil
}

func (r *firestoreAvailabilityRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.AvailabilitySlot, error) {
	iter := query.Documents(ctx)
	var slots []*entity.AvailabilitySlot

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list availability slots", err)
		}

		var slot entity.AvailabilitySlot
		if err := doc.DataTo(&slot); err != nil {
			return nil, errors.Internal("Failed to parse availability slot", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}
