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

type firestorePerformerRepository struct {
	client *firestore.Client
}

func NewFirestorePerformerRepository(client *firestore.Client) repository.PerformerRepository {
	return &firestorePerformerRepository{
		client: client,
	}
}

func (r *firestorePerformerRepository) Create(ctx context.Context, performer *entity.Performer) error {
	_, err := r.client.Collection("performers").Doc(performer.ID).Set(ctx, performer)
	if err != nil {
		return errors.Internal("Failed to create performer", err)
	}
	return nil
}

func (r *firestorePerformerRepository) GetByID(ctx context.Context, id string) (*entity.Performer, error) {
	doc, err := r.client.Collection("performers").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Performer", err)
		}
		return nil, errors.Internal("Failed to get performer", err)
	}

	var performer entity.Performer
	if err := doc.DataTo(&performer); err != nil {
		return nil, errors.Internal("Failed to parse performer data", err)
	}

	return &performer, nil
}

func (r *firestorePerformerRepository) GetByUserID(ctx context.Context, userID string) (*entity.Performer, error) {
	query := r.client.Collection("performers").Where("userId", "==", userID).Limit(1)
	iter := query.Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		return nil, errors.NotFound("Performer", err)
	}

	var performer entity.Performer
	if err := doc.DataTo(&performer); err != nil {
		return nil, errors.Internal("Failed to parse performer data", err)
	}

	return &performer, nil
}

func (r *firestorePerformerRepository) Update(ctx context.Context, performer *entity.Performer) error {
	performer.UpdatedAt = time.Now()
	_, err := r.client.Collection("performers").Doc(performer.ID).Set(ctx, performer)
	if err != nil {
		return errors.Internal("Failed to update performer", err)
	}
	return nil
}

func (r *firestorePerformerRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Performer, int64, error) {
	query := r.client.Collection("performers").Query

	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count performers", err)
	}
	total := int64(len(countDocs))

	// Featured profiles first, then by rating.
	query = query.OrderBy("featured", firestore.Desc).OrderBy("averageRating", firestore.Desc)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var performers []*entity.Performer

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list performers", err)
		}

		var performer entity.Performer
		if err := doc.DataTo(&performer); err != nil {
			return nil, 0, errors.Internal("Failed to parse performer data", err)
		}
		performers = append(performers, &performer)
	}

	return performers, total, nil
}
