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

type firestoreSubscriptionRepository struct {
	client *firestore.Client
}

func NewFirestoreSubscriptionRepository(client *firestore.Client) repository.SubscriptionRepository {
	return &firestoreSubscriptionRepository{
		client: client,
	}
}

func (r *firestoreSubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	_, err := r.client.Collection("subscriptions").Doc(subscription.ID).Set(ctx, subscription)
	if err != nil {
		return errors.Internal("Failed to create subscription", err)
	}
	return nil
}

func (r *firestoreSubscriptionRepository) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	doc, err := r.client.Collection("subscriptions").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Subscription", err)
		}
		return nil, errors.Internal("Failed to get subscription", err)
	}

	var subscription entity.Subscription
	if err := doc.DataTo(&subscription); err != nil {
		return nil, errors.Internal("Failed to parse subscription", err)
	}

	return &subscription, nil
}

func (r *firestoreSubscriptionRepository) GetByGatewayID(ctx context.Context, gatewayID string) (*entity.Subscription, error) {
	query := r.client.Collection("subscriptions").
		Where("gatewaySubscriptionId", "==", gatewayID).
		Limit(1)

	doc, err := query.Documents(ctx).Next()
	if err != nil {
		return nil, errors.NotFound("Subscription", err)
	}

	var subscription entity.Subscription
	if err := doc.DataTo(&subscription); err != nil {
		return nil, errors.Internal("Failed to parse subscription", err)
	}

	return &subscription, nil
}

func (r *firestoreSubscriptionRepository) GetActiveByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	query := r.client.Collection("subscriptions").
		Where("userId", "==", userID).
		Where("status", "==", entity.SubscriptionStatusActive).
		Limit(1)

	doc, err := query.Documents(ctx).Next()
	if err != nil {
		return nil, errors.NotFound("Subscription", err)
	}

	var subscription entity.Subscription
	if err := doc.DataTo(&subscription); err != nil {
		return nil, errors.Internal("Failed to parse subscription", err)
	}

	return &subscription, nil
}

func (r *firestoreSubscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	subscription.UpdatedAt = time.Now()
	_, err := r.client.Collection("subscriptions").Doc(subscription.ID).Set(ctx, subscription)
	if err != nil {
		return errors.Internal("Failed to update subscription", err)
	}
	return nil
}

func (r *firestoreSubscriptionRepository) ListLapsed(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Subscription, error) {
	query := r.client.Collection("subscriptions").
		Where("status", "==", entity.SubscriptionStatusActive).
		Where("currentPeriodEnd", "<=", cutoff).
		Limit(limit)

	iter := query.Documents(ctx)
	var subscriptions []*entity.Subscription

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list lapsed subscriptions", err)
		}

		var subscription entity.Subscription
		if err := doc.DataTo(&subscription); err != nil {
			return nil, errors.Internal("Failed to parse subscription", err)
		}
		subscriptions = append(subscriptions, &subscription)
	}

	return subscriptions, nil
}
