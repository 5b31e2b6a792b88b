package repository

import (
	"context"
	"time"

	"gigstage/internal/domain/entity"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	GetByID(ctx context.Context, id string) (*entity.Subscription, error)
	GetByGatewayID(ctx context.Context, gatewayID string) (*entity.Subscription, error)
	GetActiveByUserID(ctx context.Context, userID string) (*entity.Subscription, error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	ListLapsed(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Subscription, error)
}
