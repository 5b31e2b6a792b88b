package repository

import (
	"context"

	"gigstage/internal/domain/entity"
)

type PerformerRepository interface {
	Create(ctx context.Context, performer *entity.Performer) error
	GetByID(ctx context.Context, id string) (*entity.Performer, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Performer, error)
	Update(ctx context.Context, performer *entity.Performer) error
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Performer, int64, error)
}
