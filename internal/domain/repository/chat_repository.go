package repository

import (
	"context"

	"gigstage/internal/domain/entity"
)

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *entity.Chat) error
	GetChatByID(ctx context.Context, id string) (*entity.Chat, error)
	GetChatByBookingID(ctx context.Context, bookingID string) (*entity.Chat, error)
	UpdateChat(ctx context.Context, chat *entity.Chat) error
	ListChatsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessagesByChatID(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkMessagesRead(ctx context.Context, chatID, userID string) error
}
