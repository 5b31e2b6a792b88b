package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/internal/event"
	"gigstage/pkg/errors"
)

type ChatUsecase struct {
	chatRepo      repository.ChatRepository
	bookingRepo   repository.BookingRepository
	performerRepo repository.PerformerRepository
	bus           *event.Bus
}

func NewChatUsecase(
	chatRepo repository.ChatRepository,
	bookingRepo repository.BookingRepository,
	performerRepo repository.PerformerRepository,
	bus *event.Bus,
) *ChatUsecase {
	return &ChatUsecase{
		chatRepo:      chatRepo,
		bookingRepo:   bookingRepo,
		performerRepo: performerRepo,
		bus:           bus,
	}
}

// GetOrCreateForBooking returns the booking's chat, creating it on
// first use. Participants are the customer and the performer's user.
func (uc *ChatUsecase) GetOrCreateForBooking(ctx context.Context, bookingID, actorID string) (*entity.Chat, error) {
	if chat, err := uc.chatRepo.GetChatByBookingID(ctx, bookingID); err == nil {
		if !chat.HasParticipant(actorID) {
			return nil, errors.Forbidden("You are not a participant of this chat", nil)
		}
		return chat, nil
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	performer, err := uc.performerRepo.GetByID(ctx, booking.PerformerID)
	if err != nil {
		return nil, err
	}

	if actorID != booking.CustomerID && actorID != performer.UserID {
		return nil, errors.Forbidden("You are not a party to this booking", nil)
	}

	now := time.Now()
	chat := &entity.Chat{
		ID:           uuid.New().String(),
		Participants: []string{booking.CustomerID, performer.UserID},
		BookingID:    booking.ID,
		UnreadCount:  map[string]int{booking.CustomerID: 0, performer.UserID: 0},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.chatRepo.CreateChat(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// ListChats returns the actor's chats, most recent first.
func (uc *ChatUsecase) ListChats(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return uc.chatRepo.ListChatsByUserID(ctx, userID, limit, offset)
}

// SendMessage appends one immutable message and bumps the recipient's
// unread counter.
func (uc *ChatUsecase) SendMessage(ctx context.Context, chatID, senderID, body string) (*entity.Message, error) {
	if body == "" {
		return nil, errors.Invalid("MISSING_FIELD", "Message body is required")
	}

	chat, err := uc.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}

	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	recipientID := ""
	for _, participant := range chat.Participants {
		if participant != senderID {
			recipientID = participant
			break
		}
	}

	message := &entity.Message{
		ID:          uuid.New().String(),
		ChatID:      chat.ID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now(),
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	chat.LastMessage = body
	chat.LastMessageAt = message.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = map[string]int{}
	}
	chat.UnreadCount[recipientID]++

	if err := uc.chatRepo.UpdateChat(ctx, chat); err != nil {
		return nil, err
	}

	uc.bus.Publish(event.MessageSent{Chat: chat, Message: message})

	return message, nil
}

// ListMessages pages through a chat's history.
func (uc *ChatUsecase) ListMessages(ctx context.Context, chatID, actorID string, limit, offset int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}

	if !chat.HasParticipant(actorID) {
		return nil, 0, errors.Forbidden("You are not a participant of this chat", nil)
	}

	return uc.chatRepo.ListMessagesByChatID(ctx, chatID, limit, offset)
}

// MarkRead clears the actor's unread counter and flags their messages.
func (uc *ChatUsecase) MarkRead(ctx context.Context, chatID, actorID string) error {
	chat, err := uc.chatRepo.GetChatByID(ctx, chatID)
	if err != nil {
		return err
	}

	if !chat.HasParticipant(actorID) {
		return errors.Forbidden("You are not a participant of this chat", nil)
	}

	if err := uc.chatRepo.MarkMessagesRead(ctx, chatID, actorID); err != nil {
		return err
	}

	if chat.UnreadCount == nil {
		chat.UnreadCount = map[string]int{}
	}
	chat.UnreadCount[actorID] = 0

	return uc.chatRepo.UpdateChat(ctx, chat)
}
