package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigstage/internal/domain/entity"
	"gigstage/pkg/errors"
)

type chatEnv struct {
	performers *fakePerformerRepo
	bookings   *fakeBookingRepo
	chats      *fakeChatRepo

	uc *ChatUsecase
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()
	env := &chatEnv{
		performers: newFakePerformerRepo(),
		bookings:   newFakeBookingRepo(),
		chats:      newFakeChatRepo(),
	}

	env.uc = NewChatUsecase(env.chats, env.bookings, env.performers, testBus())

	ctx := context.Background()
	require.NoError(t, env.performers.Create(ctx, &entity.Performer{
		ID: "perf-1", UserID: "perf-user-1",
		StageName: "The Act", Status: entity.PerformerStatusApproved,
	}))
	require.NoError(t, env.bookings.Create(ctx, &entity.Booking{
		ID: "bk-1", CustomerID: "cust-1", PerformerID: "perf-1",
		Status: entity.BookingStatusConfirmed,
	}))

	return env
}

func TestGetOrCreateForBooking(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	chat, err := env.uc.GetOrCreateForBooking(ctx, "bk-1", "cust-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cust-1", "perf-user-1"}, chat.Participants)
	assert.Equal(t, "bk-1", chat.BookingID)

	// The performer lands on the same chat.
	again, err := env.uc.GetOrCreateForBooking(ctx, "bk-1", "perf-user-1")
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)

	_, err = env.uc.GetOrCreateForBooking(ctx, "bk-1", "stranger")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = env.uc.GetOrCreateForBooking(ctx, "no-such-booking", "cust-1")
	require.Error(t, err)
}

func TestSendMessageBumpsUnread(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	chat, err := env.uc.GetOrCreateForBooking(ctx, "bk-1", "cust-1")
	require.NoError(t, err)

	_, err = env.uc.SendMessage(ctx, chat.ID, "cust-1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "MISSING_FIELD"))

	message, err := env.uc.SendMessage(ctx, chat.ID, "cust-1", "Can you start at 19:30?")
	require.NoError(t, err)
	assert.Equal(t, "perf-user-1", message.RecipientID)

	chat, _ = env.chats.GetChatByID(ctx, chat.ID)
	assert.Equal(t, "Can you start at 19:30?", chat.LastMessage)
	assert.Equal(t, 1, chat.UnreadCount["perf-user-1"])
	assert.Equal(t, 0, chat.UnreadCount["cust-1"])

	_, err = env.uc.SendMessage(ctx, chat.ID, "stranger", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListMessagesParticipantOnly(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	chat, err := env.uc.GetOrCreateForBooking(ctx, "bk-1", "cust-1")
	require.NoError(t, err)

	for _, body := range []string{"first", "second"} {
		_, err = env.uc.SendMessage(ctx, chat.ID, "cust-1", body)
		require.NoError(t, err)
	}

	messages, total, err := env.uc.ListMessages(ctx, chat.ID, "perf-user-1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, int64(2), total)

	_, _, err = env.uc.ListMessages(ctx, chat.ID, "stranger", 20, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestMarkReadClearsCounter(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	chat, err := env.uc.GetOrCreateForBooking(ctx, "bk-1", "cust-1")
	require.NoError(t, err)
	_, err = env.uc.SendMessage(ctx, chat.ID, "cust-1", "see you there")
	require.NoError(t, err)

	require.NoError(t, env.uc.MarkRead(ctx, chat.ID, "perf-user-1"))

	chat, _ = env.chats.GetChatByID(ctx, chat.ID)
	assert.Equal(t, 0, chat.UnreadCount["perf-user-1"])

	messages, _, _ := env.uc.ListMessages(ctx, chat.ID, "perf-user-1", 20, 0)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)

	err = env.uc.MarkRead(ctx, chat.ID, "stranger")
	require.Error(t, err)
}
