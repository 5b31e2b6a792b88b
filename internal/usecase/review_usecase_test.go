package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/service"
	"gigstage/pkg/errors"
)

type reviewEnv struct {
	users      *fakeUserRepo
	performers *fakePerformerRepo
	bookings   *fakeBookingRepo
	reviews    *fakeReviewRepo

	uc *ReviewUsecase
}

func newReviewEnv() *reviewEnv {
	env := &reviewEnv{
		users:      newFakeUserRepo(),
		performers: newFakePerformerRepo(),
		bookings:   newFakeBookingRepo(),
		reviews:    newFakeReviewRepo(),
	}

	cfg := testConfig()
	performerUC := NewPerformerUsecase(env.performers, env.users, allowAll{}, nil, cfg)
	authorizer := service.NewRolePolicy(env.users, env.performers)
	env.uc = NewReviewUsecase(env.reviews, env.bookings, env.performers, authorizer, performerUC, testBus())

	ctx := context.Background()
	env.users.Create(ctx, &entity.User{ID: "cust-1", Role: "customer"})
	env.users.Create(ctx, &entity.User{ID: "perf-user-1", Role: "performer"})
	env.users.Create(ctx, &entity.User{ID: "admin-1", Role: "admin"})
	env.performers.Create(ctx, &entity.Performer{
		ID: "perf-1", UserID: "perf-user-1",
		StageName: "The Act", Category: "musician",
		HourlyRate: 100, DepositPercentage: 25,
		Tier: entity.TierFree, Status: entity.PerformerStatusApproved,
	})

	return env
}

func (env *reviewEnv) completedBooking(t *testing.T, id string) *entity.Booking {
	t.Helper()
	booking := &entity.Booking{
		ID: id, BookingNumber: "GS-" + id,
		CustomerID: "cust-1", PerformerID: "perf-1",
		EventDate: "2026-08-01",
		Status:    entity.BookingStatusCompleted,
	}
	require.NoError(t, env.bookings.Create(context.Background(), booking))
	return booking
}

func TestSubmitReviewRequiresCompletedBooking(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()

	booking := env.completedBooking(t, "bk-1")
	booking.Status = entity.BookingStatusConfirmed
	require.NoError(t, env.bookings.Update(ctx, booking))

	_, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "TOO_EARLY"))
}

func TestCustomerReviewUpdatesRating(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")

	review, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 5, Content: "Great show"})
	require.NoError(t, err)

	assert.Equal(t, entity.ReviewerTypeCustomer, review.ReviewerType)
	assert.Equal(t, "perf-1", review.RevieweeID)
	assert.Equal(t, "perf-1", review.PerformerID)
	assert.True(t, review.Visible)
	assert.Equal(t, entity.ArbitrationNone, review.ArbitrationStatus)

	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, 5.0, performer.AverageRating)
	assert.Equal(t, 1, performer.ReviewCount)

	// The second review averages in.
	env.completedBooking(t, "bk-2")
	_, err = env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-2", Rating: 4})
	require.NoError(t, err)

	performer, _ = env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, 4.5, performer.AverageRating)
	assert.Equal(t, 2, performer.ReviewCount)
}

func TestSubmitReviewOncePerParty(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")

	_, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 5})
	require.NoError(t, err)

	_, err = env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "ALREADY_REVIEWED"))

	// The performer's own review is separate and does not touch the
	// performer aggregate.
	review, err := env.uc.Submit(ctx, "perf-user-1", SubmitReviewInput{BookingID: "bk-1", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, entity.ReviewerTypePerformer, review.ReviewerType)
	assert.Equal(t, "cust-1", review.RevieweeID)

	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, 5.0, performer.AverageRating)
	assert.Equal(t, 1, performer.ReviewCount)
}

func TestSubmitReviewStrangerForbidden(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")
	env.users.Create(ctx, &entity.User{ID: "stranger", Role: "customer"})

	_, err := env.uc.Submit(ctx, "stranger", SubmitReviewInput{BookingID: "bk-1", Rating: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubmitReviewClampsRating(t *testing.T) {
	env := newReviewEnv()
	env.completedBooking(t, "bk-1")

	review, err := env.uc.Submit(context.Background(), "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
}

func TestRespondOnce(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")

	review, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 2, Content: "Late arrival"})
	require.NoError(t, err)

	// Only the reviewee can respond.
	_, err = env.uc.Respond(ctx, review.ID, "cust-1", "sorry")
	require.Error(t, err)

	review, err = env.uc.Respond(ctx, review.ID, "perf-user-1", "Traffic, apologies")
	require.NoError(t, err)
	assert.Equal(t, "Traffic, apologies", review.Response)
	assert.NotNil(t, review.ResponseAt)

	_, err = env.uc.Respond(ctx, review.ID, "perf-user-1", "again")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATUS"))
}

func TestFlagAndArbitrateRemoved(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")

	review, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 1, Content: "Terrible"})
	require.NoError(t, err)

	review, err = env.uc.Flag(ctx, review.ID, "perf-user-1", "abusive content")
	require.NoError(t, err)
	assert.True(t, review.Flagged)
	assert.Equal(t, entity.ArbitrationPending, review.ArbitrationStatus)

	// One flag per review.
	_, err = env.uc.Flag(ctx, review.ID, "cust-1", "again")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATUS"))

	// Only an admin arbitrates.
	_, err = env.uc.Arbitrate(ctx, review.ID, "perf-user-1", entity.ArbitrationRemoved, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	review, err = env.uc.Arbitrate(ctx, review.ID, "admin-1", entity.ArbitrationRemoved, "")
	require.NoError(t, err)
	assert.False(t, review.Visible)
	assert.Equal(t, entity.ArbitrationRemoved, review.ArbitrationStatus)

	// The hidden review drops out of the aggregate.
	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, 0.0, performer.AverageRating)
	assert.Equal(t, 0, performer.ReviewCount)

	// The flag cycle is terminal.
	_, err = env.uc.Arbitrate(ctx, review.ID, "admin-1", entity.ArbitrationUpheld, "")
	require.Error(t, err)
}

func TestArbitrateEditedRequiresContent(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()
	env.completedBooking(t, "bk-1")

	review, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: "bk-1", Rating: 2, Content: "Rude and late"})
	require.NoError(t, err)
	_, err = env.uc.Flag(ctx, review.ID, "perf-user-1", "defamatory")
	require.NoError(t, err)

	_, err = env.uc.Arbitrate(ctx, review.ID, "admin-1", entity.ArbitrationEdited, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "MISSING_FIELD"))

	review, err = env.uc.Arbitrate(ctx, review.ID, "admin-1", entity.ArbitrationEdited, "Late arrival")
	require.NoError(t, err)
	assert.Equal(t, "Late arrival", review.Content)
	assert.True(t, review.Visible)
}

func TestListFlaggedAdminOnly(t *testing.T) {
	env := newReviewEnv()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		id := fmt.Sprintf("bk-%d", i)
		env.completedBooking(t, id)
		review, err := env.uc.Submit(ctx, "cust-1", SubmitReviewInput{BookingID: id, Rating: 1})
		require.NoError(t, err)
		if i == 0 {
			_, err = env.uc.Flag(ctx, review.ID, "perf-user-1", "spam")
			require.NoError(t, err)
		}
	}

	_, _, err := env.uc.ListFlagged(ctx, "cust-1", 20, 0)
	require.Error(t, err)

	flagged, total, err := env.uc.ListFlagged(ctx, "admin-1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, flagged, 1)
	assert.Equal(t, int64(1), total)
}
