package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/service"
	"gigstage/pkg/errors"
)

type marketEnv struct {
	users      *fakeUserRepo
	performers *fakePerformerRepo
	bookings   *fakeBookingRepo
	market     *fakeMarketRepo
	slots      *fakeAvailabilityRepo
	payment    *fakePayment

	bookingUC *BookingUsecase
	uc        *MarketUsecase
}

func newMarketEnv() *marketEnv {
	env := &marketEnv{
		users:      newFakeUserRepo(),
		performers: newFakePerformerRepo(),
		bookings:   newFakeBookingRepo(),
		slots:      newFakeAvailabilityRepo(),
		payment:    newFakePayment(),
	}
	env.market = newFakeMarketRepo(env.bookings)

	cfg := testConfig()
	availability := NewAvailabilityUsecase(env.slots, env.performers)
	authorizer := service.NewRolePolicy(env.users, env.performers)
	performerUC := NewPerformerUsecase(env.performers, env.users, authorizer, nil, cfg)
	env.bookingUC = NewBookingUsecase(env.bookings, env.performers, env.users, newFakeLedgerRepo(), availability, env.payment, performerUC, testBus(), cfg)
	env.uc = NewMarketUsecase(env.market, env.performers, availability, authorizer, env.bookingUC, testBus(), cfg)

	ctx := context.Background()
	env.users.Create(ctx, &entity.User{ID: "cust-1", Email: "c@example.test", Username: "cust", Role: "customer"})

	for _, p := range []struct{ user, id, tier string }{
		{"user-a", "perf-a", entity.TierPro},
		{"user-b", "perf-b", entity.TierPro},
		{"user-free", "perf-free", entity.TierFree},
	} {
		env.users.Create(ctx, &entity.User{ID: p.user, Role: "performer"})
		env.performers.Create(ctx, &entity.Performer{
			ID: p.id, UserID: p.user,
			StageName: p.id, Category: "musician",
			HourlyRate: 100, DepositPercentage: 20,
			Tier: p.tier, Status: entity.PerformerStatusApproved,
		})
	}

	return env
}

func (env *marketEnv) openEvent(t *testing.T) *entity.MarketEvent {
	t.Helper()
	marketEvent, err := env.uc.CreateEvent(context.Background(), "cust-1", CreateEventInput{
		Title:     "Wedding reception",
		Category:  "musician",
		EventDate: futureDate(30),
		StartTime: "19:00",
		EndTime:   "22:00",
		Venue:     "Grand Hotel",
		BudgetMin: 200,
		BudgetMax: 600,
	})
	require.NoError(t, err)
	return marketEvent
}

func TestCreateEventDefaultsDeadline(t *testing.T) {
	env := newMarketEnv()
	marketEvent := env.openEvent(t)

	eventDate, _ := time.Parse("2006-01-02", marketEvent.EventDate)
	assert.Equal(t, eventDate.AddDate(0, 0, -3), marketEvent.BidDeadline)
	assert.Equal(t, entity.EventStatusOpen, marketEvent.Status)
}

func TestCreateEventFloorsDeadlineForNearEvents(t *testing.T) {
	env := newMarketEnv()

	marketEvent, err := env.uc.CreateEvent(context.Background(), "cust-1", CreateEventInput{
		Title:     "Last-minute gig",
		EventDate: futureDate(2),
	})
	require.NoError(t, err)

	// Event date minus the lead would be in the past; the deadline is
	// floored to one day out.
	assert.True(t, marketEvent.BidDeadline.After(time.Now()))
}

func TestCreateEventRejectsInvertedBudget(t *testing.T) {
	env := newMarketEnv()

	_, err := env.uc.CreateEvent(context.Background(), "cust-1", CreateEventInput{
		Title:     "Bad budget",
		EventDate: futureDate(30),
		BudgetMin: 500,
		BudgetMax: 100,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_BUDGET"))
}

func TestSubmitBidRequiresProTier(t *testing.T) {
	env := newMarketEnv()
	marketEvent := env.openEvent(t)

	_, err := env.uc.SubmitBid(context.Background(), "user-free", SubmitBidInput{
		EventID: marketEvent.ID,
		Amount:  300,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubmitBidOncePerPerformer(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	bid, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 300.555})
	require.NoError(t, err)
	assert.Equal(t, 300.56, bid.Amount)
	assert.Equal(t, entity.BidStatusPending, bid.Status)

	marketEvent, _ = env.market.GetEventByID(ctx, marketEvent.ID)
	assert.Equal(t, 1, marketEvent.TotalBids)

	_, err = env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 250})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "ALREADY_BID"))
}

func TestSubmitBidClosedEvent(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	marketEvent.BidDeadline = time.Now().Add(-time.Hour)
	require.NoError(t, env.market.UpdateEvent(ctx, marketEvent))

	_, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 300})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "EVENT_CLOSED"))
}

func TestSubmitBidLimit(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	marketEvent.TotalBids = testConfig().MaxBidsPerEvent
	require.NoError(t, env.market.UpdateEvent(ctx, marketEvent))

	_, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 300})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "MAX_BIDS"))
}

func TestAcceptBidCreatesBookingAndRejectsSiblings(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	winner, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)
	loser, err := env.uc.SubmitBid(ctx, "user-b", SubmitBidInput{EventID: marketEvent.ID, Amount: 500})
	require.NoError(t, err)

	booking, err := env.uc.AcceptBid(ctx, winner.ID, "cust-1")
	require.NoError(t, err)

	// Booking priced from the winning bid: 20% deposit, 10% pro commission.
	assert.Equal(t, 400.0, booking.TotalAmount)
	assert.Equal(t, 80.0, booking.DepositAmount)
	assert.Equal(t, 320.0, booking.RemainingAmount)
	assert.Equal(t, 40.0, booking.PlatformCommission)
	assert.Equal(t, 360.0, booking.PerformerPayout)
	assert.Equal(t, "perf-a", booking.PerformerID)
	assert.Equal(t, marketEvent.ID, booking.EventID)
	assert.Equal(t, winner.ID, booking.BidID)
	assert.Equal(t, "Grand Hotel", booking.Location)

	stored, err := env.bookings.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)

	winner, _ = env.market.GetBidByID(ctx, winner.ID)
	assert.Equal(t, entity.BidStatusAccepted, winner.Status)
	loser, _ = env.market.GetBidByID(ctx, loser.ID)
	assert.Equal(t, entity.BidStatusRejected, loser.Status)

	marketEvent, _ = env.market.GetEventByID(ctx, marketEvent.ID)
	assert.Equal(t, entity.EventStatusBooked, marketEvent.Status)
	assert.Equal(t, winner.ID, marketEvent.AcceptedBidID)

	// Winner's calendar is blocked for the event.
	slots, _ := env.slots.ListByDate(ctx, "perf-a", booking.EventDate)
	require.Len(t, slots, 1)
	assert.Equal(t, booking.ID, slots[0].BookingID)
}

func TestAcceptBidIssuesDepositCheckout(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	bid, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)

	booking, err := env.uc.AcceptBid(ctx, bid.ID, "cust-1")
	require.NoError(t, err)

	// The gateway holds an order for the deposit, so the customer can
	// pay it and the settlement webhook has something to match.
	assert.Equal(t, "GS-dep-"+booking.ID, booking.DepositOrderID)
	assert.NotEmpty(t, booking.CheckoutToken)
	assert.NotEmpty(t, booking.CheckoutURL)
	require.Len(t, env.payment.payments, 1)
	assert.Equal(t, booking.DepositOrderID, env.payment.payments[0].OrderID)
	assert.Equal(t, booking.DepositAmount, env.payment.payments[0].Amount)

	// The deposit settles through the normal webhook path.
	sig := env.payment.sign(booking.DepositOrderID, "200", "80.00")
	require.NoError(t, env.bookingUC.HandlePaymentNotification(ctx, booking.DepositOrderID, "200", "80.00", sig, "settlement"))

	booking, _ = env.bookings.GetByID(ctx, booking.ID)
	assert.True(t, booking.DepositPaid)
	assert.Equal(t, entity.EscrowStatusDepositHeld, booking.EscrowStatus)

	// With the deposit held, the balance checkout opens as usual.
	booking, err = env.bookingUC.CreateBalanceCheckout(ctx, booking.ID, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "GS-bal-"+booking.ID, booking.BalanceOrderID)
}

func TestAcceptBidOwnerOnly(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	bid, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)

	_, err = env.uc.AcceptBid(ctx, bid.ID, "user-b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestAcceptBidTwiceFails(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	bid, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)

	_, err = env.uc.AcceptBid(ctx, bid.ID, "cust-1")
	require.NoError(t, err)

	_, err = env.uc.AcceptBid(ctx, bid.ID, "cust-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATUS"))
}

func TestWithdrawBid(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	bid, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)

	require.NoError(t, env.uc.WithdrawBid(ctx, bid.ID, "user-a"))

	bid, _ = env.market.GetBidByID(ctx, bid.ID)
	assert.Equal(t, entity.BidStatusWithdrawn, bid.Status)

	marketEvent, _ = env.market.GetEventByID(ctx, marketEvent.ID)
	assert.Equal(t, 0, marketEvent.TotalBids)

	// Only the bidder can withdraw.
	err = env.uc.WithdrawBid(ctx, bid.ID, "user-b")
	require.Error(t, err)
}

func TestCheckDeadlinesExpiresOpenEvents(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()

	stale := env.openEvent(t)
	stale.BidDeadline = time.Now().Add(-time.Hour)
	require.NoError(t, env.market.UpdateEvent(ctx, stale))

	fresh := env.openEvent(t)

	expired, err := env.uc.CheckDeadlines(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	stale, _ = env.market.GetEventByID(ctx, stale.ID)
	assert.Equal(t, entity.EventStatusExpired, stale.Status)
	fresh, _ = env.market.GetEventByID(ctx, fresh.ID)
	assert.Equal(t, entity.EventStatusOpen, fresh.Status)
}

func TestGetEventBidVisibility(t *testing.T) {
	env := newMarketEnv()
	ctx := context.Background()
	marketEvent := env.openEvent(t)

	_, err := env.uc.SubmitBid(ctx, "user-a", SubmitBidInput{EventID: marketEvent.ID, Amount: 400})
	require.NoError(t, err)
	_, err = env.uc.SubmitBid(ctx, "user-b", SubmitBidInput{EventID: marketEvent.ID, Amount: 500})
	require.NoError(t, err)

	// The owner sees every bid.
	_, bids, err := env.uc.GetEvent(ctx, marketEvent.ID, "cust-1")
	require.NoError(t, err)
	assert.Len(t, bids, 2)

	// A bidder sees only their own.
	_, bids, err = env.uc.GetEvent(ctx, marketEvent.ID, "user-a")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, "perf-a", bids[0].PerformerID)

	// A stranger sees none.
	_, bids, err = env.uc.GetEvent(ctx, marketEvent.ID, "user-free")
	require.NoError(t, err)
	assert.Empty(t, bids)
}
