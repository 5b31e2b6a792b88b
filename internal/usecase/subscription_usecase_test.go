package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigstage/internal/domain/entity"
	"gigstage/pkg/errors"
)

type subscriptionEnv struct {
	users         *fakeUserRepo
	performers    *fakePerformerRepo
	subscriptions *fakeSubscriptionRepo
	payment       *fakePayment

	uc *SubscriptionUsecase
}

func newSubscriptionEnv() *subscriptionEnv {
	env := &subscriptionEnv{
		users:         newFakeUserRepo(),
		performers:    newFakePerformerRepo(),
		subscriptions: newFakeSubscriptionRepo(),
		payment:       newFakePayment(),
	}

	env.uc = NewSubscriptionUsecase(env.subscriptions, env.performers, env.users, env.payment, testBus(), testConfig())

	ctx := context.Background()
	env.users.Create(ctx, &entity.User{ID: "perf-user-1", Username: "nova", Email: "nova@example.test", Role: "performer"})
	env.users.Create(ctx, &entity.User{ID: "cust-1", Role: "customer"})
	env.performers.Create(ctx, &entity.Performer{
		ID: "perf-1", UserID: "perf-user-1",
		StageName: "DJ Nova", Category: "dj",
		Tier: entity.TierFree, Status: entity.PerformerStatusApproved,
	})

	return env
}

func TestSubscribeActivatesAndUpgradesTier(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	assert.Equal(t, entity.SubscriptionStatusActive, subscription.Status)
	assert.Equal(t, 19.0, subscription.Amount)
	assert.NotEmpty(t, subscription.GatewaySubscriptionID)
	require.NotNil(t, subscription.CurrentPeriodEnd)
	assert.True(t, subscription.CurrentPeriodEnd.After(time.Now()))

	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierPro, performer.Tier)
	assert.False(t, performer.Featured)
}

func TestSubscribeFeaturedSetsFlag(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierFeatured, PlanType: entity.PlanAnnual})
	require.NoError(t, err)
	assert.Equal(t, 490.0, subscription.Amount)

	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierFeatured, performer.Tier)
	assert.True(t, performer.Featured)
}

func TestSubscribeRejectsDuplicateAndNonPerformer(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	_, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	_, err = env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierFeatured, PlanType: entity.PlanMonthly})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	_, err = env.uc.Subscribe(ctx, "cust-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSubscribeUnknownPlan(t *testing.T) {
	env := newSubscriptionEnv()

	_, err := env.uc.Subscribe(context.Background(), "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: "weekly"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATUS"))
}

func TestSubscribePendingUntilGatewayActive(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()
	env.payment.subStatus = "pending"

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusPending, subscription.Status)

	// No tier grant before the gateway confirms.
	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierFree, performer.Tier)

	require.NoError(t, env.uc.HandleRecurringNotification(ctx, subscription.GatewaySubscriptionID, "active"))

	subscription, _ = env.subscriptions.GetByID(ctx, subscription.ID)
	assert.Equal(t, entity.SubscriptionStatusActive, subscription.Status)
	performer, _ = env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierPro, performer.Tier)
}

func TestCancelStopsChargeButKeepsTier(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	created, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	cancelled, err := env.uc.Cancel(ctx, "perf-user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, []string{created.GatewaySubscriptionID}, env.payment.cancelled)

	// The tier holds until the paid period lapses.
	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierPro, performer.Tier)

	_, err = env.uc.Cancel(ctx, "perf-user-1")
	require.Error(t, err)
}

func TestRecurringExpiredDowngrades(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierFeatured, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	require.NoError(t, env.uc.HandleRecurringNotification(ctx, subscription.GatewaySubscriptionID, "expired"))

	subscription, _ = env.subscriptions.GetByID(ctx, subscription.ID)
	assert.Equal(t, entity.SubscriptionStatusExpired, subscription.Status)

	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierFree, performer.Tier)
	assert.False(t, performer.Featured)
}

func TestRecurringUnknownStatusIgnored(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	require.NoError(t, env.uc.HandleRecurringNotification(ctx, subscription.GatewaySubscriptionID, "settlement"))

	subscription, _ = env.subscriptions.GetByID(ctx, subscription.ID)
	assert.Equal(t, entity.SubscriptionStatusActive, subscription.Status)

	err = env.uc.HandleRecurringNotification(ctx, "no-such-gateway-id", "active")
	require.Error(t, err)
}

func TestExpireLapsedSweep(t *testing.T) {
	env := newSubscriptionEnv()
	ctx := context.Background()

	subscription, err := env.uc.Subscribe(ctx, "perf-user-1", SubscribeInput{Tier: entity.TierPro, PlanType: entity.PlanMonthly})
	require.NoError(t, err)

	// Nothing lapsed yet.
	expired, err := env.uc.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	past := time.Now().Add(-time.Hour)
	subscription.CurrentPeriodEnd = &past
	require.NoError(t, env.subscriptions.Update(ctx, subscription))

	expired, err = env.uc.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	subscription, _ = env.subscriptions.GetByID(ctx, subscription.ID)
	assert.Equal(t, entity.SubscriptionStatusExpired, subscription.Status)
	performer, _ := env.performers.GetByID(ctx, "perf-1")
	assert.Equal(t, entity.TierFree, performer.Tier)

	// Expired rows leave the sweep.
	expired, err = env.uc.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}
