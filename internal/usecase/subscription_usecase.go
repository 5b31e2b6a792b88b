package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/internal/domain/service"
	"gigstage/internal/event"
	"gigstage/pkg/config"
	"gigstage/pkg/errors"
	"gigstage/pkg/logger"
)

type SubscriptionUsecase struct {
	subscriptionRepo repository.SubscriptionRepository
	performerRepo    repository.PerformerRepository
	userRepo         repository.UserRepository
	payment          service.PaymentGatewayService
	bus              *event.Bus
	cfg              *config.Config
}

func NewSubscriptionUsecase(
	subscriptionRepo repository.SubscriptionRepository,
	performerRepo repository.PerformerRepository,
	userRepo repository.UserRepository,
	payment service.PaymentGatewayService,
	bus *event.Bus,
	cfg *config.Config,
) *SubscriptionUsecase {
	return &SubscriptionUsecase{
		subscriptionRepo: subscriptionRepo,
		performerRepo:    performerRepo,
		userRepo:         userRepo,
		payment:          payment,
		bus:              bus,
		cfg:              cfg,
	}
}

type SubscribeInput struct {
	Tier     string `json:"tier" validate:"required,oneof=pro featured"`
	PlanType string `json:"plan_type" validate:"required,oneof=monthly annual"`
}

// Subscribe starts a recurring plan for a performer and grants the
// tier once the gateway reports it active.
func (uc *SubscriptionUsecase) Subscribe(ctx context.Context, userID string, input SubscribeInput) (*entity.Subscription, error) {
	performer, err := uc.performerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Forbidden("Only performers can subscribe", err)
	}

	if _, err := uc.subscriptionRepo.GetActiveByUserID(ctx, userID); err == nil {
		return nil, errors.Conflict("You already have an active subscription")
	}

	amount := uc.cfg.SubscriptionPrice(input.Tier, input.PlanType)
	if amount <= 0 {
		return nil, errors.Invalid("INVALID_STATUS", "Unknown tier or plan")
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recurring, err := uc.payment.CreateSubscription(ctx, service.RecurringRequest{
		Name:     "gigstage-" + input.Tier + "-" + input.PlanType,
		Amount:   amount,
		Interval: input.PlanType,
		Customer: service.CustomerDetails{
			FirstName: user.Username,
			Email:     user.Email,
			Phone:     user.Phone,
		},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	subscription := &entity.Subscription{
		ID:                    uuid.New().String(),
		UserID:                userID,
		Tier:                  input.Tier,
		PlanType:              input.PlanType,
		Status:                entity.SubscriptionStatusPending,
		Amount:                amount,
		GatewaySubscriptionID: recurring.SubscriptionID,
		NextBillingAt:         &recurring.NextBillingAt,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if recurring.Status == "active" {
		uc.activate(subscription, now)
	}

	if err := uc.subscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, err
	}

	if subscription.Status == entity.SubscriptionStatusActive {
		if err := uc.setTier(ctx, performer, input.Tier); err != nil {
			return nil, err
		}
		uc.bus.Publish(event.SubscriptionChanged{Subscription: subscription, OldStatus: entity.SubscriptionStatusPending})
	}

	return subscription, nil
}

func (uc *SubscriptionUsecase) activate(subscription *entity.Subscription, now time.Time) {
	subscription.Status = entity.SubscriptionStatusActive
	subscription.CurrentPeriodStart = &now

	end := now.AddDate(0, 1, 0)
	if subscription.PlanType == entity.PlanAnnual {
		end = now.AddDate(1, 0, 0)
	}
	subscription.CurrentPeriodEnd = &end
}

func (uc *SubscriptionUsecase) setTier(ctx context.Context, performer *entity.Performer, tier string) error {
	performer.Tier = tier
	performer.Featured = tier == entity.TierFeatured
	return uc.performerRepo.Update(ctx, performer)
}

// GetActive returns the caller's active subscription, if any.
func (uc *SubscriptionUsecase) GetActive(ctx context.Context, userID string) (*entity.Subscription, error) {
	return uc.subscriptionRepo.GetActiveByUserID(ctx, userID)
}

// Cancel stops the recurring charge. The tier survives until the paid
// period ends; the expiry sweep downgrades it.
func (uc *SubscriptionUsecase) Cancel(ctx context.Context, userID string) (*entity.Subscription, error) {
	subscription, err := uc.subscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if subscription.GatewaySubscriptionID != "" {
		if err := uc.payment.CancelSubscription(ctx, subscription.GatewaySubscriptionID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	oldStatus := subscription.Status
	subscription.Status = entity.SubscriptionStatusCancelled
	subscription.CancelledAt = &now

	if err := uc.subscriptionRepo.Update(ctx, subscription); err != nil {
		return nil, err
	}

	uc.bus.Publish(event.SubscriptionChanged{Subscription: subscription, OldStatus: oldStatus})

	return subscription, nil
}

// HandleRecurringNotification is the gateway's subscription callback.
// Status flips drive the performer's tier.
func (uc *SubscriptionUsecase) HandleRecurringNotification(ctx context.Context, gatewaySubscriptionID, gatewayStatus string) error {
	subscription, err := uc.subscriptionRepo.GetByGatewayID(ctx, gatewaySubscriptionID)
	if err != nil {
		return err
	}

	oldStatus := subscription.Status

	var newStatus string
	switch gatewayStatus {
	case "active":
		newStatus = entity.SubscriptionStatusActive
	case "inactive", "cancelled":
		newStatus = entity.SubscriptionStatusCancelled
	case "expired":
		newStatus = entity.SubscriptionStatusExpired
	default:
		logger.Warn("Unknown recurring status %q for subscription %s", gatewayStatus, subscription.ID)
		return nil
	}

	if newStatus == oldStatus {
		return nil
	}

	now := time.Now()
	subscription.Status = newStatus

	switch newStatus {
	case entity.SubscriptionStatusActive:
		uc.activate(subscription, now)
	case entity.SubscriptionStatusCancelled:
		subscription.CancelledAt = &now
	}

	if err := uc.subscriptionRepo.Update(ctx, subscription); err != nil {
		return err
	}

	performer, err := uc.performerRepo.GetByUserID(ctx, subscription.UserID)
	if err == nil {
		switch newStatus {
		case entity.SubscriptionStatusActive:
			if err := uc.setTier(ctx, performer, subscription.Tier); err != nil {
				return err
			}
		case entity.SubscriptionStatusExpired:
			if err := uc.setTier(ctx, performer, entity.TierFree); err != nil {
				return err
			}
		}
	}

	uc.bus.Publish(event.SubscriptionChanged{Subscription: subscription, OldStatus: oldStatus})

	return nil
}

// ExpireLapsed downgrades subscriptions whose paid period has ended.
// Daily; idempotent because expired rows leave the query.
func (uc *SubscriptionUsecase) ExpireLapsed(ctx context.Context) (int, error) {
	subscriptions, err := uc.subscriptionRepo.ListLapsed(ctx, time.Now(), 100)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, subscription := range subscriptions {
		oldStatus := subscription.Status
		subscription.Status = entity.SubscriptionStatusExpired

		if err := uc.subscriptionRepo.Update(ctx, subscription); err != nil {
			logger.Error("Failed to expire subscription %s: %v", subscription.ID, err)
			continue
		}

		if performer, err := uc.performerRepo.GetByUserID(ctx, subscription.UserID); err == nil {
			if err := uc.setTier(ctx, performer, entity.TierFree); err != nil {
				logger.Error("Failed to downgrade performer for subscription %s: %v", subscription.ID, err)
			}
		}

		uc.bus.Publish(event.SubscriptionChanged{Subscription: subscription, OldStatus: oldStatus})
		expired++
	}

	return expired, nil
}
