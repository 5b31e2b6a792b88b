package usecase

import (
	"context"
	"math"
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

// depositCheckoutIssuer opens the deposit payment for a newly minted
// booking; the booking usecase provides it.
type depositCheckoutIssuer interface {
	IssueDepositCheckout(ctx context.Context, booking *entity.Booking) error
}

type MarketUsecase struct {
	marketRepo    repository.MarketRepository
	performerRepo repository.PerformerRepository
	availability  *AvailabilityUsecase
	authorizer    service.Authorizer
	checkouts     depositCheckoutIssuer
	bus           *event.Bus
	cfg           *config.Config
}

func NewMarketUsecase(
	marketRepo repository.MarketRepository,
	performerRepo repository.PerformerRepository,
	availability *AvailabilityUsecase,
	authorizer service.Authorizer,
	checkouts depositCheckoutIssuer,
	bus *event.Bus,
	cfg *config.Config,
) *MarketUsecase {
	return &MarketUsecase{
		marketRepo:    marketRepo,
		performerRepo: performerRepo,
		availability:  availability,
		authorizer:    authorizer,
		checkouts:     checkouts,
		bus:           bus,
		cfg:           cfg,
	}
}

type CreateEventInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	EventDate   string  `json:"event_date" validate:"required"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Venue       string  `json:"venue"`
	BudgetMin   float64 `json:"budget_min" validate:"gte=0"`
	BudgetMax   float64 `json:"budget_max" validate:"gte=0"`
	BidDeadline string  `json:"bid_deadline"` // RFC3339, optional
}

// CreateEvent opens an event for bidding. The deadline defaults to the
// event date minus the configured lead, floored to one day from now.
func (uc *MarketUsecase) CreateEvent(ctx context.Context, customerID string, input CreateEventInput) (*entity.MarketEvent, error) {
	eventDate, err := time.Parse("2006-01-02", input.EventDate)
	if err != nil {
		return nil, errors.Invalid("INVALID_DATE", "Event date must be formatted YYYY-MM-DD")
	}

	now := time.Now()
	if !eventDate.After(now) {
		return nil, errors.Invalid("INVALID_DATE", "Event date must be in the future")
	}

	if input.BudgetMax > 0 && input.BudgetMax < input.BudgetMin {
		return nil, errors.Invalid("INVALID_BUDGET", "Maximum budget must not be below the minimum")
	}

	var deadline time.Time
	if input.BidDeadline != "" {
		deadline, err = time.Parse(time.RFC3339, input.BidDeadline)
		if err != nil {
			return nil, errors.Invalid("INVALID_DATE", "Bid deadline must be RFC3339")
		}
	} else {
		deadline = eventDate.AddDate(0, 0, -uc.cfg.BidDeadlineDays)
		if floor := now.AddDate(0, 0, 1); deadline.Before(floor) {
			deadline = floor
		}
	}

	marketEvent := &entity.MarketEvent{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		EventDate:   input.EventDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Venue:       input.Venue,
		BudgetMin:   input.BudgetMin,
		BudgetMax:   input.BudgetMax,
		BidDeadline: deadline,
		Status:      entity.EventStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.marketRepo.CreateEvent(ctx, marketEvent); err != nil {
		return nil, err
	}

	return marketEvent, nil
}

// ListEvents returns events matching the filters.
func (uc *MarketUsecase) ListEvents(ctx context.Context, status, category string, limit, offset int) ([]*entity.MarketEvent, int64, error) {
	filter := map[string]interface{}{}
	if status != "" {
		filter["status"] = status
	}
	if category != "" {
		filter["category"] = category
	}

	return uc.marketRepo.ListEvents(ctx, filter, limit, offset)
}

// GetEvent returns the event with the bids the actor may see: the
// owner sees all bids, a performer sees only their own.
func (uc *MarketUsecase) GetEvent(ctx context.Context, eventID, actorID string) (*entity.MarketEvent, []*entity.Bid, error) {
	marketEvent, err := uc.marketRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	if marketEvent.CustomerID == actorID {
		bids, err := uc.marketRepo.ListBidsByEvent(ctx, eventID)
		if err != nil {
			return nil, nil, err
		}
		return marketEvent, bids, nil
	}

	if performer, err := uc.performerRepo.GetByUserID(ctx, actorID); err == nil {
		if bid, err := uc.marketRepo.GetBidByEventAndPerformer(ctx, eventID, performer.ID); err == nil {
			return marketEvent, []*entity.Bid{bid}, nil
		}
	}

	return marketEvent, nil, nil
}

type SubmitBidInput struct {
	EventID string  `json:"event_id" validate:"required"`
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message"`
}

// SubmitBid places a performer's offer, enforcing the bidding gates.
func (uc *MarketUsecase) SubmitBid(ctx context.Context, performerUserID string, input SubmitBidInput) (*entity.Bid, error) {
	if err := uc.authorizer.Authorize(ctx, performerUserID, service.ActionBidOnEvents, input.EventID); err != nil {
		return nil, err
	}

	performer, err := uc.performerRepo.GetByUserID(ctx, performerUserID)
	if err != nil {
		return nil, err
	}

	marketEvent, err := uc.marketRepo.GetEventByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	if !marketEvent.AcceptsBids(time.Now()) {
		return nil, errors.Invalid("EVENT_CLOSED", "This event is no longer accepting bids")
	}

	if _, err := uc.marketRepo.GetBidByEventAndPerformer(ctx, input.EventID, performer.ID); err == nil {
		return nil, errors.Invalid("ALREADY_BID", "You have already bid on this event")
	}

	if marketEvent.TotalBids >= uc.cfg.MaxBidsPerEvent {
		return nil, errors.Invalid("MAX_BIDS", "This event has reached its bid limit")
	}

	now := time.Now()
	bid := &entity.Bid{
		ID:          uuid.New().String(),
		EventID:     marketEvent.ID,
		PerformerID: performer.ID,
		Amount:      round2(input.Amount),
		Message:     input.Message,
		Status:      entity.BidStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.marketRepo.CreateBid(ctx, bid); err != nil {
		return nil, err
	}

	marketEvent.TotalBids++
	if err := uc.marketRepo.UpdateEvent(ctx, marketEvent); err != nil {
		return nil, err
	}

	uc.bus.Publish(event.BidSubmitted{Event: marketEvent, Bid: bid})

	return bid, nil
}

// AcceptBid converts the winning bid into a booking. The repository
// commits the whole acceptance in one transaction; losers are notified
// only after it succeeds.
func (uc *MarketUsecase) AcceptBid(ctx context.Context, bidID, customerID string) (*entity.Booking, error) {
	bid, err := uc.marketRepo.GetBidByID(ctx, bidID)
	if err != nil {
		return nil, err
	}

	marketEvent, err := uc.marketRepo.GetEventByID(ctx, bid.EventID)
	if err != nil {
		return nil, err
	}

	if marketEvent.CustomerID != customerID {
		return nil, errors.Forbidden("Only the event owner can accept a bid", nil)
	}
	if bid.Status != entity.BidStatusPending {
		return nil, errors.Invalid("INVALID_STATUS", "Only pending bids can be accepted")
	}

	performer, err := uc.performerRepo.GetByID(ctx, bid.PerformerID)
	if err != nil {
		return nil, err
	}

	total := round2(bid.Amount)
	deposit := round2(total * performer.DepositPercentage / 100)
	commission := round2(total*uc.cfg.CommissionRate(performer.Tier) + uc.cfg.CommissionFlatFee)

	startTime := marketEvent.StartTime
	endTime := marketEvent.EndTime

	now := time.Now()
	booking := &entity.Booking{
		ID:            uuid.New().String(),
		BookingNumber: newBookingNumber(),
		PerformerID:   performer.ID,
		CustomerID:    customerID,
		EventID:       marketEvent.ID,
		BidID:         bid.ID,
		EventDate:     marketEvent.EventDate,
		StartTime:     startTime,
		EndTime:       endTime,
		Location:      marketEvent.Venue,

		TotalAmount:        total,
		DepositAmount:      deposit,
		RemainingAmount:    round2(total - deposit),
		PlatformCommission: commission,
		PerformerPayout:    round2(total - commission),

		Status:       entity.BookingStatusPending,
		EscrowStatus: entity.EscrowStatusPending,

		CreatedAt: now,
		UpdatedAt: now,
	}

	// The deposit order must exist at the gateway before the booking is
	// committed, or the webhook would have nothing to settle against.
	if err := uc.checkouts.IssueDepositCheckout(ctx, booking); err != nil {
		return nil, err
	}

	rejectedPerformers, err := uc.marketRepo.AcceptBid(ctx, marketEvent.ID, bid.ID, booking)
	if err != nil {
		return nil, err
	}

	if err := uc.availability.BlockDate(ctx, performer.ID, booking.EventDate, startTime, endTime, entity.BlockTypeBooking, booking.ID); err != nil {
		logger.Error("Failed to block calendar for booking %s: %v", booking.ID, err)
	}

	bid.Status = entity.BidStatusAccepted
	marketEvent.Status = entity.EventStatusBooked
	marketEvent.AcceptedBidID = bid.ID

	uc.bus.Publish(event.BidAccepted{Event: marketEvent, Bid: bid, Booking: booking})
	if len(rejectedPerformers) > 0 {
		uc.bus.Publish(event.BidRejected{Event: marketEvent, PerformerIDs: rejectedPerformers})
	}
	uc.bus.Publish(event.BookingCreated{Booking: booking})

	return booking, nil
}

// WithdrawBid retracts a pending bid and decrements the counter.
func (uc *MarketUsecase) WithdrawBid(ctx context.Context, bidID, performerUserID string) error {
	bid, err := uc.marketRepo.GetBidByID(ctx, bidID)
	if err != nil {
		return err
	}

	performer, err := uc.performerRepo.GetByUserID(ctx, performerUserID)
	if err != nil || performer.ID != bid.PerformerID {
		return errors.Forbidden("Only the bidder can withdraw a bid", err)
	}

	if bid.Status != entity.BidStatusPending {
		return errors.Invalid("INVALID_STATUS", "Only pending bids can be withdrawn")
	}

	bid.Status = entity.BidStatusWithdrawn
	if err := uc.marketRepo.UpdateBid(ctx, bid); err != nil {
		return err
	}

	marketEvent, err := uc.marketRepo.GetEventByID(ctx, bid.EventID)
	if err != nil {
		return err
	}

	marketEvent.TotalBids = int(math.Max(0, float64(marketEvent.TotalBids-1)))
	return uc.marketRepo.UpdateEvent(ctx, marketEvent)
}

// CancelEvent lets the owner withdraw an open event from the market.
func (uc *MarketUsecase) CancelEvent(ctx context.Context, eventID, customerID string) error {
	marketEvent, err := uc.marketRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	if marketEvent.CustomerID != customerID {
		return errors.Forbidden("Only the event owner can cancel it", nil)
	}
	if marketEvent.Status != entity.EventStatusOpen {
		return errors.Invalid("INVALID_STATUS", "Only open events can be cancelled")
	}

	marketEvent.Status = entity.EventStatusCancelled
	return uc.marketRepo.UpdateEvent(ctx, marketEvent)
}

// CheckDeadlines expires open events whose bid deadline has passed.
// Runs hourly; re-running over expired events is a no-op because the
// query only matches open ones.
func (uc *MarketUsecase) CheckDeadlines(ctx context.Context) (int, error) {
	events, err := uc.marketRepo.ListOpenPastDeadline(ctx, time.Now(), 100)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, marketEvent := range events {
		marketEvent.Status = entity.EventStatusExpired
		if err := uc.marketRepo.UpdateEvent(ctx, marketEvent); err != nil {
			logger.Error("Failed to expire event %s: %v", marketEvent.ID, err)
			continue
		}

		uc.bus.Publish(event.EventExpired{Event: marketEvent})
		expired++
	}

	return expired, nil
}
