package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
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

// achievementRecalculator breaks the cycle between the booking/review
// usecases and the performer usecase that owns the scoring rules.
type achievementRecalculator interface {
	RecalculateAchievement(ctx context.Context, performerID string) error
}

type BookingUsecase struct {
	bookingRepo   repository.BookingRepository
	performerRepo repository.PerformerRepository
	userRepo      repository.UserRepository
	ledgerRepo    repository.LedgerRepository
	availability  *AvailabilityUsecase
	payment       service.PaymentGatewayService
	achievements  achievementRecalculator
	bus           *event.Bus
	cfg           *config.Config
}

func NewBookingUsecase(
	bookingRepo repository.BookingRepository,
	performerRepo repository.PerformerRepository,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	availability *AvailabilityUsecase,
	payment service.PaymentGatewayService,
	achievements achievementRecalculator,
	bus *event.Bus,
	cfg *config.Config,
) *BookingUsecase {
	return &BookingUsecase{
		bookingRepo:   bookingRepo,
		performerRepo: performerRepo,
		userRepo:      userRepo,
		ledgerRepo:    ledgerRepo,
		availability:  availability,
		payment:       payment,
		achievements:  achievements,
		bus:           bus,
		cfg:           cfg,
	}
}

type CreateBookingInput struct {
	PerformerID string  `json:"performer_id" validate:"required"`
	EventDate   string  `json:"event_date" validate:"required"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	Notes       string  `json:"notes"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// billableHours converts a time window to billed hours: rounded up to
// the nearest half hour, minimum one hour.
func billableHours(startTime, endTime string) (float64, error) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, errors.Invalid("INVALID_DATE", "Start time must be formatted HH:MM")
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return 0, errors.Invalid("INVALID_DATE", "End time must be formatted HH:MM")
	}
	if !end.After(start) {
		return 0, errors.Invalid("INVALID_DATE", "End time must be after start time")
	}

	hours := end.Sub(start).Hours()
	hours = math.Ceil(hours*2) / 2
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

func newBookingNumber() string {
	return "GS-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Create validates the request, reprices it server-side, persists the
// booking, blocks the calendar, and issues the deposit checkout.
func (uc *BookingUsecase) Create(ctx context.Context, customerID string, input CreateBookingInput) (*entity.Booking, error) {
	performer, err := uc.performerRepo.GetByID(ctx, input.PerformerID)
	if err != nil {
		return nil, errors.Invalid("INVALID_PERFORMER", "Performer does not exist")
	}
	if performer.Status != entity.PerformerStatusApproved {
		return nil, errors.Invalid("PERFORMER_INACTIVE", "Performer is not accepting bookings")
	}
	if performer.HourlyRate <= 0 {
		return nil, errors.Invalid("NO_RATE", "Performer has not set an hourly rate")
	}

	available, err := uc.availability.IsAvailable(ctx, performer.ID, input.EventDate, input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errors.Invalid("PERFORMER_UNAVAILABLE", "Performer is not available for the requested date and time")
	}

	hours, err := billableHours(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	expected := round2(performer.HourlyRate * hours)

	// Anti-tamper check against the client-submitted total, with a
	// small configured tolerance. Discrepancies inside the tolerance
	// are accepted but always audit-logged.
	if diff := math.Abs(input.TotalAmount - expected); diff > expected*uc.cfg.PriceTolerancePercent/100 {
		logger.Audit("Booking amount mismatch: customer %s submitted %.2f, expected %.2f", customerID, input.TotalAmount, expected)
		return nil, errors.Invalid("AMOUNT_MISMATCH", "Submitted total does not match the calculated price")
	} else if diff > 0 {
		logger.Audit("Booking amount discrepancy within tolerance: customer %s submitted %.2f, expected %.2f", customerID, input.TotalAmount, expected)
	}

	total := expected
	deposit := round2(total * performer.DepositPercentage / 100)
	remaining := round2(total - deposit)
	commission := round2(total*uc.cfg.CommissionRate(performer.Tier) + uc.cfg.CommissionFlatFee)
	payout := round2(total - commission)

	now := time.Now()
	booking := &entity.Booking{
		ID:            uuid.New().String(),
		BookingNumber: newBookingNumber(),
		PerformerID:   performer.ID,
		CustomerID:    customerID,
		EventDate:     input.EventDate,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Location:      input.Location,
		Notes:         input.Notes,

		TotalAmount:        total,
		DepositAmount:      deposit,
		RemainingAmount:    remaining,
		PlatformCommission: commission,
		PerformerPayout:    payout,

		Status:       entity.BookingStatusPending,
		EscrowStatus: entity.EscrowStatusPending,

		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.IssueDepositCheckout(ctx, booking); err != nil {
		return nil, err
	}

	if err := uc.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err := uc.availability.BlockDate(ctx, performer.ID, booking.EventDate, booking.StartTime, booking.EndTime, entity.BlockTypeBooking, booking.ID); err != nil {
		logger.Error("Failed to block calendar for booking %s: %v", booking.ID, err)
	}

	uc.bus.Publish(event.BookingCreated{Booking: booking})

	return booking, nil
}

// IssueDepositCheckout opens the deposit order at the gateway and
// stamps the checkout handles on the booking. Used for direct bookings
// and for bookings minted from an accepted bid.
func (uc *BookingUsecase) IssueDepositCheckout(ctx context.Context, booking *entity.Booking) error {
	booking.DepositOrderID = fmt.Sprintf("GS-dep-%s", booking.ID)

	checkout, err := uc.createCheckout(ctx, booking.CustomerID, booking.DepositOrderID, booking.DepositAmount,
		fmt.Sprintf("Deposit for booking %s", booking.BookingNumber))
	if err != nil {
		return err
	}

	booking.CheckoutToken = checkout.Token
	booking.CheckoutURL = checkout.RedirectURL
	return nil
}

func (uc *BookingUsecase) createCheckout(ctx context.Context, customerID, orderID string, amount float64, description string) (*service.PaymentGatewayResponse, error) {
	customer, err := uc.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return uc.payment.CreatePayment(ctx, service.PaymentGatewayRequest{
		OrderID:     orderID,
		Amount:      amount,
		Description: description,
		CustomerDetails: service.CustomerDetails{
			FirstName: customer.Username,
			Email:     customer.Email,
			Phone:     customer.Phone,
		},
	})
}

// GetByID returns the booking to its parties or an admin.
func (uc *BookingUsecase) GetByID(ctx context.Context, bookingID, actorID string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeParty(ctx, booking, actorID); err != nil {
		return nil, err
	}

	return booking, nil
}

func (uc *BookingUsecase) authorizeParty(ctx context.Context, booking *entity.Booking, actorID string) error {
	if booking.CustomerID == actorID {
		return nil
	}

	if performer, err := uc.performerRepo.GetByUserID(ctx, actorID); err == nil && performer.ID == booking.PerformerID {
		return nil
	}

	if user, err := uc.userRepo.GetByID(ctx, actorID); err == nil && user.Role == "admin" {
		return nil
	}

	return errors.Forbidden("You are not a party to this booking", nil)
}

// List returns bookings visible to the actor, by role and status.
func (uc *BookingUsecase) List(ctx context.Context, actorID, role, status string, limit, offset int) ([]*entity.Booking, int64, error) {
	partyID := actorID
	if role == "performer" {
		performer, err := uc.performerRepo.GetByUserID(ctx, actorID)
		if err != nil {
			return nil, 0, err
		}
		partyID = performer.ID
	}

	return uc.bookingRepo.ListByUserID(ctx, partyID, role, status, limit, offset)
}

// UpdateStatus records the transition and runs its side effects.
func (uc *BookingUsecase) UpdateStatus(ctx context.Context, bookingID, newStatus string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	oldStatus := booking.Status
	if oldStatus == newStatus {
		return booking, nil
	}

	booking.Status = newStatus

	switch newStatus {
	case entity.BookingStatusCompleted:
		now := time.Now()
		booking.CompletionDate = &now
	case entity.BookingStatusCancelled:
		now := time.Now()
		booking.CancelledAt = &now
	}

	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	uc.bus.Publish(event.BookingStatusChanged{Booking: booking, OldStatus: oldStatus, NewStatus: newStatus})

	switch newStatus {
	case entity.BookingStatusCompleted:
		if err := uc.ReleaseEscrow(ctx, booking.ID); err != nil {
			logger.Error("Failed to release escrow for booking %s: %v", booking.ID, err)
		}
		if err := uc.recordCompletion(ctx, booking.PerformerID); err != nil {
			logger.Error("Failed to record completion for performer %s: %v", booking.PerformerID, err)
		}

	case entity.BookingStatusCancelled:
		if err := uc.availability.UnblockBooking(ctx, booking.ID); err != nil {
			logger.Error("Failed to unblock calendar for booking %s: %v", booking.ID, err)
		}
		if err := uc.ProcessRefund(ctx, booking.ID); err != nil {
			logger.Error("Failed to process refund for booking %s: %v", booking.ID, err)
		}
	}

	return booking, nil
}

func (uc *BookingUsecase) recordCompletion(ctx context.Context, performerID string) error {
	performer, err := uc.performerRepo.GetByID(ctx, performerID)
	if err != nil {
		return err
	}

	performer.CompletedBookings++
	if err := uc.performerRepo.Update(ctx, performer); err != nil {
		return err
	}

	return uc.achievements.RecalculateAchievement(ctx, performerID)
}

// PerformerConfirm flags the performer's acceptance of a pending
// booking; if the deposit is already in, the booking confirms at once.
func (uc *BookingUsecase) PerformerConfirm(ctx context.Context, bookingID, performerUserID string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	performer, err := uc.performerRepo.GetByUserID(ctx, performerUserID)
	if err != nil || performer.ID != booking.PerformerID {
		return nil, errors.Forbidden("Only the booked performer can confirm", err)
	}

	if booking.Status != entity.BookingStatusPending {
		return nil, errors.Invalid("INVALID_STATUS", "Only pending bookings can be confirmed")
	}

	booking.PerformerConfirmed = true
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if booking.DepositPaid {
		return uc.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed)
	}

	return booking, nil
}

// CustomerConfirmCompletion completes a confirmed booking once the
// event date has passed.
func (uc *BookingUsecase) CustomerConfirmCompletion(ctx context.Context, bookingID, customerID string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != customerID {
		return nil, errors.Forbidden("Only the customer can confirm completion", nil)
	}

	if !booking.CanComplete(time.Now()) {
		if booking.Status != entity.BookingStatusConfirmed && booking.Status != entity.BookingStatusInProgress {
			return nil, errors.Invalid("INVALID_STATUS", "Only confirmed bookings can be completed")
		}
		return nil, errors.Invalid("TOO_EARLY", "The event date has not passed yet")
	}

	booking.CustomerConfirmedCompletion = true
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return uc.UpdateStatus(ctx, booking.ID, entity.BookingStatusCompleted)
}

// Cancel is terminal from any non-terminal state before event start.
func (uc *BookingUsecase) Cancel(ctx context.Context, bookingID, actorID, reason string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeParty(ctx, booking, actorID); err != nil {
		return nil, err
	}

	if !booking.CanCancel(time.Now()) {
		return nil, errors.Invalid("INVALID_STATUS", "This booking can no longer be cancelled")
	}

	booking.CancellationReason = reason
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return uc.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled)
}

// ReleaseEscrow pays the performer: appends the ledger entry, flips the
// escrow status, and stamps the payout.
func (uc *BookingUsecase) ReleaseEscrow(ctx context.Context, bookingID string) error {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.EscrowStatus == entity.EscrowStatusReleased || booking.EscrowStatus == entity.EscrowStatusRefunded {
		return nil
	}

	entry := &entity.LedgerEntry{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Type:      entity.LedgerTypeEscrowRelease,
		Amount:    booking.PerformerPayout,
		PayeeID:   booking.PerformerID,
		Status:    "completed",
		CreatedAt: time.Now(),
	}
	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		return err
	}

	now := time.Now()
	booking.EscrowStatus = entity.EscrowStatusReleased
	booking.PayoutAt = &now
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	uc.bus.Publish(event.EscrowReleased{Booking: booking, Amount: booking.PerformerPayout})
	return nil
}

// ProcessRefund returns whatever was captured: the full total when
// fully paid, the deposit when only the deposit is in, nothing
// otherwise.
func (uc *BookingUsecase) ProcessRefund(ctx context.Context, bookingID string) error {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	var amount float64
	var orderID string
	switch {
	case booking.FullyPaid:
		amount = booking.TotalAmount
		orderID = booking.BalanceOrderID
		if orderID == "" {
			orderID = booking.DepositOrderID
		}
	case booking.DepositPaid:
		amount = booking.DepositAmount
		orderID = booking.DepositOrderID
	default:
		return nil
	}

	if err := uc.payment.RefundPayment(ctx, orderID, amount, "Booking cancelled"); err != nil {
		return err
	}

	entry := &entity.LedgerEntry{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Type:      entity.LedgerTypeRefund,
		Amount:    amount,
		PayeeID:   booking.CustomerID,
		Status:    "completed",
		Reference: orderID,
		CreatedAt: time.Now(),
	}
	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		return err
	}

	booking.EscrowStatus = entity.EscrowStatusRefunded
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	uc.bus.Publish(event.RefundIssued{Booking: booking, Amount: amount})
	return nil
}

// CreateBalanceCheckout issues the remaining-amount checkout once the
// deposit is paid.
func (uc *BookingUsecase) CreateBalanceCheckout(ctx context.Context, bookingID, customerID string) (*entity.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != customerID {
		return nil, errors.Forbidden("Only the customer can pay the balance", nil)
	}
	if !booking.DepositPaid {
		return nil, errors.Invalid("INVALID_STATUS", "The deposit has not been paid yet")
	}
	if booking.FullyPaid {
		return nil, errors.Invalid("INVALID_STATUS", "This booking is already fully paid")
	}

	booking.BalanceOrderID = fmt.Sprintf("GS-bal-%s", booking.ID)

	checkout, err := uc.createCheckout(ctx, customerID, booking.BalanceOrderID, booking.RemainingAmount,
		fmt.Sprintf("Balance for booking %s", booking.BookingNumber))
	if err != nil {
		return nil, err
	}

	booking.CheckoutToken = checkout.Token
	booking.CheckoutURL = checkout.RedirectURL
	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// HandlePaymentNotification is the gateway webhook: it validates the
// signature and advances payment and escrow state.
func (uc *BookingUsecase) HandlePaymentNotification(ctx context.Context, orderID, statusCode, grossAmount, signature, transactionStatus string) error {
	if !uc.payment.VerifySignature(orderID, statusCode, grossAmount, signature) {
		return errors.Unauthorized("Invalid webhook signature", nil)
	}

	booking, err := uc.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	switch transactionStatus {
	case "settlement", "capture":
	case "cancel", "deny", "expire":
		logger.Warn("Payment failed for order %s (%s)", orderID, transactionStatus)
		return nil
	default:
		return nil
	}

	now := time.Now()

	switch orderID {
	case booking.DepositOrderID:
		if booking.DepositPaid {
			return nil
		}
		booking.DepositPaid = true
		booking.EscrowStatus = entity.EscrowStatusDepositHeld

		entry := &entity.LedgerEntry{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Type:      entity.LedgerTypeDeposit,
			Amount:    booking.DepositAmount,
			PayerID:   booking.CustomerID,
			Status:    "completed",
			Reference: orderID,
			CreatedAt: now,
		}
		if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}

	case booking.BalanceOrderID:
		if booking.FullyPaid {
			return nil
		}
		booking.FullyPaid = true
		booking.EscrowStatus = entity.EscrowStatusFullHeld

		entry := &entity.LedgerEntry{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Type:      entity.LedgerTypeFullPayment,
			Amount:    booking.RemainingAmount,
			PayerID:   booking.CustomerID,
			Status:    "completed",
			Reference: orderID,
			CreatedAt: now,
		}
		if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}

	default:
		return errors.NotFound("Order", nil)
	}

	if err := uc.bookingRepo.Update(ctx, booking); err != nil {
		return err
	}

	if booking.Status == entity.BookingStatusPending && booking.PerformerConfirmed && booking.DepositPaid {
		if _, err := uc.UpdateStatus(ctx, booking.ID, entity.BookingStatusConfirmed); err != nil {
			return err
		}
	}

	return nil
}

// ProcessAutoReleases force-completes held bookings whose event date is
// at least the configured number of days past. Lack of a dispute within
// the window counts as acceptance. Safe to re-run.
func (uc *BookingUsecase) ProcessAutoReleases(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -uc.cfg.AutoReleaseDays)

	bookings, err := uc.bookingRepo.ListHeldPastEvent(ctx, cutoff, 100)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, booking := range bookings {
		if booking.Status != entity.BookingStatusConfirmed && booking.Status != entity.BookingStatusInProgress {
			continue
		}
		if booking.CustomerConfirmedCompletion {
			continue
		}

		logger.Info("Auto-releasing booking %s (event %s)", booking.BookingNumber, booking.EventDate)
		if _, err := uc.UpdateStatus(ctx, booking.ID, entity.BookingStatusCompleted); err != nil {
			logger.Error("Auto-release failed for booking %s: %v", booking.ID, err)
			continue
		}
		released++
	}

	return released, nil
}

// SendBookingReminders emits reminder events for bookings happening in
// exactly the short and long reminder windows. Each offset is recorded
// on the booking, so a re-run within the same day is a no-op.
func (uc *BookingUsecase) SendBookingReminders(ctx context.Context) error {
	for _, days := range []int{uc.cfg.ReminderDaysShort, uc.cfg.ReminderDaysLong} {
		date := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		bookings, err := uc.bookingRepo.ListByEventDate(ctx, date)
		if err != nil {
			return err
		}

		for _, booking := range bookings {
			if slices.Contains(booking.RemindersSent, days) {
				continue
			}

			uc.bus.Publish(event.BookingReminder{Booking: booking, DaysLeft: days})

			booking.RemindersSent = append(booking.RemindersSent, days)
			if err := uc.bookingRepo.Update(ctx, booking); err != nil {
				logger.Error("Failed to record reminder for booking %s: %v", booking.ID, err)
			}
		}
	}

	return nil
}

// ListLedger returns a booking's money movements to its parties.
func (uc *BookingUsecase) ListLedger(ctx context.Context, bookingID, actorID string) ([]*entity.LedgerEntry, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := uc.authorizeParty(ctx, booking, actorID); err != nil {
		return nil, err
	}

	return uc.ledgerRepo.ListByBookingID(ctx, bookingID)
}
