package notification

import (
	"context"
	"fmt"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/internal/event"
	"gigstage/pkg/logger"
)

// Dispatcher turns domain events into outbound notifications. It is the
// only bus subscriber that knows how to resolve a booking or bid to
// actual email addresses.
type Dispatcher struct {
	notifier      Notifier
	userRepo      repository.UserRepository
	performerRepo repository.PerformerRepository
	adminEmail    string
}

func NewDispatcher(notifier Notifier, userRepo repository.UserRepository, performerRepo repository.PerformerRepository, adminEmail string) *Dispatcher {
	return &Dispatcher{
		notifier:      notifier,
		userRepo:      userRepo,
		performerRepo: performerRepo,
		adminEmail:    adminEmail,
	}
}

// Register wires the dispatcher onto the bus.
func (d *Dispatcher) Register(bus *event.Bus) {
	bus.Subscribe(event.TypeBookingCreated, d.onBookingCreated)
	bus.Subscribe(event.TypeBookingStatusChanged, d.onBookingStatusChanged)
	bus.Subscribe(event.TypeBookingReminder, d.onBookingReminder)
	bus.Subscribe(event.TypeEscrowReleased, d.onEscrowReleased)
	bus.Subscribe(event.TypeRefundIssued, d.onRefundIssued)
	bus.Subscribe(event.TypeBidSubmitted, d.onBidSubmitted)
	bus.Subscribe(event.TypeBidAccepted, d.onBidAccepted)
	bus.Subscribe(event.TypeBidRejected, d.onBidRejected)
	bus.Subscribe(event.TypeEventExpired, d.onEventExpired)
	bus.Subscribe(event.TypeReviewSubmitted, d.onReviewSubmitted)
	bus.Subscribe(event.TypeReviewFlagged, d.onReviewFlagged)
	bus.Subscribe(event.TypeReviewArbitrated, d.onReviewArbitrated)
	bus.Subscribe(event.TypeSubscriptionChanged, d.onSubscriptionChanged)
}

func (d *Dispatcher) onBookingCreated(ctx context.Context, e event.Event) {
	ev := e.(event.BookingCreated)
	b := ev.Booking

	d.toCustomer(ctx, b.CustomerID,
		fmt.Sprintf("Booking %s created", b.BookingNumber),
		fmt.Sprintf("Your booking for %s is awaiting the deposit payment of %.2f. Complete the checkout to secure the date.", b.EventDate, b.DepositAmount))

	d.toPerformer(ctx, b.PerformerID,
		fmt.Sprintf("New booking request %s", b.BookingNumber),
		fmt.Sprintf("You have a new booking request for %s, %s to %s at %s.", b.EventDate, b.StartTime, b.EndTime, b.Location))
}

func (d *Dispatcher) onBookingStatusChanged(ctx context.Context, e event.Event) {
	ev := e.(event.BookingStatusChanged)
	b := ev.Booking

	subject := fmt.Sprintf("Booking %s is now %s", b.BookingNumber, ev.NewStatus)
	body := fmt.Sprintf("Booking %s for %s moved from %s to %s.", b.BookingNumber, b.EventDate, ev.OldStatus, ev.NewStatus)

	d.toCustomer(ctx, b.CustomerID, subject, body)
	d.toPerformer(ctx, b.PerformerID, subject, body)

	if ev.NewStatus == entity.BookingStatusDisputed {
		d.send(ctx, d.adminEmail, subject, body+" The booking requires arbitration.")
	}
}

func (d *Dispatcher) onBookingReminder(ctx context.Context, e event.Event) {
	ev := e.(event.BookingReminder)
	b := ev.Booking

	subject := fmt.Sprintf("Upcoming event in %d day(s): %s", ev.DaysLeft, b.BookingNumber)
	body := fmt.Sprintf("Reminder: booking %s takes place on %s, %s to %s at %s.", b.BookingNumber, b.EventDate, b.StartTime, b.EndTime, b.Location)

	d.toCustomer(ctx, b.CustomerID, subject, body)
	d.toPerformer(ctx, b.PerformerID, subject, body)
}

func (d *Dispatcher) onEscrowReleased(ctx context.Context, e event.Event) {
	ev := e.(event.EscrowReleased)
	b := ev.Booking

	d.toPerformer(ctx, b.PerformerID,
		fmt.Sprintf("Payout released for %s", b.BookingNumber),
		fmt.Sprintf("Your payout of %.2f for booking %s has been released.", ev.Amount, b.BookingNumber))

	d.toCustomer(ctx, b.CustomerID,
		fmt.Sprintf("Booking %s settled", b.BookingNumber),
		fmt.Sprintf("Booking %s is settled. Thank you for using GigStage.", b.BookingNumber))
}

func (d *Dispatcher) onRefundIssued(ctx context.Context, e event.Event) {
	ev := e.(event.RefundIssued)
	b := ev.Booking

	d.toCustomer(ctx, b.CustomerID,
		fmt.Sprintf("Refund issued for %s", b.BookingNumber),
		fmt.Sprintf("A refund of %.2f for booking %s has been issued to your payment method.", ev.Amount, b.BookingNumber))
}

func (d *Dispatcher) onBidSubmitted(ctx context.Context, e event.Event) {
	ev := e.(event.BidSubmitted)

	d.toCustomer(ctx, ev.Event.CustomerID,
		fmt.Sprintf("New bid on %q", ev.Event.Title),
		fmt.Sprintf("A performer placed a bid of %.2f on your event %q.", ev.Bid.Amount, ev.Event.Title))
}

func (d *Dispatcher) onBidAccepted(ctx context.Context, e event.Event) {
	ev := e.(event.BidAccepted)

	d.toPerformer(ctx, ev.Bid.PerformerID,
		fmt.Sprintf("Your bid on %q was accepted", ev.Event.Title),
		fmt.Sprintf("Your bid of %.2f was accepted. Booking %s has been created for %s.", ev.Bid.Amount, ev.Booking.BookingNumber, ev.Booking.EventDate))
}

func (d *Dispatcher) onBidRejected(ctx context.Context, e event.Event) {
	ev := e.(event.BidRejected)

	for _, performerID := range ev.PerformerIDs {
		d.toPerformer(ctx, performerID,
			fmt.Sprintf("Your bid on %q was not selected", ev.Event.Title),
			fmt.Sprintf("The customer chose another performer for %q. Keep an eye on the market for new events.", ev.Event.Title))
	}
}

func (d *Dispatcher) onEventExpired(ctx context.Context, e event.Event) {
	ev := e.(event.EventExpired)

	d.toCustomer(ctx, ev.Event.CustomerID,
		fmt.Sprintf("Your event %q expired", ev.Event.Title),
		fmt.Sprintf("The bid deadline for %q passed without an accepted bid. You can repost the event with a new date.", ev.Event.Title))
}

func (d *Dispatcher) onReviewSubmitted(ctx context.Context, e event.Event) {
	ev := e.(event.ReviewSubmitted)
	r := ev.Review

	if r.ReviewerType == entity.ReviewerTypeCustomer {
		d.toPerformer(ctx, r.PerformerID,
			"You received a new review",
			fmt.Sprintf("A customer left a %d-star review on booking %s. You can post one public response.", r.Rating, r.BookingID))
	}
}

func (d *Dispatcher) onReviewFlagged(ctx context.Context, e event.Event) {
	ev := e.(event.ReviewFlagged)

	d.send(ctx, d.adminEmail,
		"Review flagged for arbitration",
		fmt.Sprintf("Review %s on booking %s was flagged: %s", ev.Review.ID, ev.Review.BookingID, ev.Review.FlagReason))
}

func (d *Dispatcher) onReviewArbitrated(ctx context.Context, e event.Event) {
	ev := e.(event.ReviewArbitrated)
	r := ev.Review

	d.toPerformer(ctx, r.PerformerID,
		"Review arbitration decided",
		fmt.Sprintf("The flagged review on booking %s was resolved: %s.", r.BookingID, ev.Decision))
}

func (d *Dispatcher) onSubscriptionChanged(ctx context.Context, e event.Event) {
	ev := e.(event.SubscriptionChanged)
	s := ev.Subscription

	d.toUser(ctx, s.UserID,
		fmt.Sprintf("Subscription %s", s.Status),
		fmt.Sprintf("Your %s subscription is now %s.", s.Tier, s.Status))
}

func (d *Dispatcher) toUser(ctx context.Context, userID, subject, body string) {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Warn("Notification recipient lookup failed for user %s: %v", userID, err)
		return
	}
	d.send(ctx, user.Email, subject, body)
}

func (d *Dispatcher) toCustomer(ctx context.Context, customerID, subject, body string) {
	d.toUser(ctx, customerID, subject, body)
}

func (d *Dispatcher) toPerformer(ctx context.Context, performerID, subject, body string) {
	performer, err := d.performerRepo.GetByID(ctx, performerID)
	if err != nil {
		logger.Warn("Notification recipient lookup failed for performer %s: %v", performerID, err)
		return
	}
	d.toUser(ctx, performer.UserID, subject, body)
}

func (d *Dispatcher) send(ctx context.Context, to, subject, body string) {
	if to == "" {
		return
	}
	if err := d.notifier.Notify(ctx, to, subject, body); err != nil {
		logger.Error("Notification delivery failed for %s: %v", to, err)
	}
}
