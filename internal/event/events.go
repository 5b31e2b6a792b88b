package event

import (
	"gigstage/internal/domain/entity"
)

type Type string

const (
	TypeBookingCreated       Type = "booking_created"
	TypeBookingStatusChanged Type = "booking_status_changed"
	TypeBookingReminder      Type = "booking_reminder"
	TypeEscrowReleased       Type = "escrow_released"
	TypeRefundIssued         Type = "refund_issued"
	TypeBidSubmitted         Type = "bid_submitted"
	TypeBidAccepted          Type = "bid_accepted"
	TypeBidRejected          Type = "bid_rejected"
	TypeEventExpired         Type = "event_expired"
	TypeReviewSubmitted      Type = "review_submitted"
	TypeReviewFlagged        Type = "review_flagged"
	TypeReviewArbitrated     Type = "review_arbitrated"
	TypeSubscriptionChanged  Type = "subscription_changed"
	TypeMessageSent          Type = "message_sent"
)

// Event is anything publishable on the bus.
type Event interface {
	EventType() Type
}

type BookingCreated struct {
	Booking *entity.Booking
}

func (BookingCreated) EventType() Type { return TypeBookingCreated }

type BookingStatusChanged struct {
	Booking   *entity.Booking
	OldStatus string
	NewStatus string
}

func (BookingStatusChanged) EventType() Type { return TypeBookingStatusChanged }

type BookingReminder struct {
	Booking  *entity.Booking
	DaysLeft int
}

func (BookingReminder) EventType() Type { return TypeBookingReminder }

type EscrowReleased struct {
	Booking *entity.Booking
	Amount  float64
}

func (EscrowReleased) EventType() Type { return TypeEscrowReleased }

type RefundIssued struct {
	Booking *entity.Booking
	Amount  float64
}

func (RefundIssued) EventType() Type { return TypeRefundIssued }

type BidSubmitted struct {
	Event *entity.MarketEvent
	Bid   *entity.Bid
}

func (BidSubmitted) EventType() Type { return TypeBidSubmitted }

type BidAccepted struct {
	Event   *entity.MarketEvent
	Bid     *entity.Bid
	Booking *entity.Booking
}

func (BidAccepted) EventType() Type { return TypeBidAccepted }

type BidRejected struct {
	Event        *entity.MarketEvent
	PerformerIDs []string
}

func (BidRejected) EventType() Type { return TypeBidRejected }

type EventExpired struct {
	Event *entity.MarketEvent
}

func (EventExpired) EventType() Type { return TypeEventExpired }

type ReviewSubmitted struct {
	Review *entity.Review
}

func (ReviewSubmitted) EventType() Type { return TypeReviewSubmitted }

type ReviewFlagged struct {
	Review *entity.Review
}

func (ReviewFlagged) EventType() Type { return TypeReviewFlagged }

type ReviewArbitrated struct {
	Review   *entity.Review
	Decision string
}

func (ReviewArbitrated) EventType() Type { return TypeReviewArbitrated }

type SubscriptionChanged struct {
	Subscription *entity.Subscription
	OldStatus    string
}

func (SubscriptionChanged) EventType() Type { return TypeSubscriptionChanged }

type MessageSent struct {
	Chat    *entity.Chat
	Message *entity.Message
}

func (MessageSent) EventType() Type { return TypeMessageSent }
