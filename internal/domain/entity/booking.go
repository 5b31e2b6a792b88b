package entity

import (
	"time"
)

const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusDisputed   = "disputed"
)

const (
	EscrowStatusPending     = "pending"
	EscrowStatusDepositHeld = "deposit_held"
	EscrowStatusFullHeld    = "full_held"
	EscrowStatusReleased    = "released"
	EscrowStatusRefunded    = "refunded"
)

// Booking is the escrow-backed engagement between a customer and a
// performer. Money invariants, maintained at creation:
//
//	TotalAmount = DepositAmount + RemainingAmount
//	PerformerPayout = TotalAmount - PlatformCommission
type Booking struct {
	ID            string `json:"id" firestore:"id"`
	BookingNumber string `json:"booking_number" firestore:"bookingNumber"`

	PerformerID string `json:"performer_id" firestore:"performerId"`
	CustomerID  string `json:"customer_id" firestore:"customerId"`
	EventID     string `json:"event_id,omitempty" firestore:"eventId,omitempty"`
	BidID       string `json:"bid_id,omitempty" firestore:"bidId,omitempty"`

	EventDate string `json:"event_date" firestore:"eventDate"` // 2006-01-02
	StartTime string `json:"start_time" firestore:"startTime"` // 15:04
	EndTime   string `json:"end_time" firestore:"endTime"`
	Location  string `json:"location" firestore:"location"`
	Notes     string `json:"notes,omitempty" firestore:"notes,omitempty"`

	TotalAmount        float64 `json:"total_amount" firestore:"totalAmount"`
	DepositAmount      float64 `json:"deposit_amount" firestore:"depositAmount"`
	RemainingAmount    float64 `json:"remaining_amount" firestore:"remainingAmount"`
	PlatformCommission float64 `json:"platform_commission" firestore:"platformCommission"`
	PerformerPayout    float64 `json:"performer_payout" firestore:"performerPayout"`

	DepositPaid bool `json:"deposit_paid" firestore:"depositPaid"`
	FullyPaid   bool `json:"fully_paid" firestore:"fullyPaid"`

	Status       string `json:"status" firestore:"status"`
	EscrowStatus string `json:"escrow_status" firestore:"escrowStatus"`

	PerformerConfirmed          bool `json:"performer_confirmed" firestore:"performerConfirmed"`
	CustomerConfirmedCompletion bool `json:"customer_confirmed_completion" firestore:"customerConfirmedCompletion"`

	// Gateway checkout references; the deposit order is issued at
	// creation, the balance order on demand.
	DepositOrderID string `json:"deposit_order_id,omitempty" firestore:"depositOrderId,omitempty"`
	BalanceOrderID string `json:"balance_order_id,omitempty" firestore:"balanceOrderId,omitempty"`
	CheckoutToken  string `json:"checkout_token,omitempty" firestore:"checkoutToken,omitempty"`
	CheckoutURL    string `json:"checkout_url,omitempty" firestore:"checkoutUrl,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty" firestore:"cancellationReason,omitempty"`

	// Reminder offsets (days before the event) already notified, so the
	// daily sweep can re-run without double-sending.
	RemindersSent []int `json:"reminders_sent,omitempty" firestore:"remindersSent,omitempty"`

	CompletionDate *time.Time `json:"completion_date,omitempty" firestore:"completionDate,omitempty"`
	PayoutAt       *time.Time `json:"payout_at,omitempty" firestore:"payoutAt,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// EventStart resolves the booking's start as a point in time.
func (b *Booking) EventStart() time.Time {
	t, err := time.Parse("2006-01-02 15:04", b.EventDate+" "+b.StartTime)
	if err != nil {
		t, _ = time.Parse("2006-01-02", b.EventDate)
	}
	return t
}

// EventDatePassed reports whether the event date is today or earlier.
func (b *Booking) EventDatePassed(now time.Time) bool {
	d, err := time.Parse("2006-01-02", b.EventDate)
	if err != nil {
		return false
	}
	today, _ := time.Parse("2006-01-02", now.Format("2006-01-02"))
	return !d.After(today)
}

// CanCancel is false once the booking is terminal or the event has started.
func (b *Booking) CanCancel(now time.Time) bool {
	if b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled {
		return false
	}
	return now.Before(b.EventStart())
}

// CanComplete requires a confirmed booking whose event date has passed.
func (b *Booking) CanComplete(now time.Time) bool {
	if b.Status != BookingStatusConfirmed && b.Status != BookingStatusInProgress {
		return false
	}
	return b.EventDatePassed(now)
}
