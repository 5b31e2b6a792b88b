package entity

import (
	"time"
)

const (
	EventStatusOpen      = "open"
	EventStatusClosed    = "closed"
	EventStatusBooked    = "booked"
	EventStatusCancelled = "cancelled"
	EventStatusExpired   = "expired"
)

const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
)

// MarketEvent is a customer-posted job performers bid on. Terminal
// states (booked, cancelled, expired) never revert.
type MarketEvent struct {
	ID         string `json:"id" firestore:"id"`
	CustomerID string `json:"customer_id" firestore:"customerId"`

	Title       string `json:"title" firestore:"title"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	Category    string `json:"category,omitempty" firestore:"category,omitempty"`

	EventDate string `json:"event_date" firestore:"eventDate"` // 2006-01-02
	StartTime string `json:"start_time,omitempty" firestore:"startTime,omitempty"`
	EndTime   string `json:"end_time,omitempty" firestore:"endTime,omitempty"`
	Venue     string `json:"venue,omitempty" firestore:"venue,omitempty"`

	BudgetMin float64 `json:"budget_min" firestore:"budgetMin"`
	BudgetMax float64 `json:"budget_max" firestore:"budgetMax"`

	BidDeadline time.Time `json:"bid_deadline" firestore:"bidDeadline"`

	Status        string `json:"status" firestore:"status"`
	TotalBids     int    `json:"total_bids" firestore:"totalBids"`
	AcceptedBidID string `json:"accepted_bid_id,omitempty" firestore:"acceptedBidId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// AcceptsBids reports whether the event is open and the deadline has
// not passed.
func (e *MarketEvent) AcceptsBids(now time.Time) bool {
	return e.Status == EventStatusOpen && now.Before(e.BidDeadline)
}

// Bid is a performer's offer on a market event. At most one per
// (event, performer); at most one accepted per event.
type Bid struct {
	ID          string  `json:"id" firestore:"id"`
	EventID     string  `json:"event_id" firestore:"eventId"`
	PerformerID string  `json:"performer_id" firestore:"performerId"`
	Amount      float64 `json:"amount" firestore:"amount"`
	Message     string  `json:"message,omitempty" firestore:"message,omitempty"`
	Status      string  `json:"status" firestore:"status"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
