package entity

import (
	"time"
)

const (
	ReviewerTypeCustomer  = "customer"
	ReviewerTypePerformer = "performer"
)

const (
	ArbitrationNone    = "none"
	ArbitrationPending = "pending"
	ArbitrationUpheld  = "upheld"
	ArbitrationRemoved = "removed"
	ArbitrationEdited  = "edited"
)

// Review is a post-completion rating. One per (booking, reviewer);
// visibility is toggled off only by an admin "removed" decision.
type Review struct {
	ID         string `json:"id" firestore:"id"`
	BookingID  string `json:"booking_id" firestore:"bookingId"`
	ReviewerID string `json:"reviewer_id" firestore:"reviewerId"`
	RevieweeID string `json:"reviewee_id" firestore:"revieweeId"`

	// PerformerID is set when the reviewee is the performer, so the
	// rating aggregate can be rebuilt with one equality query.
	PerformerID string `json:"performer_id,omitempty" firestore:"performerId,omitempty"`

	ReviewerType string `json:"reviewer_type" firestore:"reviewerType"`
	Rating       int    `json:"rating" firestore:"rating"` // 1-5
	Content      string `json:"content" firestore:"content"`

	Response   string     `json:"response,omitempty" firestore:"response,omitempty"`
	ResponseAt *time.Time `json:"response_at,omitempty" firestore:"responseAt,omitempty"`

	Flagged    bool   `json:"flagged" firestore:"flagged"`
	FlaggedBy  string `json:"flagged_by,omitempty" firestore:"flaggedBy,omitempty"`
	FlagReason string `json:"flag_reason,omitempty" firestore:"flagReason,omitempty"`

	ArbitrationStatus string `json:"arbitration_status" firestore:"arbitrationStatus"`
	Visible           bool   `json:"visible" firestore:"visible"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
