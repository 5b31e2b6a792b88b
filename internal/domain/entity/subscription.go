package entity

import (
	"time"
)

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

// Subscription mirrors the gateway's recurring-billing object. Tier
// grants follow status: active grants the tier, expiry revokes it.
type Subscription struct {
	ID       string  `json:"id" firestore:"id"`
	UserID   string  `json:"user_id" firestore:"userId"`
	Tier     string  `json:"tier" firestore:"tier"` // pro, featured
	PlanType string  `json:"plan_type" firestore:"planType"`
	Status   string  `json:"status" firestore:"status"`
	Amount   float64 `json:"amount" firestore:"amount"`

	GatewaySubscriptionID string `json:"gateway_subscription_id,omitempty" firestore:"gatewaySubscriptionId,omitempty"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty" firestore:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty" firestore:"currentPeriodEnd,omitempty"`
	NextBillingAt      *time.Time `json:"next_billing_at,omitempty" firestore:"nextBillingAt,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" firestore:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
