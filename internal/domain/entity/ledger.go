package entity

import (
	"time"
)

const (
	LedgerTypeDeposit       = "deposit"
	LedgerTypeFullPayment   = "full_payment"
	LedgerTypeEscrowRelease = "escrow_release"
	LedgerTypeRefund        = "refund"
)

// LedgerEntry is an append-only money movement record. Entries are
// never updated or deleted.
type LedgerEntry struct {
	ID        string  `json:"id" firestore:"id"`
	BookingID string  `json:"booking_id" firestore:"bookingId"`
	Type      string  `json:"type" firestore:"type"`
	Amount    float64 `json:"amount" firestore:"amount"`
	PayerID   string  `json:"payer_id,omitempty" firestore:"payerId,omitempty"`
	PayeeID   string  `json:"payee_id,omitempty" firestore:"payeeId,omitempty"`
	Status    string  `json:"status" firestore:"status"`
	Reference string  `json:"reference,omitempty" firestore:"reference,omitempty"` // gateway order id

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
