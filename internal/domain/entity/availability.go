package entity

import (
	"time"
)

const (
	SlotStatusAvailable   = "available"
	SlotStatusBooked      = "booked"
	SlotStatusBlocked     = "blocked"
	SlotStatusExternalGig = "external_gig"
)

const (
	SlotTypeFullDay   = "full_day"
	SlotTypeMorning   = "morning"
	SlotTypeAfternoon = "afternoon"
	SlotTypeEvening   = "evening"
	SlotTypeCustom    = "custom"
)

const (
	BlockTypeManual      = "manual"
	BlockTypeBooking     = "booking"
	BlockTypeExternalGig = "external_gig"
	BlockTypeVacation    = "vacation"
)

// AvailabilitySlot is one per-day row; a missing row means the day is
// available. Non-available rows for the same performer and date must
// not overlap in time.
type AvailabilitySlot struct {
	ID          string `json:"id" firestore:"id"`
	PerformerID string `json:"performer_id" firestore:"performerId"`
	Date        string `json:"date" firestore:"date"` // 2006-01-02
	SlotType    string `json:"slot_type" firestore:"slotType"`
	StartTime   string `json:"start_time,omitempty" firestore:"startTime,omitempty"` // 15:04
	EndTime     string `json:"end_time,omitempty" firestore:"endTime,omitempty"`
	Status      string `json:"status" firestore:"status"`
	BlockType   string `json:"block_type,omitempty" firestore:"blockType,omitempty"`
	BookingID   string `json:"booking_id,omitempty" firestore:"bookingId,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// IsFullDay reports whether the slot blocks the entire day.
func (s *AvailabilitySlot) IsFullDay() bool {
	return s.SlotType == SlotTypeFullDay || (s.StartTime == "" && s.EndTime == "")
}

// Overlaps runs the three-way interval test against [start, end):
// the slot contains the window's start, contains its end, or is fully
// contained by it.
func (s *AvailabilitySlot) Overlaps(start, end string) bool {
	if s.IsFullDay() {
		return true
	}
	containsStart := s.StartTime <= start && start < s.EndTime
	containsEnd := s.StartTime < end && end <= s.EndTime
	contained := start <= s.StartTime && s.EndTime <= end
	return containsStart || containsEnd || contained
}

// CalendarDay is one materialized day in a month view.
type CalendarDay struct {
	Date      string `json:"date"`
	Status    string `json:"status"`
	BlockType string `json:"block_type,omitempty"`
	Color     string `json:"color"`
	BookingID string `json:"booking_id,omitempty"`
}
