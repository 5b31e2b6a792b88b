package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type AvailabilityUsecase struct {
	availabilityRepo repository.AvailabilityRepository
	performerRepo    repository.PerformerRepository
}

func NewAvailabilityUsecase(
	availabilityRepo repository.AvailabilityRepository,
	performerRepo repository.PerformerRepository,
) *AvailabilityUsecase {
	return &AvailabilityUsecase{
		availabilityRepo: availabilityRepo,
		performerRepo:    performerRepo,
	}
}

// calendarColors is the fixed status-to-color lookup for month views.
var calendarColors = map[string]string{
	entity.SlotStatusAvailable:   "#4caf50",
	entity.SlotStatusBooked:      "#f44336",
	entity.SlotStatusBlocked:     "#9e9e9e",
	entity.SlotStatusExternalGig: "#ff9800",
	"past":                       "#e0e0e0",
}

// IsAvailable reports whether the performer can take a job on the date,
// optionally narrowed to a time window. Past dates are never available.
func (uc *AvailabilityUsecase) IsAvailable(ctx context.Context, performerID, date, startTime, endTime string) (bool, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false, errors.Invalid("INVALID_DATE", "Date must be formatted YYYY-MM-DD")
	}

	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	if day.Before(today) {
		return false, nil
	}

	slots, err := uc.availabilityRepo.ListByDate(ctx, performerID, date)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.Status == entity.SlotStatusAvailable {
			continue
		}
		if slot.IsFullDay() {
			return false, nil
		}
		if startTime != "" && endTime != "" && slot.Overlaps(startTime, endTime) {
			return false, nil
		}
	}

	return true, nil
}

// BlockDate creates a non-available slot row. An empty time range
// blocks the whole day.
func (uc *AvailabilityUsecase) BlockDate(ctx context.Context, performerID, date, startTime, endTime, blockType, bookingID string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.Invalid("INVALID_DATE", "Date must be formatted YYYY-MM-DD")
	}

	status := entity.SlotStatusBlocked
	switch blockType {
	case entity.BlockTypeBooking:
		status = entity.SlotStatusBooked
	case entity.BlockTypeExternalGig:
		status = entity.SlotStatusExternalGig
	}

	slotType := entity.SlotTypeFullDay
	if startTime != "" && endTime != "" {
		slotType = entity.SlotTypeCustom
	}

	slot := &entity.AvailabilitySlot{
		ID:          uuid.New().String(),
		PerformerID: performerID,
		Date:        date,
		SlotType:    slotType,
		StartTime:   startTime,
		EndTime:     endTime,
		Status:      status,
		BlockType:   blockType,
		BookingID:   bookingID,
		CreatedAt:   time.Now(),
	}

	return uc.availabilityRepo.Create(ctx, slot)
}

// UnblockDate removes every non-booking block on the date. Slots tied
// to a booking are only removed through cancellation.
func (uc *AvailabilityUsecase) UnblockDate(ctx context.Context, performerID, date string) error {
	slots, err := uc.availabilityRepo.ListByDate(ctx, performerID, date)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		if slot.BlockType == entity.BlockTypeBooking {
			continue
		}
		if err := uc.availabilityRepo.Delete(ctx, slot.ID); err != nil {
			return err
		}
	}

	return nil
}

// BlockDates bulk-blocks, skipping dates that already have a full-day
// non-available slot.
func (uc *AvailabilityUsecase) BlockDates(ctx context.Context, performerID string, dates []string, blockType string) (int, error) {
	blocked := 0

	for _, date := range dates {
		slots, err := uc.availabilityRepo.ListByDate(ctx, performerID, date)
		if err != nil {
			return blocked, err
		}

		alreadyBlocked := false
		for _, slot := range slots {
			if slot.Status != entity.SlotStatusAvailable && slot.IsFullDay() {
				alreadyBlocked = true
				break
			}
		}
		if alreadyBlocked {
			continue
		}

		if err := uc.BlockDate(ctx, performerID, date, "", "", blockType, ""); err != nil {
			return blocked, err
		}
		blocked++
	}

	return blocked, nil
}

// UnblockDates bulk-unblocks, skipping dates with nothing to remove.
func (uc *AvailabilityUsecase) UnblockDates(ctx context.Context, performerID string, dates []string) (int, error) {
	unblocked := 0

	for _, date := range dates {
		slots, err := uc.availabilityRepo.ListByDate(ctx, performerID, date)
		if err != nil {
			return unblocked, err
		}

		removable := false
		for _, slot := range slots {
			if slot.BlockType != entity.BlockTypeBooking {
				removable = true
				break
			}
		}
		if !removable {
			continue
		}

		if err := uc.UnblockDate(ctx, performerID, date); err != nil {
			return unblocked, err
		}
		unblocked++
	}

	return unblocked, nil
}

// UnblockBooking removes the calendar slots created for a booking.
func (uc *AvailabilityUsecase) UnblockBooking(ctx context.Context, bookingID string) error {
	return uc.availabilityRepo.DeleteByBookingID(ctx, bookingID)
}

// GetCalendarData materializes every day of a month ("2006-01").
// Missing rows mean available; days before today always render as past.
func (uc *AvailabilityUsecase) GetCalendarData(ctx context.Context, performerID, month string) ([]*entity.CalendarDay, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, errors.Invalid("INVALID_DATE", "Month must be formatted YYYY-MM")
	}

	last := first.AddDate(0, 1, -1)

	slots, err := uc.availabilityRepo.ListByDateRange(ctx, performerID, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*entity.AvailabilitySlot)
	for _, slot := range slots {
		byDate[slot.Date] = append(byDate[slot.Date], slot)
	}

	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))

	var days []*entity.CalendarDay
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := &entity.CalendarDay{
			Date:   date,
			Status: entity.SlotStatusAvailable,
			Color:  calendarColors[entity.SlotStatusAvailable],
		}

		for _, slot := range byDate[date] {
			if slot.Status == entity.SlotStatusAvailable {
				continue
			}
			day.Status = slot.Status
			day.BlockType = slot.BlockType
			day.BookingID = slot.BookingID
			day.Color = calendarColors[slot.Status]

			// External gigs win the visual tie against other blocks.
			if slot.BlockType == entity.BlockTypeExternalGig {
				day.Color = calendarColors[entity.SlotStatusExternalGig]
				break
			}
		}

		if d.Before(today) {
			day.Status = "past"
			day.Color = calendarColors["past"]
		}

		days = append(days, day)
	}

	return days, nil
}
