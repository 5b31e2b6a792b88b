package websocket

import (
	"context"

	"gigstage/internal/event"
)

// EventPusher forwards selected domain events to connected browsers so
// chat and booking views update without polling.
type EventPusher struct {
	manager *Manager
}

func NewEventPusher(manager *Manager) *EventPusher {
	return &EventPusher{manager: manager}
}

func (p *EventPusher) Register(bus *event.Bus) {
	bus.Subscribe(event.TypeMessageSent, p.onMessageSent)
	bus.Subscribe(event.TypeBookingStatusChanged, p.onBookingStatusChanged)
	bus.Subscribe(event.TypeBidSubmitted, p.onBidSubmitted)
}

func (p *EventPusher) onMessageSent(ctx context.Context, e event.Event) {
	ev := e.(event.MessageSent)
	for _, participantID := range ev.Chat.Participants {
		if participantID == ev.Message.SenderID {
			continue
		}
		p.manager.PushToUser(participantID, "new_message", ev.Message)
	}
}

func (p *EventPusher) onBookingStatusChanged(ctx context.Context, e event.Event) {
	ev := e.(event.BookingStatusChanged)
	p.manager.PushToUser(ev.Booking.CustomerID, "booking_status", ev.Booking)
}

func (p *EventPusher) onBidSubmitted(ctx context.Context, e event.Event) {
	ev := e.(event.BidSubmitted)
	p.manager.PushToUser(ev.Event.CustomerID, "new_bid", ev.Bid)
}
