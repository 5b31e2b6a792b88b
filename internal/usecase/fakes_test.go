package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gigstage/internal/domain/entity"
	"gigstage/internal/domain/service"
	"gigstage/internal/event"
	"gigstage/pkg/config"
	"gigstage/pkg/errors"
)

// In-memory repository fakes shared by the usecase tests. They mirror
// the Firestore adapters' query semantics closely enough for the
// business rules under test.

func testConfig() *config.Config {
	return &config.Config{
		Environment:            "test",
		CommissionRateFree:     0.15,
		CommissionRatePro:      0.10,
		CommissionRateFeatured: 0.08,
		CommissionFlatFee:      0,
		PriceTolerancePercent:  1.0,
		AutoReleaseDays:        7,
		ReminderDaysShort:      1,
		ReminderDaysLong:       7,
		BidDeadlineDays:        3,
		MaxBidsPerEvent:        10,
		LevelPlatinum:          500,
		LevelGold:              250,
		LevelSilver:            100,

		SubscriptionPriceProMonthly:      19,
		SubscriptionPriceProAnnual:       190,
		SubscriptionPriceFeaturedMonthly: 49,
		SubscriptionPriceFeaturedAnnual:  490,
	}
}

func testBus() *event.Bus {
	// Publishing to an unstarted bus just queues; nothing under test
	// depends on handler side effects.
	return event.NewBus()
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

type fakePerformerRepo struct {
	mu         sync.Mutex
	performers map[string]*entity.Performer
}

func newFakePerformerRepo() *fakePerformerRepo {
	return &fakePerformerRepo{performers: map[string]*entity.Performer{}}
}

func (r *fakePerformerRepo) Create(ctx context.Context, performer *entity.Performer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.performers[performer.ID] = performer
	return nil
}

func (r *fakePerformerRepo) GetByID(ctx context.Context, id string) (*entity.Performer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if performer, ok := r.performers[id]; ok {
		return performer, nil
	}
	return nil, errors.NotFound("Performer", nil)
}

func (r *fakePerformerRepo) GetByUserID(ctx context.Context, userID string) (*entity.Performer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, performer := range r.performers {
		if performer.UserID == userID {
			return performer, nil
		}
	}
	return nil, errors.NotFound("Performer", nil)
}

func (r *fakePerformerRepo) Update(ctx context.Context, performer *entity.Performer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.performers[performer.ID] = performer
	return nil
}

func (r *fakePerformerRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Performer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Performer
	for _, performer := range r.performers {
		if v, ok := filter["status"]; ok && performer.Status != v {
			continue
		}
		if v, ok := filter["category"]; ok && performer.Category != v {
			continue
		}
		if v, ok := filter["tier"]; ok && performer.Tier != v {
			continue
		}
		out = append(out, performer)
	}
	return out, int64(len(out)), nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*entity.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking, ok := r.bookings[id]; ok {
		return booking, nil
	}
	return nil, errors.NotFound("Booking", nil)
}

func (r *fakeBookingRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.DepositOrderID == orderID || booking.BalanceOrderID == orderID {
			return booking, nil
		}
	}
	return nil, errors.NotFound("Booking", nil)
}

func (r *fakeBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range r.bookings {
		out = append(out, booking)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListByUserID(ctx context.Context, userID, role, status string, limit, offset int) ([]*entity.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Booking
	for _, booking := range r.bookings {
		party := booking.CustomerID
		if role == "performer" {
			party = booking.PerformerID
		}
		if party != userID {
			continue
		}
		if status != "" && booking.Status != status {
			continue
		}
		out = append(out, booking)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListHeldPastEvent(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoffDate := cutoff.Format("2006-01-02")
	var out []*entity.Booking
	for _, booking := range r.bookings {
		if booking.EscrowStatus != entity.EscrowStatusDepositHeld && booking.EscrowStatus != entity.EscrowStatusFullHeld {
			continue
		}
		if booking.EventDate > cutoffDate {
			continue
		}
		out = append(out, booking)
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByEventDate(ctx context.Context, date string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Booking
	for _, booking := range r.bookings {
		if booking.EventDate != date {
			continue
		}
		if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusConfirmed {
			continue
		}
		out = append(out, booking)
	}
	return out, nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*entity.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{}
}

func (r *fakeLedgerRepo) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeLedgerRepo) ListByBookingID(ctx context.Context, bookingID string) ([]*entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, entry := range r.entries {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, entry := range r.entries {
		if entry.PayerID == userID || entry.PayeeID == userID {
			out = append(out, entry)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLedgerRepo) byType(ledgerType string) []*entity.LedgerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, entry := range r.entries {
		if entry.Type == ledgerType {
			out = append(out, entry)
		}
	}
	return out
}

type fakeAvailabilityRepo struct {
	mu    sync.Mutex
	slots map[string]*entity.AvailabilitySlot
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{slots: map[string]*entity.AvailabilitySlot{}}
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, id)
	return nil
}

func (r *fakeAvailabilityRepo) ListByDate(ctx context.Context, performerID, date string) ([]*entity.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.PerformerID == performerID && slot.Date == date {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) ListByDateRange(ctx context.Context, performerID, from, to string) ([]*entity.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.PerformerID == performerID && slot.Date >= from && slot.Date <= to {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteByBookingID(ctx context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, slot := range r.slots {
		if slot.BookingID == bookingID {
			delete(r.slots, id)
		}
	}
	return nil
}

// fakeMarketRepo emulates the transactional AcceptBid against the
// shared booking store.
type fakeMarketRepo struct {
	mu       sync.Mutex
	events   map[string]*entity.MarketEvent
	bids     map[string]*entity.Bid
	bookings *fakeBookingRepo
}

func newFakeMarketRepo(bookings *fakeBookingRepo) *fakeMarketRepo {
	return &fakeMarketRepo{
		events:   map[string]*entity.MarketEvent{},
		bids:     map[string]*entity.Bid{},
		bookings: bookings,
	}
}

func (r *fakeMarketRepo) CreateEvent(ctx context.Context, marketEvent *entity.MarketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[marketEvent.ID] = marketEvent
	return nil
}

func (r *fakeMarketRepo) GetEventByID(ctx context.Context, id string) (*entity.MarketEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if marketEvent, ok := r.events[id]; ok {
		return marketEvent, nil
	}
	return nil, errors.NotFound("Event", nil)
}

func (r *fakeMarketRepo) UpdateEvent(ctx context.Context, marketEvent *entity.MarketEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[marketEvent.ID] = marketEvent
	return nil
}

func (r *fakeMarketRepo) ListEvents(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.MarketEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MarketEvent
	for _, marketEvent := range r.events {
		if v, ok := filter["status"]; ok && marketEvent.Status != v {
			continue
		}
		if v, ok := filter["category"]; ok && marketEvent.Category != v {
			continue
		}
		out = append(out, marketEvent)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMarketRepo) ListOpenPastDeadline(ctx context.Context, cutoff time.Time, limit int) ([]*entity.MarketEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MarketEvent
	for _, marketEvent := range r.events {
		if marketEvent.Status == entity.EventStatusOpen && !marketEvent.BidDeadline.After(cutoff) {
			out = append(out, marketEvent)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) CreateBid(ctx context.Context, bid *entity.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[bid.ID] = bid
	return nil
}

func (r *fakeMarketRepo) GetBidByID(ctx context.Context, id string) (*entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bid, ok := r.bids[id]; ok {
		return bid, nil
	}
	return nil, errors.NotFound("Bid", nil)
}

func (r *fakeMarketRepo) GetBidByEventAndPerformer(ctx context.Context, eventID, performerID string) (*entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bid := range r.bids {
		if bid.EventID == eventID && bid.PerformerID == performerID {
			return bid, nil
		}
	}
	return nil, errors.NotFound("Bid", nil)
}

func (r *fakeMarketRepo) UpdateBid(ctx context.Context, bid *entity.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[bid.ID] = bid
	return nil
}

func (r *fakeMarketRepo) ListBidsByEvent(ctx context.Context, eventID string) ([]*entity.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Bid
	for _, bid := range r.bids {
		if bid.EventID == eventID {
			out = append(out, bid)
		}
	}
	return out, nil
}

func (r *fakeMarketRepo) AcceptBid(ctx context.Context, eventID, bidID string, booking *entity.Booking) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marketEvent, ok := r.events[eventID]
	if !ok {
		return nil, errors.NotFound("Event", nil)
	}
	if marketEvent.Status != entity.EventStatusOpen {
		return nil, errors.Conflict("Failed to accept bid: event is not open")
	}

	winner, ok := r.bids[bidID]
	if !ok || winner.EventID != eventID {
		return nil, errors.NotFound("Bid", nil)
	}
	if winner.Status != entity.BidStatusPending {
		return nil, errors.Conflict("Failed to accept bid: bid is not pending")
	}

	var rejected []string
	for _, bid := range r.bids {
		if bid.EventID != eventID || bid.ID == bidID || bid.Status != entity.BidStatusPending {
			continue
		}
		bid.Status = entity.BidStatusRejected
		rejected = append(rejected, bid.PerformerID)
	}

	winner.Status = entity.BidStatusAccepted
	marketEvent.Status = entity.EventStatusBooked
	marketEvent.AcceptedBidID = winner.ID

	r.bookings.mu.Lock()
	r.bookings.bookings[booking.ID] = booking
	r.bookings.mu.Unlock()

	return rejected, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*entity.Review{}}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review, ok := r.reviews[id]; ok {
		return review, nil
	}
	return nil, errors.NotFound("Review", nil)
}

func (r *fakeReviewRepo) GetByBookingAndReviewer(ctx context.Context, bookingID, reviewerID string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.BookingID == bookingID && review.ReviewerID == reviewerID {
			return review, nil
		}
	}
	return nil, errors.NotFound("Review", nil)
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if v, ok := filter["arbitrationStatus"]; ok && review.ArbitrationStatus != v {
			continue
		}
		out = append(out, review)
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListVisibleCustomerReviews(ctx context.Context, performerID string) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, review := range r.reviews {
		if review.PerformerID == performerID && review.ReviewerType == entity.ReviewerTypeCustomer && review.Visible {
			out = append(out, review)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu            sync.Mutex
	subscriptions map[string]*entity.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subscriptions: map[string]*entity.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[subscription.ID] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if subscription, ok := r.subscriptions[id]; ok {
		return subscription, nil
	}
	return nil, errors.NotFound("Subscription", nil)
}

func (r *fakeSubscriptionRepo) GetByGatewayID(ctx context.Context, gatewayID string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subscription := range r.subscriptions {
		if subscription.GatewaySubscriptionID == gatewayID {
			return subscription, nil
		}
	}
	return nil, errors.NotFound("Subscription", nil)
}

func (r *fakeSubscriptionRepo) GetActiveByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subscription := range r.subscriptions {
		if subscription.UserID == userID && subscription.Status == entity.SubscriptionStatusActive {
			return subscription, nil
		}
	}
	return nil, errors.NotFound("Subscription", nil)
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, subscription *entity.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[subscription.ID] = subscription
	return nil
}

func (r *fakeSubscriptionRepo) ListLapsed(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Subscription
	for _, subscription := range r.subscriptions {
		if subscription.Status != entity.SubscriptionStatusActive {
			continue
		}
		if subscription.CurrentPeriodEnd != nil && !subscription.CurrentPeriodEnd.After(cutoff) {
			out = append(out, subscription)
		}
	}
	return out, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages []*entity.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]*entity.Chat{}}
}

func (r *fakeChatRepo) CreateChat(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) GetChatByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat, ok := r.chats[id]; ok {
		return chat, nil
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) GetChatByBookingID(ctx context.Context, bookingID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chat := range r.chats {
		if chat.BookingID == bookingID {
			return chat, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) UpdateChat(ctx context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) ListChatsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			out = append(out, chat)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeChatRepo) ListMessagesByChatID(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Message
	for _, message := range r.messages {
		if message.ChatID == chatID {
			out = append(out, message)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeChatRepo) MarkMessagesRead(ctx context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages {
		if message.ChatID == chatID && message.RecipientID == userID {
			message.Read = true
		}
	}
	return nil
}

type refundCall struct {
	OrderID string
	Amount  float64
}

// fakePayment records gateway calls; signatures verify against the
// configured server key like the real service.
type fakePayment struct {
	mu        sync.Mutex
	serverKey string
	payments  []service.PaymentGatewayRequest
	refunds   []refundCall
	subStatus string
	cancelled []string
}

func newFakePayment() *fakePayment {
	return &fakePayment{serverKey: "test-key", subStatus: "active"}
}

func (p *fakePayment) CreatePayment(ctx context.Context, req service.PaymentGatewayRequest) (*service.PaymentGatewayResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payments = append(p.payments, req)
	return &service.PaymentGatewayResponse{
		Token:       "tok-" + req.OrderID,
		RedirectURL: "https://pay.example.test/" + req.OrderID,
		OrderID:     req.OrderID,
		Status:      "pending",
	}, nil
}

func (p *fakePayment) GetPaymentStatus(ctx context.Context, orderID string) (*service.PaymentGatewayResponse, error) {
	return &service.PaymentGatewayResponse{OrderID: orderID, Status: "pending"}, nil
}

func (p *fakePayment) RefundPayment(ctx context.Context, orderID string, amount float64, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds = append(p.refunds, refundCall{OrderID: orderID, Amount: amount})
	return nil
}

func (p *fakePayment) CreateSubscription(ctx context.Context, req service.RecurringRequest) (*service.RecurringResponse, error) {
	return &service.RecurringResponse{
		SubscriptionID: fmt.Sprintf("fake-sub-%d", time.Now().UnixNano()),
		Status:         p.subStatus,
		NextBillingAt:  time.Now().AddDate(0, 1, 0),
	}, nil
}

func (p *fakePayment) CancelSubscription(ctx context.Context, subscriptionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, subscriptionID)
	return nil
}

func (p *fakePayment) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return service.Signature(orderID, statusCode, grossAmount, p.serverKey) == signature
}

func (p *fakePayment) sign(orderID, statusCode, grossAmount string) string {
	return service.Signature(orderID, statusCode, grossAmount, p.serverKey)
}

// allowAll authorizes every action; tests that exercise the policy use
// the real RolePolicy instead.
type allowAll struct{}

func (allowAll) Authorize(ctx context.Context, actorID string, action service.Action, resourceID string) error {
	return nil
}
