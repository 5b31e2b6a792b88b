package usecase

import (
	"context"
	"time"

	"gigstage/pkg/logger"
)

// Scheduler drives the periodic sweeps. Each sweep re-checks current
// state, so overlapping or repeated runs are harmless.
type Scheduler struct {
	bookings      *BookingUsecase
	market        *MarketUsecase
	subscriptions *SubscriptionUsecase
}

func NewScheduler(bookings *BookingUsecase, market *MarketUsecase, subscriptions *SubscriptionUsecase) *Scheduler {
	return &Scheduler{
		bookings:      bookings,
		market:        market,
		subscriptions: subscriptions,
	}
}

// Start launches the hourly and daily tickers until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.runHourly(ctx)
	go s.runDaily(ctx)
	logger.Info("Scheduler started")
}

func (s *Scheduler) runHourly(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if expired, err := s.market.CheckDeadlines(ctx); err != nil {
				logger.Error("Bid deadline sweep failed: %v", err)
			} else if expired > 0 {
				logger.Info("Bid deadline sweep expired %d events", expired)
			}
		}
	}
}

func (s *Scheduler) runDaily(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runDailySweeps(ctx)
		}
	}
}

func (s *Scheduler) runDailySweeps(ctx context.Context) {
	if released, err := s.bookings.ProcessAutoReleases(ctx); err != nil {
		logger.Error("Auto-release sweep failed: %v", err)
	} else if released > 0 {
		logger.Info("Auto-release sweep completed %d bookings", released)
	}

	if err := s.bookings.SendBookingReminders(ctx); err != nil {
		logger.Error("Reminder sweep failed: %v", err)
	}

	if expired, err := s.subscriptions.ExpireLapsed(ctx); err != nil {
		logger.Error("Subscription expiry sweep failed: %v", err)
	} else if expired > 0 {
		logger.Info("Subscription expiry sweep downgraded %d subscriptions", expired)
	}
}
