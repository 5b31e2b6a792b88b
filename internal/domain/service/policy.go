package service

import (
	"context"

	"gigstage/internal/domain/repository"
	"gigstage/pkg/errors"
)

type Action string

const (
	ActionBidOnEvents      Action = "bid_on_events"
	ActionArbitrateReviews Action = "arbitrate_reviews"
	ActionManagePerformers Action = "manage_performers"
)

// Authorizer is the single policy gate: every capability decision in
// the usecases goes through it instead of inspecting roles inline.
type Authorizer interface {
	Authorize(ctx context.Context, actorID string, action Action, resourceID string) error
}

// RolePolicy decides from the actor's role and, for performer actions,
// the performer's tier and approval status.
type RolePolicy struct {
	userRepo      repository.UserRepository
	performerRepo repository.PerformerRepository
}

func NewRolePolicy(userRepo repository.UserRepository, performerRepo repository.PerformerRepository) *RolePolicy {
	return &RolePolicy{
		userRepo:      userRepo,
		performerRepo: performerRepo,
	}
}

func (p *RolePolicy) Authorize(ctx context.Context, actorID string, action Action, resourceID string) error {
	switch action {
	case ActionBidOnEvents:
		performer, err := p.performerRepo.GetByUserID(ctx, actorID)
		if err != nil {
			return errors.Forbidden("Only performers can bid on market events", err)
		}
		if performer.Status != "approved" {
			return errors.Forbidden("Performer profile is not approved", nil)
		}
		if performer.Tier != "pro" && performer.Tier != "featured" {
			return errors.Forbidden("Bidding on market events requires a pro subscription", nil)
		}
		return nil

	case ActionArbitrateReviews, ActionManagePerformers:
		user, err := p.userRepo.GetByID(ctx, actorID)
		if err != nil {
			return errors.Forbidden("Admin privileges required", err)
		}
		if user.Role != "admin" {
			return errors.Forbidden("Admin privileges required", nil)
		}
		return nil
	}

	return errors.Forbidden("Unknown action", nil)
}
