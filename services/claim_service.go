package services

import (
	"fmt"
	"time"

	"venue-booking/internal/status"
	"venue-booking/models"
	"venue-booking/monitoring"
	"venue-booking/utils"
)

// ClaimService owns dispute filing rules and the claim lifecycle. Resolved
// and rejected are absorbing: the service refuses any further change,
// including admin note edits, once a claim gets there.
type ClaimService struct {
	notify  *NotifyService
	monitor *monitoring.Monitor
}

func NewClaimService(notify *NotifyService, monitor *monitoring.Monitor) *ClaimService {
	return &ClaimService{notify: notify, monitor: monitor}
}

// ValidateFile checks a filing request against the referenced booking and,
// on success, returns the new pending claim. A claim may target a booking in
// any status, cancelled included; only the filer identity is restricted.
func (s *ClaimService) ValidateFile(actor models.User, booking models.Booking, title, description string, category models.ClaimCategory) (*models.Claim, error) {
	// validation
	if err := models.ValidateClaimInput(title, description, category); err != nil {
		s.monitor.TrackOperation("claim", "file", "invalid")
		return nil, err
	}

	// authorization: only the booking's original requester may file
	if !CanPerform(actor, ActionFileClaim, Target{BookingRequesterID: booking.RequesterID}) {
		s.monitor.TrackOperation("claim", "file", "unauthorized")
		return nil, fmt.Errorf("actor %s is not the requester of booking %s: %w",
			actor.ID, booking.ID, status.ErrUnauthorized)
	}

	reference, err := utils.GenerateReference("CL")
	if err != nil {
		return nil, fmt.Errorf("generate claim reference: %w", err)
	}

	claim := &models.Claim{
		Reference:   reference,
		BookingID:   booking.ID,
		FilerID:     actor.ID,
		Title:       title,
		Description: description,
		Category:    category,
		Status:      models.ClaimPending,
		CreatedAt:   time.Now().UTC(),
	}

	s.monitor.TrackOperation("claim", "file", "ok")
	return claim, nil
}

// Transition applies one admin decision. Notes ride along with the decision
// and stay mutable until the claim enters a terminal state; entering one
// stamps ResolvedAt exactly once and freezes the record. The caller holds
// the entity lock and passes committed state.
func (s *ClaimService) Transition(actor models.User, claim models.Claim, target models.ClaimStatus, adminNotes string, notesProvided bool) (models.Claim, error) {
	// validation
	if !target.Valid() {
		s.monitor.TrackOperation("claim", "transition", "invalid")
		return claim, fmt.Errorf("unknown claim status %q: %w", target, status.ErrValidation)
	}

	// authorization
	if !CanPerform(actor, ActionReviewClaim, Target{}) {
		s.monitor.TrackOperation("claim", "transition", "unauthorized")
		return claim, fmt.Errorf("actor %s cannot review claims: %w", actor.ID, status.ErrUnauthorized)
	}

	// business rules
	if claim.Status.Terminal() {
		s.monitor.TrackOperation("claim", "transition", "terminal")
		return claim, fmt.Errorf("claim %s already %s: %w", claim.ID, claim.Status, status.ErrTerminalState)
	}
	if !claim.Status.CanTransitionTo(target) {
		s.monitor.TrackOperation("claim", "transition", "rejected")
		return claim, fmt.Errorf("claim %s: %s -> %s: %w",
			claim.ID, claim.Status, target, status.ErrInvalidTransition)
	}

	if notesProvided {
		claim.AdminNotes = adminNotes
	}
	claim.Status = target
	if target.Terminal() && claim.ResolvedAt == nil {
		now := time.Now().UTC()
		claim.ResolvedAt = &now
	}

	s.monitor.TrackOperation("claim", "transition", "ok")
	return claim, nil
}

// AnnounceTransition publishes the post-commit decision to the filer.
func (s *ClaimService) AnnounceTransition(claim models.Claim) {
	s.notify.ClaimDecision(claim.FilerID, claim)
}
