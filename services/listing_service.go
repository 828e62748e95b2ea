package services

import (
	"fmt"

	"venue-booking/internal/status"
	"venue-booking/models"
	"venue-booking/monitoring"
)

// ListingService owns the venue listing workflow: owner submission, the
// admin verification decision, owner edits, and soft removal. Verification
// decisions are absorbing; there is no un-approve or un-reject path.
type ListingService struct {
	notify  *NotifyService
	monitor *monitoring.Monitor
}

func NewListingService(notify *NotifyService, monitor *monitoring.Monitor) *ListingService {
	return &ListingService{notify: notify, monitor: monitor}
}

// ValidateSubmit checks an owner's listing and returns it normalized to the
// pending verification state. Submissions never start approved.
func (s *ListingService) ValidateSubmit(actor models.User, venue models.Venue) (*models.Venue, error) {
	// validation
	if err := models.ValidateVenueInput(venue); err != nil {
		s.monitor.TrackOperation("listing", "submit", "invalid")
		return nil, err
	}

	// authorization
	if !CanPerform(actor, ActionSubmitListing, Target{}) {
		s.monitor.TrackOperation("listing", "submit", "unauthorized")
		return nil, fmt.Errorf("actor %s cannot submit listings: %w", actor.ID, status.ErrUnauthorized)
	}

	venue.OwnerID = actor.ID
	venue.Verification = models.VerificationPending
	venue.Removed = false

	s.monitor.TrackOperation("listing", "submit", "ok")
	return &venue, nil
}

// Transition applies the admin verification decision. The caller holds the
// entity lock and passes committed state.
func (s *ListingService) Transition(actor models.User, venue models.Venue, target models.VerificationStatus) (models.Venue, error) {
	// validation
	if !target.Valid() {
		s.monitor.TrackOperation("listing", "transition", "invalid")
		return venue, fmt.Errorf("unknown verification status %q: %w", target, status.ErrValidation)
	}

	// authorization
	if !CanPerform(actor, ActionVerifyListing, Target{}) {
		s.monitor.TrackOperation("listing", "transition", "unauthorized")
		return venue, fmt.Errorf("actor %s cannot verify listings: %w", actor.ID, status.ErrUnauthorized)
	}

	// business rule
	if !venue.Verification.CanTransitionTo(target) {
		s.monitor.TrackOperation("listing", "transition", "rejected")
		return venue, fmt.Errorf("venue %s: %s -> %s: %w",
			venue.ID, venue.Verification, target, status.ErrInvalidTransition)
	}

	venue.Verification = target
	s.monitor.TrackOperation("listing", "transition", "ok")
	return venue, nil
}

// ValidateUpdate checks an owner edit of listing details. The owner
// reference and the verification status are immutable here; only profile
// fields change.
func (s *ListingService) ValidateUpdate(actor models.User, current, updated models.Venue) (*models.Venue, error) {
	// validation
	if err := models.ValidateVenueInput(updated); err != nil {
		s.monitor.TrackOperation("listing", "update", "invalid")
		return nil, err
	}

	// authorization
	if !CanPerform(actor, ActionUpdateVenue, Target{VenueOwnerID: current.OwnerID}) {
		s.monitor.TrackOperation("listing", "update", "unauthorized")
		return nil, fmt.Errorf("actor %s cannot update venue %s: %w", actor.ID, current.ID, status.ErrUnauthorized)
	}

	updated.ID = current.ID
	updated.OwnerID = current.OwnerID
	updated.Verification = current.Verification
	updated.Removed = current.Removed

	s.monitor.TrackOperation("listing", "update", "ok")
	return &updated, nil
}

// ValidateRemove marks a venue soft-removed. Venues referenced by bookings
// are never hard-deleted, so removal is always a flag flip.
func (s *ListingService) ValidateRemove(actor models.User, venue models.Venue) (models.Venue, error) {
	if !CanPerform(actor, ActionRemoveVenue, Target{VenueOwnerID: venue.OwnerID}) {
		s.monitor.TrackOperation("listing", "remove", "unauthorized")
		return venue, fmt.Errorf("actor %s cannot remove venue %s: %w", actor.ID, venue.ID, status.ErrUnauthorized)
	}

	venue.Removed = true
	s.monitor.TrackOperation("listing", "remove", "ok")
	return venue, nil
}

// AnnounceDecision publishes the post-commit verification outcome.
func (s *ListingService) AnnounceDecision(venue models.Venue) {
	s.notify.ListingDecision(venue.OwnerID, venue)
}
