package services

import (
	"fmt"
	"time"

	"venue-booking/internal/status"
	"venue-booking/models"
	"venue-booking/monitoring"
	"venue-booking/utils"
)

// BookingRequest is a candidate reservation before any precondition ran.
type BookingRequest struct {
	VenueID string
	Date    string
	Range   models.TimeRange
	Guests  int
}

// BookingService owns booking creation preconditions and the status
// transition table. It decides; the handler persists. Checks run in a fixed
// order (validation, authorization, business rules) so a malformed call
// reports exactly one deterministic failure.
type BookingService struct {
	availability *AvailabilityService
	notify       *NotifyService
	monitor      *monitoring.Monitor
}

func NewBookingService(availability *AvailabilityService, notify *NotifyService, monitor *monitoring.Monitor) *BookingService {
	return &BookingService{
		availability: availability,
		notify:       notify,
		monitor:      monitor,
	}
}

// ValidateCreate runs the creation preconditions against the venue and its
// currently loaded bookings and, on success, returns the new pending booking
// with its price fixed. The caller must hold the venue+date slot lock across
// this call and the subsequent save.
func (s *BookingService) ValidateCreate(actor models.User, venue models.Venue, req BookingRequest, existing []models.Booking) (*models.Booking, error) {
	// validation
	if err := models.ValidateDate(req.Date); err != nil {
		s.monitor.TrackOperation("booking", "create", "invalid")
		return nil, err
	}
	if req.Range.End <= req.Range.Start {
		s.monitor.TrackOperation("booking", "create", "invalid")
		return nil, fmt.Errorf("booking range %s: %w", req.Range, status.ErrInvalidRange)
	}
	if req.Guests < 1 {
		s.monitor.TrackOperation("booking", "create", "invalid")
		return nil, fmt.Errorf("guest count must be at least 1: %w", status.ErrValidation)
	}

	// authorization
	if !CanPerform(actor, ActionCreateBooking, Target{VenueOwnerID: venue.OwnerID}) {
		s.monitor.TrackOperation("booking", "create", "unauthorized")
		return nil, fmt.Errorf("actor %s cannot create bookings: %w", actor.ID, status.ErrUnauthorized)
	}

	// business rules
	if !venue.Bookable() {
		s.monitor.TrackOperation("booking", "create", "not_approved")
		return nil, fmt.Errorf("venue %s: %w", venue.ID, status.ErrVenueNotApproved)
	}
	if req.Guests > venue.Capacity {
		s.monitor.TrackOperation("booking", "create", "capacity")
		return nil, fmt.Errorf("%d guests over capacity %d: %w", req.Guests, venue.Capacity, status.ErrCapacityExceeded)
	}
	if err := s.availability.Check(venue.ID, req.Date, req.Range, existing); err != nil {
		s.monitor.TrackOperation("booking", "create", "conflict")
		return nil, err
	}

	reference, err := utils.GenerateReference("BK")
	if err != nil {
		return nil, fmt.Errorf("generate booking reference: %w", err)
	}

	quote := QuoteForRange(venue.HourlyRate, req.Range)

	booking := &models.Booking{
		Reference:   reference,
		VenueID:     venue.ID,
		RequesterID: actor.ID,
		Date:        req.Date,
		Range:       req.Range,
		Guests:      req.Guests,
		Status:      models.BookingPending,
		TotalPrice:  quote.Total,
		CreatedAt:   time.Now().UTC(),
	}

	s.monitor.TrackOperation("booking", "create", "ok")
	return booking, nil
}

// Transition applies one guarded status change and returns the updated
// booking. The input booking must reflect committed state; the caller holds
// the entity lock so a concurrent writer re-reads before deciding.
func (s *BookingService) Transition(actor models.User, booking models.Booking, target models.BookingStatus) (models.Booking, error) {
	// validation
	if !target.Valid() {
		s.monitor.TrackOperation("booking", "transition", "invalid")
		return booking, fmt.Errorf("unknown booking status %q: %w", target, status.ErrValidation)
	}

	// authorization
	action := ActionConfirmBooking
	if target == models.BookingCancelled {
		action = ActionCancelBooking
	}
	if !CanPerform(actor, action, Target{BookingRequesterID: booking.RequesterID}) {
		s.monitor.TrackOperation("booking", "transition", "unauthorized")
		return booking, fmt.Errorf("actor %s cannot move booking %s to %s: %w",
			actor.ID, booking.ID, target, status.ErrUnauthorized)
	}

	// business rule
	if !booking.Status.CanTransitionTo(target) {
		s.monitor.TrackOperation("booking", "transition", "rejected")
		return booking, fmt.Errorf("booking %s: %s -> %s: %w",
			booking.ID, booking.Status, target, status.ErrInvalidTransition)
	}

	booking.Status = target
	s.monitor.TrackOperation("booking", "transition", "ok")
	return booking, nil
}

// AnnounceCreated publishes the post-commit notification for a new booking.
func (s *BookingService) AnnounceCreated(venueOwnerID string, booking models.Booking) {
	s.notify.BookingRequested(venueOwnerID, booking)
}

func (s *BookingService) AnnounceTransition(booking models.Booking) {
	s.notify.BookingStatusChanged(booking.RequesterID, booking)
}
