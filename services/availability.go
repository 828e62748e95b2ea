package services

import (
	"fmt"
	"time"

	"venue-booking/internal/status"
	"venue-booking/models"
	"venue-booking/monitoring"
)

// FirstConflict scans the venue's bookings for one that blocks the candidate
// slot. Cancelled bookings never block; bookings on other venues or dates
// are skipped so callers may pass an unfiltered list. Returns nil when the
// slot is free.
func FirstConflict(venueID, date string, candidate models.TimeRange, existing []models.Booking) *models.Booking {
	for i := range existing {
		b := &existing[i]
		if b.VenueID != venueID || b.Date != date {
			continue
		}
		if !b.Active() {
			continue
		}
		if candidate.Overlaps(b.Range) {
			return b
		}
	}
	return nil
}

// AvailabilityService answers slot availability questions. Every check is
// evaluated fresh against the bookings the caller just loaded; results are
// never cached because the booking set can change between a user viewing
// the form and submitting it.
type AvailabilityService struct {
	monitor *monitoring.Monitor
}

func NewAvailabilityService(monitor *monitoring.Monitor) *AvailabilityService {
	return &AvailabilityService{monitor: monitor}
}

// Check returns nil when the candidate slot is free and ErrConflict
// (wrapped with the blocking range) otherwise.
func (s *AvailabilityService) Check(venueID, date string, candidate models.TimeRange, existing []models.Booking) error {
	started := time.Now()

	conflict := FirstConflict(venueID, date, candidate, existing)
	if conflict != nil {
		s.monitor.TrackAvailabilityCheck("conflict", time.Since(started))
		return fmt.Errorf("slot %s blocked by booking %s (%s): %w",
			candidate, conflict.ID, conflict.Range, status.ErrConflict)
	}

	s.monitor.TrackAvailabilityCheck("available", time.Since(started))
	return nil
}
