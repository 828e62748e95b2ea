package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"venue-booking/internal/status"
)

// VerificationStatus is the closed set of listing verification states.
// Both decisions are absorbing: there is no un-approve or un-reject path.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:  {VerificationApproved, VerificationRejected},
	VerificationApproved: {},
	VerificationRejected: {},
}

// Valid reports whether s is a known verification status.
func (s VerificationStatus) Valid() bool {
	_, ok := verificationTransitions[s]
	return ok
}

// Decided reports whether the listing has received its verification decision.
func (s VerificationStatus) Decided() bool {
	return s == VerificationApproved || s == VerificationRejected
}

// CanTransitionTo reports whether the table permits s -> target.
func (s VerificationStatus) CanTransitionTo(target VerificationStatus) bool {
	for _, next := range verificationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Venue is a bookable space listing. The owner reference is immutable after
// creation and the record is only ever soft-removed while bookings still
// reference it.
type Venue struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Location     string             `json:"location"`
	HourlyRate   decimal.Decimal    `json:"hourly_rate"`
	Capacity     int                `json:"capacity"`
	SizeSqft     int                `json:"size_sqft"`
	Amenities    []string           `json:"amenities"`
	OwnerID      string             `json:"owner_id"`
	Verification VerificationStatus `json:"verification_status"`
	Removed      bool               `json:"removed"`
}

// Bookable reports whether the venue may accept new bookings.
func (v Venue) Bookable() bool {
	return v.Verification == VerificationApproved && !v.Removed
}

// ValidateVenueInput checks an owner's listing submission.
func ValidateVenueInput(v Venue) error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("venue name is required: %w", status.ErrValidation)
	}
	if strings.TrimSpace(v.Location) == "" {
		return fmt.Errorf("venue location is required: %w", status.ErrValidation)
	}
	if !v.HourlyRate.IsPositive() {
		return fmt.Errorf("hourly rate must be positive: %w", status.ErrValidation)
	}
	if v.Capacity < 1 {
		return fmt.Errorf("capacity must be a positive integer: %w", status.ErrValidation)
	}
	return nil
}
