package models

import (
	"fmt"
	"strings"
	"time"

	"venue-booking/internal/status"
)

// ClaimStatus is the closed set of dispute states.
type ClaimStatus string

const (
	ClaimPending     ClaimStatus = "pending"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimResolved    ClaimStatus = "resolved"
	ClaimRejected    ClaimStatus = "rejected"
)

var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimPending:     {ClaimUnderReview, ClaimResolved, ClaimRejected},
	ClaimUnderReview: {ClaimResolved, ClaimRejected},
	ClaimResolved:    {},
	ClaimRejected:    {},
}

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	_, ok := claimTransitions[s]
	return ok
}

// Terminal reports whether s is absorbing. Once a claim resolves or is
// rejected no further transition is permitted.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimResolved || s == ClaimRejected
}

// CanTransitionTo reports whether the table permits s -> target.
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	for _, next := range claimTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ClaimCategory classifies a dispute.
type ClaimCategory string

const (
	ClaimRefund         ClaimCategory = "refund"
	ClaimPropertyDamage ClaimCategory = "property_damage"
	ClaimCancellation   ClaimCategory = "cancellation"
	ClaimServiceIssue   ClaimCategory = "service_issue"
	ClaimOther          ClaimCategory = "other"
)

var claimCategories = map[ClaimCategory]bool{
	ClaimRefund:         true,
	ClaimPropertyDamage: true,
	ClaimCancellation:   true,
	ClaimServiceIssue:   true,
	ClaimOther:          true,
}

// Valid reports whether c is a known category.
func (c ClaimCategory) Valid() bool { return claimCategories[c] }

const (
	MaxClaimTitleLen       = 100
	MaxClaimDescriptionLen = 1000
)

// ValidateClaimInput checks the filing payload bounds. Title and description
// are required; both have length ceilings.
func ValidateClaimInput(title, description string, category ClaimCategory) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("claim title is required: %w", status.ErrValidation)
	}
	if len(title) > MaxClaimTitleLen {
		return fmt.Errorf("claim title exceeds %d characters: %w", MaxClaimTitleLen, status.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("claim description is required: %w", status.ErrValidation)
	}
	if len(description) > MaxClaimDescriptionLen {
		return fmt.Errorf("claim description exceeds %d characters: %w", MaxClaimDescriptionLen, status.ErrValidation)
	}
	if !category.Valid() {
		return fmt.Errorf("unknown claim category %q: %w", category, status.ErrValidation)
	}
	return nil
}

// Claim is a dispute filed against a booking by its original requester.
// ResolvedAt is set exactly once, on entering a terminal state, and is never
// cleared. AdminNotes freeze together with the terminal status.
type Claim struct {
	ID          string        `json:"id"`
	Reference   string        `json:"reference"`
	BookingID   string        `json:"booking_id"`
	FilerID     string        `json:"filer_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    ClaimCategory `json:"category"`
	Status      ClaimStatus   `json:"status"`
	AdminNotes  string        `json:"admin_notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty"`
}
