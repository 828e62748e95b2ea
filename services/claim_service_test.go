package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-booking/internal/status"
	"venue-booking/models"
)

func TestClaimService_ValidateFile(t *testing.T) {
	svc := NewClaimService(nil, nil)
	requester := models.User{ID: "u1", Role: models.RoleVisitor}
	b := models.Booking{ID: "b1", RequesterID: requester.ID, Status: models.BookingConfirmed}

	c, err := svc.ValidateFile(requester, b, "Broken projector", "The projector was not working.", models.ClaimServiceIssue)
	require.NoError(t, err)

	assert.Equal(t, models.ClaimPending, c.Status)
	assert.Equal(t, b.ID, c.BookingID)
	assert.Equal(t, requester.ID, c.FilerID)
	assert.Regexp(t, `^CL-[0-9A-F]{8}$`, c.Reference)
	assert.Nil(t, c.ResolvedAt)
}

func TestClaimService_ValidateFile_CancelledBookingAllowed(t *testing.T) {
	svc := NewClaimService(nil, nil)
	requester := models.User{ID: "u1", Role: models.RoleVisitor}
	b := models.Booking{ID: "b1", RequesterID: requester.ID, Status: models.BookingCancelled}

	_, err := svc.ValidateFile(requester, b, "Refund owed", "Cancelled but never refunded.", models.ClaimRefund)
	assert.NoError(t, err)
}

func TestClaimService_ValidateFile_Rejections(t *testing.T) {
	svc := NewClaimService(nil, nil)
	requester := models.User{ID: "u1", Role: models.RoleVisitor}
	stranger := models.User{ID: "u2", Role: models.RoleVisitor}
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	b := models.Booking{ID: "b1", RequesterID: requester.ID}

	tests := []struct {
		name        string
		actor       models.User
		title       string
		description string
		category    models.ClaimCategory
		wantErr     error
	}{
		{"empty title", requester, "", "desc", models.ClaimOther, status.ErrValidation},
		{"title too long", requester, strings.Repeat("x", models.MaxClaimTitleLen+1), "desc", models.ClaimOther, status.ErrValidation},
		{"empty description", requester, "title", "  ", models.ClaimOther, status.ErrValidation},
		{"description too long", requester, "title", strings.Repeat("x", models.MaxClaimDescriptionLen+1), models.ClaimOther, status.ErrValidation},
		{"unknown category", requester, "title", "desc", models.ClaimCategory("billing"), status.ErrValidation},
		{"stranger cannot file", stranger, "title", "desc", models.ClaimOther, status.ErrUnauthorized},
		{"admin cannot file for others", admin, "title", "desc", models.ClaimOther, status.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateFile(tt.actor, b, tt.title, tt.description, tt.category)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaimService_Transition(t *testing.T) {
	svc := NewClaimService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}

	c := models.Claim{ID: "c1", FilerID: "u1", Status: models.ClaimPending}

	c, err := svc.Transition(admin, c, models.ClaimUnderReview, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimUnderReview, c.Status)
	assert.Nil(t, c.ResolvedAt)

	c, err = svc.Transition(admin, c, models.ClaimResolved, "refund issued", true)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimResolved, c.Status)
	assert.Equal(t, "refund issued", c.AdminNotes)
	require.NotNil(t, c.ResolvedAt)
	assert.WithinDuration(t, time.Now().UTC(), *c.ResolvedAt, time.Minute)
}

func TestClaimService_Transition_DirectResolution(t *testing.T) {
	svc := NewClaimService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	c := models.Claim{ID: "c1", Status: models.ClaimPending}

	// pending -> rejected without passing through under_review
	c, err := svc.Transition(admin, c, models.ClaimRejected, "", false)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimRejected, c.Status)
	assert.NotNil(t, c.ResolvedAt)
}

func TestClaimService_Transition_TerminalIsFrozen(t *testing.T) {
	svc := NewClaimService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	resolvedAt := time.Now().UTC().Add(-time.Hour)
	c := models.Claim{ID: "c1", Status: models.ClaimResolved, AdminNotes: "done", ResolvedAt: &resolvedAt}

	got, err := svc.Transition(admin, c, models.ClaimRejected, "changed my mind", true)
	require.ErrorIs(t, err, status.ErrTerminalState)

	// Nothing about the terminal claim changed, notes included.
	assert.Equal(t, models.ClaimResolved, got.Status)
	assert.Equal(t, "done", got.AdminNotes)
	assert.Equal(t, resolvedAt, *got.ResolvedAt)
}

func TestClaimService_Transition_Rejections(t *testing.T) {
	svc := NewClaimService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	owner := models.User{ID: "o1", Role: models.RoleOwner}
	c := models.Claim{ID: "c1", Status: models.ClaimUnderReview}

	_, err := svc.Transition(owner, c, models.ClaimResolved, "", false)
	assert.ErrorIs(t, err, status.ErrUnauthorized)

	_, err = svc.Transition(admin, c, models.ClaimPending, "", false)
	assert.ErrorIs(t, err, status.ErrInvalidTransition)

	_, err = svc.Transition(admin, c, models.ClaimStatus("escalated"), "", false)
	assert.ErrorIs(t, err, status.ErrValidation)
}

func TestClaimService_Transition_NotesOmittedKeepsExisting(t *testing.T) {
	svc := NewClaimService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	c := models.Claim{ID: "c1", Status: models.ClaimPending, AdminNotes: "first look"}

	got, err := svc.Transition(admin, c, models.ClaimUnderReview, "", false)
	require.NoError(t, err)
	assert.Equal(t, "first look", got.AdminNotes)
}
