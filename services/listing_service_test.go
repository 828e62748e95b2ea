package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-booking/internal/status"
	"venue-booking/models"
)

func validListing() models.Venue {
	return models.Venue{
		Name:       "Garden Hall",
		Location:   "Riverside",
		HourlyRate: decimal.NewFromInt(80),
		Capacity:   120,
	}
}

func TestListingService_ValidateSubmit(t *testing.T) {
	svc := NewListingService(nil, nil)
	owner := models.User{ID: "o1", Role: models.RoleOwner}

	submission := validListing()
	submission.OwnerID = "someone-else"
	submission.Verification = models.VerificationApproved

	v, err := svc.ValidateSubmit(owner, submission)
	require.NoError(t, err)

	// Owner and verification state come from the server, never the payload.
	assert.Equal(t, owner.ID, v.OwnerID)
	assert.Equal(t, models.VerificationPending, v.Verification)
	assert.False(t, v.Removed)
}

func TestListingService_ValidateSubmit_Rejections(t *testing.T) {
	svc := NewListingService(nil, nil)
	owner := models.User{ID: "o1", Role: models.RoleOwner}
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}

	noName := validListing()
	noName.Name = " "
	freeVenue := validListing()
	freeVenue.HourlyRate = decimal.Zero

	tests := []struct {
		name    string
		actor   models.User
		venue   models.Venue
		wantErr error
	}{
		{"blank name", owner, noName, status.ErrValidation},
		{"non-positive rate", owner, freeVenue, status.ErrValidation},
		{"visitor cannot submit", visitor, validListing(), status.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateSubmit(tt.actor, tt.venue)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListingService_Transition(t *testing.T) {
	svc := NewListingService(nil, nil)
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	owner := models.User{ID: "o1", Role: models.RoleOwner}

	tests := []struct {
		name    string
		actor   models.User
		from    models.VerificationStatus
		target  models.VerificationStatus
		wantErr error
	}{
		{"admin approves pending", admin, models.VerificationPending, models.VerificationApproved, nil},
		{"admin rejects pending", admin, models.VerificationPending, models.VerificationRejected, nil},
		{"owner cannot verify", owner, models.VerificationPending, models.VerificationApproved, status.ErrUnauthorized},
		{"approved is absorbing", admin, models.VerificationApproved, models.VerificationRejected, status.ErrInvalidTransition},
		{"rejected is absorbing", admin, models.VerificationRejected, models.VerificationApproved, status.ErrInvalidTransition},
		{"unknown status", admin, models.VerificationPending, models.VerificationStatus("flagged"), status.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venue := validListing()
			venue.ID = "v1"
			venue.OwnerID = owner.ID
			venue.Verification = tt.from

			got, err := svc.Transition(tt.actor, venue, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, got.Verification)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.Verification)
		})
	}
}

func TestListingService_ValidateUpdate(t *testing.T) {
	svc := NewListingService(nil, nil)
	owner := models.User{ID: "o1", Role: models.RoleOwner}

	current := validListing()
	current.ID = "v1"
	current.OwnerID = owner.ID
	current.Verification = models.VerificationApproved

	updated := validListing()
	updated.Name = "Garden Hall East"
	updated.OwnerID = "hijack"
	updated.Verification = models.VerificationRejected

	v, err := svc.ValidateUpdate(owner, current, updated)
	require.NoError(t, err)

	assert.Equal(t, "Garden Hall East", v.Name)
	assert.Equal(t, current.ID, v.ID)
	assert.Equal(t, owner.ID, v.OwnerID)
	assert.Equal(t, models.VerificationApproved, v.Verification)
}

func TestListingService_ValidateUpdate_OtherOwner(t *testing.T) {
	svc := NewListingService(nil, nil)
	other := models.User{ID: "o2", Role: models.RoleOwner}

	current := validListing()
	current.ID = "v1"
	current.OwnerID = "o1"

	_, err := svc.ValidateUpdate(other, current, validListing())
	assert.ErrorIs(t, err, status.ErrUnauthorized)
}

func TestListingService_ValidateRemove(t *testing.T) {
	svc := NewListingService(nil, nil)
	owner := models.User{ID: "o1", Role: models.RoleOwner}
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}

	venue := validListing()
	venue.ID = "v1"
	venue.OwnerID = owner.ID

	got, err := svc.ValidateRemove(owner, venue)
	require.NoError(t, err)
	assert.True(t, got.Removed)

	_, err = svc.ValidateRemove(visitor, venue)
	assert.ErrorIs(t, err, status.ErrUnauthorized)
}
