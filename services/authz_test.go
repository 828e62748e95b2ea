package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"venue-booking/models"
)

func TestCanPerform(t *testing.T) {
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}
	owner := models.User{ID: "u2", Role: models.RoleOwner}
	admin := models.User{ID: "u3", Role: models.RoleAdmin}

	tests := []struct {
		name   string
		actor  models.User
		action Action
		target Target
		want   bool
	}{
		{"visitor creates booking", visitor, ActionCreateBooking, Target{}, true},
		{"owner creates booking", owner, ActionCreateBooking, Target{}, true},
		{"admin creates booking", admin, ActionCreateBooking, Target{}, true},

		{"visitor cannot confirm", visitor, ActionConfirmBooking, Target{}, false},
		{"owner cannot confirm", owner, ActionConfirmBooking, Target{VenueOwnerID: owner.ID}, false},
		{"admin confirms", admin, ActionConfirmBooking, Target{}, true},

		{"requester cancels own booking", visitor, ActionCancelBooking, Target{BookingRequesterID: visitor.ID}, true},
		{"stranger cannot cancel", visitor, ActionCancelBooking, Target{BookingRequesterID: "other"}, false},
		{"admin cancels any booking", admin, ActionCancelBooking, Target{BookingRequesterID: "other"}, true},

		{"requester files claim", visitor, ActionFileClaim, Target{BookingRequesterID: visitor.ID}, true},
		{"non-requester cannot file", owner, ActionFileClaim, Target{BookingRequesterID: "other"}, false},
		{"admin cannot file on behalf", admin, ActionFileClaim, Target{BookingRequesterID: "other"}, false},

		{"visitor cannot review claims", visitor, ActionReviewClaim, Target{}, false},
		{"owner cannot review claims", owner, ActionReviewClaim, Target{}, false},
		{"admin reviews claims", admin, ActionReviewClaim, Target{}, true},

		{"visitor cannot submit listing", visitor, ActionSubmitListing, Target{}, false},
		{"owner submits listing", owner, ActionSubmitListing, Target{}, true},
		{"admin submits listing", admin, ActionSubmitListing, Target{}, true},

		{"owner cannot verify own listing", owner, ActionVerifyListing, Target{VenueOwnerID: owner.ID}, false},
		{"admin verifies listing", admin, ActionVerifyListing, Target{}, true},

		{"owner updates own venue", owner, ActionUpdateVenue, Target{VenueOwnerID: owner.ID}, true},
		{"owner cannot update other venue", owner, ActionUpdateVenue, Target{VenueOwnerID: "other"}, false},
		{"visitor with matching id cannot update venue", visitor, ActionUpdateVenue, Target{VenueOwnerID: visitor.ID}, false},
		{"admin updates any venue", admin, ActionUpdateVenue, Target{VenueOwnerID: "other"}, true},

		{"owner removes own venue", owner, ActionRemoveVenue, Target{VenueOwnerID: owner.ID}, true},
		{"owner cannot remove other venue", owner, ActionRemoveVenue, Target{VenueOwnerID: "other"}, false},

		{"owner cannot change roles", owner, ActionUpdateUserRole, Target{UserID: "other"}, false},
		{"admin changes roles", admin, ActionUpdateUserRole, Target{UserID: "other"}, true},

		{"admin deletes other user", admin, ActionDeleteUser, Target{UserID: "other"}, true},
		{"admin cannot delete self", admin, ActionDeleteUser, Target{UserID: admin.ID}, false},
		{"owner cannot delete users", owner, ActionDeleteUser, Target{UserID: "other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.actor, tt.action, tt.target))
		})
	}
}

func TestCanPerform_UnknownAction(t *testing.T) {
	admin := models.User{ID: "u3", Role: models.RoleAdmin}
	assert.False(t, CanPerform(admin, Action("bogus"), Target{}))
}

func TestCanPerform_EmptyActorID(t *testing.T) {
	// An actor with no identity never matches an ownership grant, even when
	// the target reference is also empty.
	anon := models.User{Role: models.RoleVisitor}
	assert.False(t, CanPerform(anon, ActionFileClaim, Target{BookingRequesterID: ""}))
	assert.False(t, CanPerform(anon, ActionCancelBooking, Target{BookingRequesterID: ""}))
}
