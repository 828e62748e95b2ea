package services

import (
	"venue-booking/models"
)

// Action identifies a guarded core operation.
type Action string

const (
	ActionCreateBooking  Action = "booking.create"
	ActionConfirmBooking Action = "booking.confirm"
	ActionCancelBooking  Action = "booking.cancel"
	ActionFileClaim      Action = "claim.file"
	ActionReviewClaim    Action = "claim.review"
	ActionSubmitListing  Action = "listing.submit"
	ActionVerifyListing  Action = "listing.verify"
	ActionUpdateVenue    Action = "venue.update"
	ActionRemoveVenue    Action = "venue.remove"
	ActionUpdateUserRole Action = "user.update_role"
	ActionDeleteUser     Action = "user.delete"
)

// Target carries the ownership references a rule predicate may inspect.
// Only the fields relevant to the action need to be set.
type Target struct {
	VenueOwnerID       string
	BookingRequesterID string
	UserID             string
}

// rule allows an action when the actor's role is listed, or when the
// predicate grants it regardless of role. deny vetoes everything else.
type rule struct {
	roles  map[models.Role]bool
	grants func(actor models.User, target Target) bool
	denies func(actor models.User, target Target) bool
}

func anyRole() map[models.Role]bool {
	return map[models.Role]bool{
		models.RoleVisitor: true,
		models.RoleOwner:   true,
		models.RoleAdmin:   true,
	}
}

func adminOnly() map[models.Role]bool {
	return map[models.Role]bool{models.RoleAdmin: true}
}

// permissions is the single declarative {role, action, ownership} table.
// Adding a role or action is a data change here, not a code change.
var permissions = map[Action]rule{
	ActionCreateBooking: {roles: anyRole()},

	// Only the platform admin confirms bookings; owners have read access to
	// their venue's bookings but no transition rights.
	ActionConfirmBooking: {roles: adminOnly()},

	// The requester may cancel their own booking; an admin may cancel any.
	ActionCancelBooking: {
		roles: adminOnly(),
		grants: func(actor models.User, target Target) bool {
			return actor.ID != "" && actor.ID == target.BookingRequesterID
		},
	},

	// Claims are filed only by the booking's original requester.
	ActionFileClaim: {
		roles: map[models.Role]bool{},
		grants: func(actor models.User, target Target) bool {
			return actor.ID != "" && actor.ID == target.BookingRequesterID
		},
	},

	ActionReviewClaim: {roles: adminOnly()},

	ActionSubmitListing: {roles: map[models.Role]bool{
		models.RoleOwner: true,
		models.RoleAdmin: true,
	}},

	ActionVerifyListing: {roles: adminOnly()},

	// Owners manage their own listings; admins manage all.
	ActionUpdateVenue: {
		roles: adminOnly(),
		grants: func(actor models.User, target Target) bool {
			return actor.Role == models.RoleOwner && actor.ID == target.VenueOwnerID
		},
	},
	ActionRemoveVenue: {
		roles: adminOnly(),
		grants: func(actor models.User, target Target) bool {
			return actor.Role == models.RoleOwner && actor.ID == target.VenueOwnerID
		},
	},

	ActionUpdateUserRole: {roles: adminOnly()},

	// Admins delete users, but never their own account.
	ActionDeleteUser: {
		roles: adminOnly(),
		denies: func(actor models.User, target Target) bool {
			return actor.ID == target.UserID
		},
	},
}

// CanPerform answers "may actor perform action on target". It is pure and
// consulted before every mutating operation; a false answer surfaces to the
// caller as ErrUnauthorized, never as a validation failure.
func CanPerform(actor models.User, action Action, target Target) bool {
	r, ok := permissions[action]
	if !ok {
		return false
	}
	if r.denies != nil && r.denies(actor, target) {
		return false
	}
	if r.roles[actor.Role] {
		return true
	}
	return r.grants != nil && r.grants(actor, target)
}
