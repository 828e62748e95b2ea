package services

import (
	"fmt"

	"venue-booking/internal/status"
	"venue-booking/models"
	"venue-booking/monitoring"
)

// UserService owns the admin-side user mutations: role changes and account
// deletion. An admin never deletes their own account; that is an invariant,
// not a UI nicety.
type UserService struct {
	monitor *monitoring.Monitor
}

func NewUserService(monitor *monitoring.Monitor) *UserService {
	return &UserService{monitor: monitor}
}

// ValidateRoleChange checks an admin's role assignment for another user and
// returns the target user with the new role applied.
func (s *UserService) ValidateRoleChange(actor models.User, target models.User, role models.Role) (models.User, error) {
	// validation
	if !role.Valid() {
		s.monitor.TrackOperation("user", "role_change", "invalid")
		return target, fmt.Errorf("unknown role %q: %w", role, status.ErrValidation)
	}

	// authorization
	if !CanPerform(actor, ActionUpdateUserRole, Target{UserID: target.ID}) {
		s.monitor.TrackOperation("user", "role_change", "unauthorized")
		return target, fmt.Errorf("actor %s cannot change roles: %w", actor.ID, status.ErrUnauthorized)
	}

	target.Role = role
	s.monitor.TrackOperation("user", "role_change", "ok")
	return target, nil
}

// ValidateDelete checks an admin's deletion of a user account. Deleting
// one's own account is always rejected.
func (s *UserService) ValidateDelete(actor models.User, target models.User) error {
	if !CanPerform(actor, ActionDeleteUser, Target{UserID: target.ID}) {
		s.monitor.TrackOperation("user", "delete", "unauthorized")
		return fmt.Errorf("actor %s cannot delete user %s: %w", actor.ID, target.ID, status.ErrUnauthorized)
	}

	s.monitor.TrackOperation("user", "delete", "ok")
	return nil
}
