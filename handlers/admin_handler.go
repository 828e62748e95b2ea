package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"

	"venue-booking/models"
	"venue-booking/services"
)

type AdminHandler struct {
	app         *pocketbase.PocketBase
	userService *services.UserService
	redis       *redis.Client
}

func NewAdminHandler(app *pocketbase.PocketBase, userService *services.UserService, redisClient *redis.Client) *AdminHandler {
	return &AdminHandler{
		app:         app,
		userService: userService,
		redis:       redisClient,
	}
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole assigns a marketplace role to a user.
func (h *AdminHandler) UpdateUserRole(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := updateRoleRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	record, err := h.app.FindRecordById("users", e.Request.PathValue("userId"))
	if err != nil {
		return apis.NewNotFoundError("User not found", err)
	}

	updated, err := h.userService.ValidateRoleChange(actor, userFromRecord(record), models.Role(data.Role))
	if err != nil {
		return mapError(err)
	}

	record.Set("role", string(updated.Role))
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save user", err)
	}

	return e.JSON(http.StatusOK, updated)
}

// DeleteUser removes a user account. Self-deletion is rejected before the
// record is touched.
func (h *AdminHandler) DeleteUser(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	record, err := h.app.FindRecordById("users", e.Request.PathValue("userId"))
	if err != nil {
		return apis.NewNotFoundError("User not found", err)
	}

	if err := h.userService.ValidateDelete(actor, userFromRecord(record)); err != nil {
		return mapError(err)
	}

	if err := h.app.Delete(record); err != nil {
		return apis.NewBadRequestError("Failed to delete user", err)
	}

	return e.NoContent(http.StatusNoContent)
}

// Dashboard summarizes the workflow state for the admin overview.
func (h *AdminHandler) Dashboard(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return apis.NewForbiddenError("Admin access required", nil)
	}

	pendingBookings, _ := h.app.CountRecords("bookings", dbx.HashExp{"status": "pending"})
	confirmedBookings, _ := h.app.CountRecords("bookings", dbx.HashExp{"status": "confirmed"})
	openClaims, _ := h.app.CountRecords("claims", dbx.In("status", "pending", "under_review"))
	pendingListings, _ := h.app.CountRecords("venues",
		dbx.HashExp{"verification_status": "pending", "removed": false})

	approvedVenues, err := h.redis.SCard(e.Request.Context(), "approved_venues").Result()
	if err != nil {
		approvedVenues = 0
	}

	return e.JSON(http.StatusOK, map[string]any{
		"pending_bookings":   pendingBookings,
		"confirmed_bookings": confirmedBookings,
		"open_claims":        openClaims,
		"pending_listings":   pendingListings,
		"approved_venues":    approvedVenues,
	})
}
