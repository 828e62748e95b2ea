package handlers

import (
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"venue-booking/models"
	"venue-booking/services"
)

type ClaimHandler struct {
	app          *pocketbase.PocketBase
	claimService *services.ClaimService
	locks        *services.LockManager
}

func NewClaimHandler(app *pocketbase.PocketBase, claimService *services.ClaimService, locks *services.LockManager) *ClaimHandler {
	return &ClaimHandler{
		app:          app,
		claimService: claimService,
		locks:        locks,
	}
}

type fileClaimRequest struct {
	BookingID   string `json:"booking_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// File opens a dispute against one of the requester's bookings.
func (h *ClaimHandler) File(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := fileClaimRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	bookingRecord, err := h.app.FindRecordById("bookings", data.BookingID)
	if err != nil {
		return apis.NewNotFoundError("Booking not found", err)
	}
	booking, err := bookingFromRecord(bookingRecord)
	if err != nil {
		return mapError(err)
	}

	claim, err := h.claimService.ValidateFile(actor, booking, data.Title, data.Description, models.ClaimCategory(data.Category))
	if err != nil {
		return mapError(err)
	}

	collection, err := h.app.FindCollectionByNameOrId("claims")
	if err != nil {
		return apis.NewBadRequestError("Failed to resolve claims collection", err)
	}
	record := core.NewRecord(collection)
	setClaimRecord(record, *claim)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save claim", err)
	}
	claim.ID = record.Id

	return e.JSON(http.StatusCreated, claim)
}

type transitionClaimRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// Transition applies one admin review decision. AdminNotes is a pointer so
// an omitted field leaves existing notes untouched while an empty string
// clears them.
func (h *ClaimHandler) Transition(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := transitionClaimRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	claimID := e.Request.PathValue("claimId")

	release, err := h.locks.AcquireEntity(e.Request.Context(), "claims", claimID)
	if err != nil {
		return mapError(err)
	}
	defer release()

	record, err := h.app.FindRecordById("claims", claimID)
	if err != nil {
		return apis.NewNotFoundError("Claim not found", err)
	}
	claim := claimFromRecord(record)

	notes := ""
	if data.AdminNotes != nil {
		notes = *data.AdminNotes
	}
	updated, err := h.claimService.Transition(actor, claim, models.ClaimStatus(data.Status), notes, data.AdminNotes != nil)
	if err != nil {
		return mapError(err)
	}

	setClaimRecord(record, updated)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save claim", err)
	}

	h.claimService.AnnounceTransition(updated)

	return e.JSON(http.StatusOK, updated)
}

// List returns the actor's own claims; admins see every claim.
func (h *ClaimHandler) List(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	var records []*core.Record
	if actor.Role == models.RoleAdmin {
		records, err = h.app.FindAllRecords("claims")
	} else {
		records, err = h.app.FindAllRecords("claims", dbx.HashExp{"filer": actor.ID})
	}
	if err != nil {
		return apis.NewBadRequestError("Failed to load claims", err)
	}

	claims := make([]models.Claim, 0, len(records))
	for _, r := range records {
		claims = append(claims, claimFromRecord(r))
	}

	return e.JSON(http.StatusOK, claims)
}
