package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-booking/internal/status"
	"venue-booking/models"
)

func booking(id, venueID, date string, start, end int, st models.BookingStatus) models.Booking {
	return models.Booking{
		ID:      id,
		VenueID: venueID,
		Date:    date,
		Range:   models.TimeRange{Start: start, End: end},
		Status:  st,
	}
}

func TestFirstConflict(t *testing.T) {
	existing := []models.Booking{
		booking("b1", "v1", "2026-09-01", 540, 780, models.BookingConfirmed),  // 09:00-13:00
		booking("b2", "v1", "2026-09-01", 840, 960, models.BookingCancelled),  // 14:00-16:00, cancelled
		booking("b3", "v1", "2026-09-02", 540, 780, models.BookingPending),    // other date
		booking("b4", "v2", "2026-09-01", 540, 780, models.BookingConfirmed),  // other venue
		booking("b5", "v1", "2026-09-01", 1020, 1140, models.BookingPending),  // 17:00-19:00
	}

	tests := []struct {
		name      string
		candidate models.TimeRange
		wantID    string
	}{
		{"overlapping confirmed booking blocks", models.TimeRange{Start: 600, End: 720}, "b1"},
		{"partial overlap at tail blocks", models.TimeRange{Start: 720, End: 840}, "b1"},
		{"pending booking blocks", models.TimeRange{Start: 1080, End: 1200}, "b5"},
		{"cancelled booking never blocks", models.TimeRange{Start: 840, End: 960}, ""},
		{"touching ranges do not overlap", models.TimeRange{Start: 780, End: 840}, ""},
		{"free gap is available", models.TimeRange{Start: 960, End: 1020}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstConflict("v1", "2026-09-01", tt.candidate, existing)
			if tt.wantID == "" {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tt.wantID, got.ID)
			}
		})
	}
}

func TestAvailabilityService_Check(t *testing.T) {
	svc := NewAvailabilityService(nil)
	existing := []models.Booking{
		booking("b1", "v1", "2026-09-01", 540, 780, models.BookingConfirmed),
	}

	err := svc.Check("v1", "2026-09-01", models.TimeRange{Start: 600, End: 660}, existing)
	require.ErrorIs(t, err, status.ErrConflict)
	assert.Contains(t, err.Error(), "b1")

	err = svc.Check("v1", "2026-09-01", models.TimeRange{Start: 780, End: 840}, existing)
	assert.NoError(t, err)
}
