package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

func day(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func stay(id uint, status models.ReservationStatus, checkIn, checkOut string) models.Reservation {
	return models.Reservation{
		ID:       id,
		RoomID:   1,
		Status:   status,
		CheckIn:  day(checkIn),
		CheckOut: day(checkOut),
	}
}

func TestFindConflict(t *testing.T) {
	existing := []models.Reservation{
		stay(1, models.ReservationCheckedIn, "2025-06-10", "2025-06-13"),
	}

	t.Run("overlapping window conflicts", func(t *testing.T) {
		c := findConflict(existing, day("2025-06-11"), day("2025-06-14"), 0)
		require.NotNil(t, c)
		assert.Equal(t, uint(1), c.ID)
	})

	t.Run("adjacent boundary is free", func(t *testing.T) {
		assert.Nil(t, findConflict(existing, day("2025-06-13"), day("2025-06-15"), 0))
		assert.Nil(t, findConflict(existing, day("2025-06-08"), day("2025-06-10"), 0))
	})

	t.Run("excluding own id frees the unchanged window", func(t *testing.T) {
		assert.Nil(t, findConflict(existing, day("2025-06-10"), day("2025-06-13"), 1))
	})

	t.Run("inactive statuses never conflict", func(t *testing.T) {
		for _, status := range []models.ReservationStatus{
			models.ReservationCancelled, models.ReservationNoShow, models.ReservationCheckedOut,
		} {
			gone := []models.Reservation{stay(2, status, "2025-06-10", "2025-06-13")}
			assert.Nilf(t, findConflict(gone, day("2025-06-10"), day("2025-06-13"), 0), "status %s", status)
		}
	})

	t.Run("each active status conflicts", func(t *testing.T) {
		for _, status := range models.ActiveReservationStatuses() {
			active := []models.Reservation{stay(3, status, "2025-06-10", "2025-06-13")}
			assert.NotNilf(t, findConflict(active, day("2025-06-12"), day("2025-06-20"), 0), "status %s", status)
		}
	})
}

// TestNoDoubleBookingProperty admits random windows through findConflict the
// way Create does and then verifies the accepted set is pairwise disjoint.
func TestNoDoubleBookingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day("2025-01-01")

	var accepted []models.Reservation
	var nextID uint = 1

	for i := 0; i < 500; i++ {
		start := utils.AddDays(base, rng.Intn(120))
		end := utils.AddDays(start, 1+rng.Intn(14))

		if findConflict(accepted, start, end, 0) != nil {
			continue
		}
		accepted = append(accepted, models.Reservation{
			ID:       nextID,
			RoomID:   1,
			Status:   models.ReservationConfirmed,
			CheckIn:  start,
			CheckOut: end,
		})
		nextID++
	}

	require.NotEmpty(t, accepted)
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			assert.Falsef(t,
				utils.Overlaps(a.CheckIn, a.CheckOut, b.CheckIn, b.CheckOut),
				"reservations %d and %d overlap: [%s,%s) vs [%s,%s)",
				a.ID, b.ID, a.CheckIn, a.CheckOut, b.CheckIn, b.CheckOut)
		}
	}
}

func TestParseStayDates(t *testing.T) {
	t.Run("valid stay", func(t *testing.T) {
		ci, co, err := parseStayDates("2025-06-10", "2025-06-13")
		require.NoError(t, err)
		assert.Equal(t, day("2025-06-10"), ci)
		assert.Equal(t, day("2025-06-13"), co)
	})

	tests := []struct {
		name, checkIn, checkOut, wantCode string
	}{
		{"zero nights", "2025-06-10", "2025-06-10", "invalid_date_range"},
		{"reversed", "2025-06-13", "2025-06-10", "invalid_date_range"},
		{"bad check-in", "June 10", "2025-06-13", "invalid_check_in"},
		{"bad check-out", "2025-06-10", "13/06/2025", "invalid_check_out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseStayDates(tt.checkIn, tt.checkOut)
			require.Error(t, err)
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, KindValidation, de.Kind)
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}
