package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/models"
)

func TestValidateActualCheckIn(t *testing.T) {
	r := stay(1, models.ReservationConfirmed, "2025-06-10", "2025-06-13")
	now := day("2025-06-10").Add(15 * time.Hour)

	t.Run("on the booked day", func(t *testing.T) {
		assert.NoError(t, validateActualCheckIn(r, day("2025-06-10").Add(14*time.Hour), now))
	})

	t.Run("late arrival mid-stay", func(t *testing.T) {
		later := day("2025-06-11").Add(9 * time.Hour)
		assert.NoError(t, validateActualCheckIn(r, later, later))
	})

	t.Run("before the booked date", func(t *testing.T) {
		err := validateActualCheckIn(r, day("2025-06-09").Add(22*time.Hour), now)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "checkin_too_early", de.Code)
	})

	t.Run("in the future", func(t *testing.T) {
		err := validateActualCheckIn(r, now.Add(time.Hour), now)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "checkin_in_future", de.Code)
	})
}

func TestValidateActualCheckOut(t *testing.T) {
	r := stay(1, models.ReservationCheckedIn, "2025-06-10", "2025-06-13")

	t.Run("early departure is fine", func(t *testing.T) {
		assert.NoError(t, validateActualCheckOut(r, day("2025-06-11").Add(10*time.Hour)))
	})

	t.Run("any time on the check-out day", func(t *testing.T) {
		assert.NoError(t, validateActualCheckOut(r, day("2025-06-13").Add(23*time.Hour)))
	})

	t.Run("before the stay began", func(t *testing.T) {
		err := validateActualCheckOut(r, day("2025-06-09"))
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "checkout_too_early", de.Code)
	})

	t.Run("past the check-out day", func(t *testing.T) {
		err := validateActualCheckOut(r, day("2025-06-14"))
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "checkout_too_late", de.Code)
	})
}

func TestNewReferenceCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newReferenceCode()
		assert.True(t, strings.HasPrefix(code, "RSV-"), code)
		assert.Equal(t, code, strings.ToUpper(code))
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
