package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allReservationStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCheckedOut, ReservationCancelled, ReservationNoShow,
	}
}

// TestTransitionTable pins the whole lifecycle down, pair by pair.
func TestTransitionTable(t *testing.T) {
	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationPending:   {ReservationConfirmed: true, ReservationCheckedIn: true, ReservationCancelled: true, ReservationNoShow: true},
		ReservationConfirmed: {ReservationPending: true, ReservationCheckedIn: true, ReservationCancelled: true, ReservationNoShow: true},
		ReservationCheckedIn: {ReservationCheckedOut: true, ReservationCancelled: true, ReservationNoShow: true},
	}

	for _, from := range allReservationStatuses() {
		for _, to := range allReservationStatuses() {
			want := allowed[from][to]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []ReservationStatus{ReservationCheckedOut, ReservationCancelled, ReservationNoShow} {
		assert.True(t, from.Terminal(), from)
		for _, to := range allReservationStatuses() {
			assert.Falsef(t, from.CanTransitionTo(to), "%s must not leave terminal state (tried %s)", from, to)
		}
	}
}

func TestCheckedOutOnlyReachableFromCheckedIn(t *testing.T) {
	for _, from := range allReservationStatuses() {
		want := from == ReservationCheckedIn
		assert.Equalf(t, want, from.CanTransitionTo(ReservationCheckedOut), "from %s", from)
	}
}

func TestCancelledAndNoShowReachableOnlyFromActive(t *testing.T) {
	for _, from := range allReservationStatuses() {
		for _, to := range []ReservationStatus{ReservationCancelled, ReservationNoShow} {
			assert.Equalf(t, from.Active(), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestActiveSet(t *testing.T) {
	assert.True(t, ReservationPending.Active())
	assert.True(t, ReservationConfirmed.Active())
	assert.True(t, ReservationCheckedIn.Active())
	assert.False(t, ReservationCheckedOut.Active())
	assert.False(t, ReservationCancelled.Active())
	assert.False(t, ReservationNoShow.Active())

	assert.ElementsMatch(t,
		[]ReservationStatus{ReservationPending, ReservationConfirmed, ReservationCheckedIn},
		ActiveReservationStatuses())
}

func TestStatusValidity(t *testing.T) {
	for _, s := range allReservationStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ReservationStatus("Checked-In").Valid())
	assert.False(t, ReservationStatus("").Valid())
}

func TestDisplayLabels(t *testing.T) {
	assert.Equal(t, "In House", ReservationCheckedIn.DisplayLabel())
	assert.Equal(t, "Checked Out", ReservationCheckedOut.DisplayLabel())
	assert.Equal(t, "No Show", ReservationNoShow.DisplayLabel())
	assert.Equal(t, "Pending", ReservationPending.DisplayLabel())
}

func TestRoomStatusValidity(t *testing.T) {
	for _, s := range []RoomStatus{RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance, RoomOutOfOrder} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, RoomStatus("Dirty").Valid())
}
