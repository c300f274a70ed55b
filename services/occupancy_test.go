package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guesthouse-backend/models"
)

func tenRooms() []models.Room {
	rooms := make([]models.Room, 0, 10)
	for i := 1; i <= 10; i++ {
		room := models.Room{Capacity: 2, SeaView: i > 6, NightlyRate: decimal.NewFromInt(1200)}
		room.ID = uint(i)
		rooms = append(rooms, room)
	}
	return rooms
}

func checkedInStay(id, roomID uint, checkIn, checkOut string) models.Reservation {
	r := stay(id, models.ReservationCheckedIn, checkIn, checkOut)
	r.RoomID = roomID
	return r
}

func reservationPayment(amount int64, paidAt string) models.Payment {
	return models.Payment{
		Amount: decimal.NewFromInt(amount),
		Method: models.MethodCash,
		Type:   models.PaymentReservation,
		Status: models.PaymentCompleted,
		PaidAt: day(paidAt).Add(12 * time.Hour),
	}
}

func TestComputeDailyOccupancy(t *testing.T) {
	rooms := tenRooms()
	stays := []models.Reservation{
		checkedInStay(1, 1, "2025-06-10", "2025-06-13"),
		checkedInStay(2, 2, "2025-06-11", "2025-06-12"),
		// cancelled stays never count
		stay(3, models.ReservationCancelled, "2025-06-10", "2025-06-20"),
	}
	payments := []models.Payment{
		reservationPayment(2400, "2025-06-11"),
		reservationPayment(1200, "2025-06-12"),
		// sale payments are revenue, but not room revenue
		{Amount: decimal.NewFromInt(500), Type: models.PaymentSale, Status: models.PaymentCompleted, PaidAt: day("2025-06-11")},
	}

	got := computeDailyOccupancy(day("2025-06-11"), rooms, stays, payments)

	assert.Equal(t, 2, got.OccupiedRooms)
	assert.Equal(t, 10, got.TotalRooms)
	assert.InDelta(t, 20.0, got.Rate, 1e-9)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(2400)), got.Revenue)
	assert.True(t, got.AvgRoomRate.Equal(decimal.NewFromInt(1200)), got.AvgRoomRate)
}

func TestComputeDailyOccupancyEmpty(t *testing.T) {
	got := computeDailyOccupancy(day("2025-06-11"), nil, nil, nil)
	assert.Equal(t, 0, got.OccupiedRooms)
	assert.Zero(t, got.Rate)
	assert.True(t, got.Revenue.IsZero())
	assert.True(t, got.AvgRoomRate.IsZero())
}

// Ten rooms over June = 300 room-nights; 90 occupied -> 30%.
func TestPeriodOccupancyRateExample(t *testing.T) {
	rooms := tenRooms()
	var stays []models.Reservation
	// 9 rooms each CheckedIn for 10 nights inside June
	for i := uint(1); i <= 9; i++ {
		stays = append(stays, checkedInStay(i, i, "2025-06-05", "2025-06-15"))
	}

	got := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), rooms, stays, nil)

	assert.Equal(t, 300, got.TotalRoomNights)
	assert.Equal(t, 90, got.OccupiedRoomNights)
	assert.InDelta(t, 30.0, got.Rate, 1e-9)
	assert.Len(t, got.Daily, 30)
}

func TestPeriodOccupancyClipsToWindow(t *testing.T) {
	rooms := tenRooms()
	stays := []models.Reservation{
		// 2 nights before the window + 3 inside
		checkedInStay(1, 1, "2025-05-30", "2025-06-04"),
		// 4 inside + spills past the window end
		checkedInStay(2, 2, "2025-06-27", "2025-07-05"),
	}

	got := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), rooms, stays, nil)
	assert.Equal(t, 3+4, got.OccupiedRoomNights)
}

func TestPeriodOccupancyInvariants(t *testing.T) {
	rooms := tenRooms()
	stays := []models.Reservation{
		checkedInStay(1, 1, "2025-06-01", "2025-07-01"),
		checkedInStay(2, 2, "2025-06-10", "2025-06-20"),
	}

	got := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), rooms, stays, nil)

	assert.GreaterOrEqual(t, got.Rate, 0.0)
	assert.LessOrEqual(t, got.Rate, 100.0)
	assert.LessOrEqual(t, got.OccupiedRoomNights, got.TotalRoomNights)
	for _, d := range got.Daily {
		assert.GreaterOrEqual(t, d.Rate, 0.0)
		assert.LessOrEqual(t, d.Rate, 100.0)
	}
}

func TestPeriodOccupancyZeroRooms(t *testing.T) {
	got := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), nil, nil, nil)
	assert.Zero(t, got.Rate)
	assert.Zero(t, got.TotalRoomNights)
}

func TestRoomTypeBreakdown(t *testing.T) {
	rooms := tenRooms() // 6 standard, 4 sea view
	stays := []models.Reservation{
		checkedInStay(1, 1, "2025-06-10", "2025-06-12"), // standard
		checkedInStay(2, 8, "2025-06-10", "2025-06-15"), // sea view
	}

	got := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), rooms, stays, nil)
	require.Len(t, got.Groups, 2)

	standard, seaView := got.Groups[0], got.Groups[1]
	assert.False(t, standard.SeaView)
	assert.Equal(t, 6, standard.Rooms)
	assert.Equal(t, 2, standard.OccupiedRoomNights)
	assert.Equal(t, 6*30, standard.TotalRoomNights)

	assert.True(t, seaView.SeaView)
	assert.Equal(t, 4, seaView.Rooms)
	assert.Equal(t, 5, seaView.OccupiedRoomNights)

	// group nights reconcile with the overall figure
	assert.Equal(t, got.OccupiedRoomNights, standard.OccupiedRoomNights+seaView.OccupiedRoomNights)
}

// The reconciliation law: summing daily revenue over the period equals the
// period revenue total for Reservation-type payments.
func TestDailyRevenueReconciliation(t *testing.T) {
	rooms := tenRooms()
	payments := []models.Payment{
		reservationPayment(2400, "2025-06-03"),
		reservationPayment(1200, "2025-06-11"),
		reservationPayment(3600, "2025-06-11"),
		reservationPayment(800, "2025-06-29"),
	}

	period := computePeriodOccupancy(day("2025-06-01"), day("2025-06-30"), rooms, nil, payments)

	sum := decimal.Zero
	for _, d := range period.Daily {
		sum = sum.Add(d.Revenue)
	}

	rev := computeRevenue(day("2025-06-01"), day("2025-06-30"), payments, nil, len(rooms))
	assert.True(t, sum.Equal(rev.ByType.Reservation), "daily sum %s vs period %s", sum, rev.ByType.Reservation)
}
