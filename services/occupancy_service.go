package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// OccupancyService derives room-night metrics. Reads only; reports are
// advisory, so plain snapshot reads are fine while bookings run.
type OccupancyService struct {
	DB *gorm.DB
}

func NewOccupancyService(db *gorm.DB) *OccupancyService {
	return &OccupancyService{DB: db}
}

type DailyOccupancy struct {
	Date          string          `json:"date"`
	OccupiedRooms int             `json:"occupiedRooms"`
	TotalRooms    int             `json:"totalRooms"`
	Rate          float64         `json:"rate"`
	Revenue       decimal.Decimal `json:"revenue"`
	AvgRoomRate   decimal.Decimal `json:"avgRoomRate"`
}

type GroupOccupancy struct {
	models.FeatureGroup
	Label              string  `json:"label"`
	Rooms              int     `json:"rooms"`
	OccupiedRoomNights int     `json:"occupiedRoomNights"`
	TotalRoomNights    int     `json:"totalRoomNights"`
	Rate               float64 `json:"rate"`
}

type PeriodOccupancy struct {
	Start              string           `json:"start"`
	End                string           `json:"end"`
	OccupiedRoomNights int              `json:"occupiedRoomNights"`
	TotalRoomNights    int              `json:"totalRoomNights"`
	Rate               float64          `json:"rate"`
	Daily              []DailyOccupancy `json:"dailyBreakdown"`
	Groups             []GroupOccupancy `json:"roomTypeBreakdown"`
}

// countsTowardOccupancy keeps reservations where guests actually stayed.
func countsTowardOccupancy(s models.ReservationStatus) bool {
	return s == models.ReservationCheckedIn || s == models.ReservationCheckedOut
}

func occupancyRate(occupied, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(occupied) / float64(total) * 100
}

// computeDailyOccupancy is the pure core: it only looks at the slices it is
// given. payments may contain anything; only Completed Reservation-type rows
// inside the day count.
func computeDailyOccupancy(day time.Time, rooms []models.Room, stays []models.Reservation, payments []models.Payment) DailyOccupancy {
	day = utils.DateOnly(day)
	dayEnd := utils.AddDays(day, 1)

	occupiedRooms := map[uint]bool{}
	for _, r := range stays {
		if !countsTowardOccupancy(r.Status) {
			continue
		}
		if utils.Overlaps(r.CheckIn, r.CheckOut, day, dayEnd) {
			occupiedRooms[r.RoomID] = true
		}
	}

	revenue := decimal.Zero
	for _, p := range payments {
		if p.Status != models.PaymentCompleted || p.Type != models.PaymentReservation {
			continue
		}
		if !p.PaidAt.Before(day) && p.PaidAt.Before(dayEnd) {
			revenue = revenue.Add(p.Amount)
		}
	}

	occupied := len(occupiedRooms)
	avgRate := decimal.Zero
	if occupied > 0 {
		avgRate = revenue.DivRound(decimal.NewFromInt(int64(occupied)), 2)
	}

	return DailyOccupancy{
		Date:          day.Format(utils.DateLayout),
		OccupiedRooms: occupied,
		TotalRooms:    len(rooms),
		Rate:          occupancyRate(occupied, len(rooms)),
		Revenue:       revenue,
		AvgRoomRate:   avgRate,
	}
}

// occupiedNightsInWindow clips each qualifying stay to [start, windowEnd) and
// sums whole nights. roomFilter limits the sum to one feature group; nil
// means all rooms.
func occupiedNightsInWindow(stays []models.Reservation, start, windowEnd time.Time, roomFilter map[uint]bool) int {
	nights := 0
	for _, r := range stays {
		if !countsTowardOccupancy(r.Status) {
			continue
		}
		if roomFilter != nil && !roomFilter[r.RoomID] {
			continue
		}
		cs, ce, ok := utils.Clip(r.CheckIn, r.CheckOut, start, windowEnd)
		if !ok {
			continue
		}
		nights += utils.Nights(cs, ce)
	}
	return nights
}

// computePeriodOccupancy aggregates [start, end] (inclusive dates).
func computePeriodOccupancy(start, end time.Time, rooms []models.Room, stays []models.Reservation, payments []models.Payment) PeriodOccupancy {
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	windowEnd := utils.AddDays(end, 1)
	days := utils.DaysInRange(start, end)

	totalNights := len(rooms) * days
	occupiedNights := occupiedNightsInWindow(stays, start, windowEnd, nil)

	out := PeriodOccupancy{
		Start:              start.Format(utils.DateLayout),
		End:                end.Format(utils.DateLayout),
		OccupiedRoomNights: occupiedNights,
		TotalRoomNights:    totalNights,
		Rate:               occupancyRate(occupiedNights, totalNights),
	}

	utils.EachDay(start, end, func(day time.Time) {
		out.Daily = append(out.Daily, computeDailyOccupancy(day, rooms, stays, payments))
	})

	// group rooms by feature tuple, keeping first-seen order stable
	groupRooms := map[models.FeatureGroup][]uint{}
	var order []models.FeatureGroup
	for _, room := range rooms {
		g := room.FeatureGroup()
		if _, seen := groupRooms[g]; !seen {
			order = append(order, g)
		}
		groupRooms[g] = append(groupRooms[g], room.ID)
	}
	for _, g := range order {
		ids := groupRooms[g]
		filter := make(map[uint]bool, len(ids))
		for _, id := range ids {
			filter[id] = true
		}
		groupTotal := len(ids) * days
		groupOccupied := occupiedNightsInWindow(stays, start, windowEnd, filter)
		out.Groups = append(out.Groups, GroupOccupancy{
			FeatureGroup:       g,
			Label:              g.Label(),
			Rooms:              len(ids),
			OccupiedRoomNights: groupOccupied,
			TotalRoomNights:    groupTotal,
			Rate:               occupancyRate(groupOccupied, groupTotal),
		})
	}

	return out
}

func (s *OccupancyService) loadWindow(ctx context.Context, start, windowEnd time.Time) ([]models.Room, []models.Reservation, []models.Payment, error) {
	var rooms []models.Room
	var stays []models.Reservation
	var payments []models.Payment
	err := withRetry(func() error {
		if err := s.DB.WithContext(ctx).Find(&rooms).Error; err != nil {
			return classifyStoreErr(err, "room_scan_failed", "could not list rooms")
		}
		if err := s.DB.WithContext(ctx).
			Where("status IN ? AND check_in < ? AND check_out > ?",
				[]models.ReservationStatus{models.ReservationCheckedIn, models.ReservationCheckedOut},
				windowEnd, start).
			Find(&stays).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not scan reservations")
		}
		if err := s.DB.WithContext(ctx).
			Where("status = ? AND type = ? AND paid_at >= ? AND paid_at < ?",
				models.PaymentCompleted, models.PaymentReservation, start, windowEnd).
			Find(&payments).Error; err != nil {
			return classifyStoreErr(err, "payment_scan_failed", "could not scan payments")
		}
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return rooms, stays, payments, nil
}

func (s *OccupancyService) Daily(ctx context.Context, date time.Time) (DailyOccupancy, error) {
	day := utils.DateOnly(date)
	rooms, stays, payments, err := s.loadWindow(ctx, day, utils.AddDays(day, 1))
	if err != nil {
		return DailyOccupancy{}, err
	}
	return computeDailyOccupancy(day, rooms, stays, payments), nil
}

func (s *OccupancyService) Period(ctx context.Context, start, end time.Time) (PeriodOccupancy, error) {
	if start.After(end) {
		return PeriodOccupancy{}, Validation("invalid_date_range", "start must not be after end")
	}
	start, end = utils.DateOnly(start), utils.DateOnly(end)
	rooms, stays, payments, err := s.loadWindow(ctx, start, utils.AddDays(end, 1))
	if err != nil {
		return PeriodOccupancy{}, err
	}
	return computePeriodOccupancy(start, end, rooms, stays, payments), nil
}
