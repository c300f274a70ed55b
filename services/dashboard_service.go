package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// DashboardService composes snapshots out of the aggregators. Pure read
// composition: it never mutates anything.
type DashboardService struct {
	DB        *gorm.DB
	Occupancy *OccupancyService
	Revenue   *RevenueService
}

func NewDashboardService(db *gorm.DB, occ *OccupancyService, rev *RevenueService) *DashboardService {
	return &DashboardService{DB: db, Occupancy: occ, Revenue: rev}
}

type UpcomingReservation struct {
	ID            uint   `json:"id"`
	ReferenceCode string `json:"referenceCode"`
	RoomNumber    string `json:"roomNumber"`
	CustomerName  string `json:"customerName"`
	CheckIn       string `json:"checkIn"`
	CheckOut      string `json:"checkOut"`
	Guests        int    `json:"guests"`
	DisplayStatus string `json:"displayStatus"`
}

type Dashboard struct {
	Date string `json:"date"`

	TodayRevenue decimal.Decimal `json:"todayRevenue"`
	MonthRevenue decimal.Decimal `json:"monthRevenue"`
	YearRevenue  decimal.Decimal `json:"yearRevenue"`

	TodayOccupancyRate float64 `json:"todayOccupancyRate"`
	MonthOccupancyRate float64 `json:"monthOccupancyRate"`

	CheckInsDue  int `json:"checkInsDue"`
	CheckOutsDue int `json:"checkOutsDue"`

	AvailableRooms int `json:"availableRooms"`
	TotalRooms     int `json:"totalRooms"`

	Upcoming []UpcomingReservation `json:"upcomingReservations"`
}

type MonthlyReport struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Occupancy PeriodOccupancy `json:"occupancy"`
	Revenue   RevenueReport   `json:"revenue"`
	// growth vs the previous calendar month's revenue total
	RevenueGrowthPct float64 `json:"revenueGrowthPct"`
}

type YearlyReport struct {
	Year             int             `json:"year"`
	Occupancy        PeriodOccupancy `json:"occupancy"`
	Revenue          RevenueReport   `json:"revenue"`
	RevenueGrowthPct float64         `json:"revenueGrowthPct"`
	// per-month revenue totals, index 0 = January
	MonthlyTotals []decimal.Decimal `json:"monthlyTotals"`
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := utils.AddDays(start.AddDate(0, 1, 0), -1)
	return start, end
}

func yearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

// Snapshot builds the landing-page dashboard for "now".
func (s *DashboardService) Snapshot(ctx context.Context, now time.Time) (Dashboard, error) {
	today := utils.DateOnly(now)
	monthStart, monthEnd := monthBounds(today.Year(), today.Month())
	yearStart, yearEnd := yearBounds(today.Year())

	out := Dashboard{Date: today.Format(utils.DateLayout)}

	todayRev, err := s.Revenue.Daily(ctx, today)
	if err != nil {
		return out, err
	}
	monthRev, err := s.Revenue.Period(ctx, monthStart, monthEnd)
	if err != nil {
		return out, err
	}
	yearRev, err := s.Revenue.Period(ctx, yearStart, yearEnd)
	if err != nil {
		return out, err
	}
	out.TodayRevenue = todayRev.Total
	out.MonthRevenue = monthRev.Total
	out.YearRevenue = yearRev.Total

	todayOcc, err := s.Occupancy.Daily(ctx, today)
	if err != nil {
		return out, err
	}
	monthOcc, err := s.Occupancy.Period(ctx, monthStart, monthEnd)
	if err != nil {
		return out, err
	}
	out.TodayOccupancyRate = todayOcc.Rate
	out.MonthOccupancyRate = monthOcc.Rate
	out.TotalRooms = todayOcc.TotalRooms

	err = withRetry(func() error {
		var checkIns int64
		if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
			Where("status IN ? AND check_in = ?",
				[]models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}, today).
			Count(&checkIns).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not count due check-ins")
		}
		out.CheckInsDue = int(checkIns)

		var checkOuts int64
		if err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
			Where("status = ? AND check_out = ?", models.ReservationCheckedIn, today).
			Count(&checkOuts).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not count due check-outs")
		}
		out.CheckOutsDue = int(checkOuts)

		// rooms not covered by an active reservation right now
		var occupiedNow []models.Reservation
		if err := s.DB.WithContext(ctx).
			Where("status IN ? AND check_in <= ? AND check_out > ?",
				models.ActiveReservationStatuses(), today, today).
			Find(&occupiedNow).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not scan current stays")
		}
		covered := map[uint]bool{}
		for _, r := range occupiedNow {
			covered[r.RoomID] = true
		}
		out.AvailableRooms = out.TotalRooms - len(covered)

		var upcoming []models.Reservation
		if err := s.DB.WithContext(ctx).
			Preload("Room").Preload("Customer").
			Where("status IN ? AND check_in > ? AND check_in <= ?",
				[]models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed},
				today, utils.AddDays(today, 7)).
			Order("check_in ASC").
			Limit(5).
			Find(&upcoming).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not load upcoming reservations")
		}
		out.Upcoming = make([]UpcomingReservation, 0, len(upcoming))
		for _, r := range upcoming {
			out.Upcoming = append(out.Upcoming, UpcomingReservation{
				ID:            r.ID,
				ReferenceCode: r.ReferenceCode,
				RoomNumber:    r.Room.RoomNumber,
				CustomerName:  r.Customer.FullName,
				CheckIn:       r.CheckIn.Format(utils.DateLayout),
				CheckOut:      r.CheckOut.Format(utils.DateLayout),
				Guests:        r.Guests,
				DisplayStatus: r.Status.DisplayLabel(),
			})
		}
		return nil
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func (s *DashboardService) Monthly(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	start, end := monthBounds(year, month)
	prevStart, prevEnd := monthBounds(utils.AddDays(start, -1).Year(), utils.AddDays(start, -1).Month())

	occ, err := s.Occupancy.Period(ctx, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	rev, err := s.Revenue.Period(ctx, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}
	prevRev, err := s.Revenue.Period(ctx, prevStart, prevEnd)
	if err != nil {
		return MonthlyReport{}, err
	}

	return MonthlyReport{
		Year:             year,
		Month:            int(month),
		Occupancy:        occ,
		Revenue:          rev,
		RevenueGrowthPct: GrowthRate(rev.Total, prevRev.Total),
	}, nil
}

func (s *DashboardService) Yearly(ctx context.Context, year int) (YearlyReport, error) {
	start, end := yearBounds(year)

	occ, err := s.Occupancy.Period(ctx, start, end)
	if err != nil {
		return YearlyReport{}, err
	}
	rev, err := s.Revenue.Period(ctx, start, end)
	if err != nil {
		return YearlyReport{}, err
	}
	prevStart, prevEnd := yearBounds(year - 1)
	prevRev, err := s.Revenue.Period(ctx, prevStart, prevEnd)
	if err != nil {
		return YearlyReport{}, err
	}

	report := YearlyReport{
		Year:             year,
		Occupancy:        occ,
		Revenue:          rev,
		RevenueGrowthPct: GrowthRate(rev.Total, prevRev.Total),
		MonthlyTotals:    make([]decimal.Decimal, 12),
	}
	for m := time.January; m <= time.December; m++ {
		ms, me := monthBounds(year, m)
		monthRev, err := s.Revenue.Period(ctx, ms, me)
		if err != nil {
			return report, err
		}
		report.MonthlyTotals[int(m)-1] = monthRev.Total
	}
	return report, nil
}
