package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// ReservationService owns the reservation lifecycle. Every write runs in one
// transaction; the availability scan and the insert/update are never split
// across transactions.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

type CreateReservationInput struct {
	CustomerID            uint            `json:"customer_id" binding:"required"`
	AdditionalCustomerIDs []uint          `json:"additional_customer_ids"`
	RoomID                uint            `json:"room_id" binding:"required"`
	CheckIn               string          `json:"check_in" binding:"required"`
	CheckOut              string          `json:"check_out" binding:"required"`
	Guests                int             `json:"guests"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Note                  string          `json:"note"`
}

// UpdateReservationInput carries optional plan fields. Nil means unchanged.
type UpdateReservationInput struct {
	RoomID      *uint            `json:"room_id"`
	CheckIn     *string          `json:"check_in"`
	CheckOut    *string          `json:"check_out"`
	Guests      *int             `json:"guests"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	PaidAmount  *decimal.Decimal `json:"paid_amount"`
	Note        *string          `json:"note"`
}

// ReservationFilter narrows List. Set fields combine with AND; From/To keep
// reservations whose stay window overlaps [From, To).
type ReservationFilter struct {
	Status     *models.ReservationStatus
	RoomID     *uint
	CustomerID *uint
	From       *time.Time
	To         *time.Time
}

type CalendarEntry struct {
	ID            uint   `json:"id"`
	ReferenceCode string `json:"referenceCode"`
	RoomID        uint   `json:"roomId"`
	RoomNumber    string `json:"roomNumber"`
	CustomerName  string `json:"customerName"`
	CheckIn       string `json:"checkIn"`
	CheckOut      string `json:"checkOut"`
	Nights        int    `json:"nights"`
	Guests        int    `json:"guests"`
	Status        string `json:"status"`
	DisplayStatus string `json:"displayStatus"`
}

func parseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	ci, err := utils.ParseDate(checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, Validation("invalid_check_in", err.Error())
	}
	co, err := utils.ParseDate(checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, Validation("invalid_check_out", err.Error())
	}
	ci, co = utils.DateOnly(ci), utils.DateOnly(co)
	if utils.Nights(ci, co) < 1 {
		return time.Time{}, time.Time{}, Validation("invalid_date_range", "stay must be at least one night")
	}
	return ci, co, nil
}

func newReferenceCode() string {
	return "RSV-" + strings.ToUpper(uuid.NewString()[:8])
}

func marshalCustomerIDs(ids []uint) datatypes.JSON {
	if len(ids) == 0 {
		return nil
	}
	out, err := json.Marshal(ids)
	if err != nil {
		return nil
	}
	return datatypes.JSON(out)
}

// Create books a room. The availability scan and the insert run in one
// transaction with the room row locked, so two concurrent bookings for
// overlapping windows cannot both commit.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	ci, co, err := parseStayDates(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}
	if in.Guests < 1 {
		return nil, Validation("invalid_guest_count", "at least one guest required")
	}
	if in.TotalAmount.IsNegative() {
		return nil, Validation("negative_amount", "total amount cannot be negative")
	}

	var created models.Reservation
	err = withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var customer models.Customer
			if err := tx.First(&customer, in.CustomerID).Error; err != nil {
				return classifyStoreErr(err, "customer_not_found", "customer not found")
			}

			room, available, err := roomAvailableTx(tx, in.RoomID, ci, co, 0)
			if err != nil {
				return err
			}
			if !available {
				return Conflict("room_unavailable", fmt.Sprintf("room %s is booked for part of %s to %s", room.RoomNumber, in.CheckIn, in.CheckOut))
			}
			if in.Guests > room.Capacity {
				return Validation("invalid_guest_count", fmt.Sprintf("room %s sleeps at most %d", room.RoomNumber, room.Capacity))
			}

			created = models.Reservation{
				ReferenceCode:         newReferenceCode(),
				RoomID:                in.RoomID,
				CustomerID:            in.CustomerID,
				AdditionalCustomerIDs: marshalCustomerIDs(in.AdditionalCustomerIDs),
				CheckIn:               ci,
				CheckOut:              co,
				Guests:                in.Guests,
				TotalAmount:           in.TotalAmount,
				PaidAmount:            decimal.Zero,
				Status:                models.ReservationPending,
				Version:               1,
			}
			if strings.TrimSpace(in.Note) != "" {
				created.Notes = models.AppendNote(nil, strings.TrimSpace(in.Note), time.Now().UTC())
			}
			if err := tx.Create(&created).Error; err != nil {
				return classifyStoreErr(err, "reservation_create_failed", "could not create reservation")
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// Update changes plan fields. Date or room changes revalidate availability
// excluding the reservation's own id, under the same lock as the write.
// Plan fields only move while Pending/Confirmed; amounts may also change
// while CheckedIn.
func (s *ReservationService) Update(ctx context.Context, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	err := withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
				return classifyStoreErr(err, "reservation_not_found", "reservation not found")
			}
			if r.Status.Terminal() {
				return Conflict("reservation_closed", "reservation is in a terminal state")
			}

			planChange := in.RoomID != nil || in.CheckIn != nil || in.CheckOut != nil || in.Guests != nil
			if planChange && r.Status == models.ReservationCheckedIn {
				return Conflict("reservation_in_house", "cannot change dates or room after check-in")
			}

			roomID := r.RoomID
			if in.RoomID != nil {
				roomID = *in.RoomID
			}
			ciStr := r.CheckIn.Format(utils.DateLayout)
			coStr := r.CheckOut.Format(utils.DateLayout)
			if in.CheckIn != nil {
				ciStr = *in.CheckIn
			}
			if in.CheckOut != nil {
				coStr = *in.CheckOut
			}
			ci, co, err := parseStayDates(ciStr, coStr)
			if err != nil {
				return err
			}

			guests := r.Guests
			if in.Guests != nil {
				guests = *in.Guests
			}
			if guests < 1 {
				return Validation("invalid_guest_count", "at least one guest required")
			}

			total := r.TotalAmount
			if in.TotalAmount != nil {
				total = *in.TotalAmount
			}
			paid := r.PaidAmount
			if in.PaidAmount != nil {
				paid = *in.PaidAmount
			}
			if total.IsNegative() || paid.IsNegative() {
				return Validation("negative_amount", "amounts cannot be negative")
			}
			if paid.GreaterThan(total) {
				return Validation("paid_exceeds_total", "paid amount cannot exceed total")
			}

			room, available, err := roomAvailableTx(tx, roomID, ci, co, r.ID)
			if err != nil {
				return err
			}
			if !available {
				return Conflict("room_unavailable", fmt.Sprintf("room %s is booked for part of %s to %s", room.RoomNumber, ciStr, coStr))
			}
			if guests > room.Capacity {
				return Validation("invalid_guest_count", fmt.Sprintf("room %s sleeps at most %d", room.RoomNumber, room.Capacity))
			}

			updates := map[string]interface{}{
				"room_id":      roomID,
				"check_in":     ci,
				"check_out":    co,
				"guests":       guests,
				"total_amount": total,
				"paid_amount":  paid,
				"version":      r.Version + 1,
			}
			if in.Note != nil && strings.TrimSpace(*in.Note) != "" {
				updates["notes"] = models.AppendNote(r.Notes, strings.TrimSpace(*in.Note), time.Now().UTC())
			}
			return applyVersioned(tx, &r, updates)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// applyVersioned performs the optimistic write: the row must still carry the
// version we loaded, otherwise a concurrent writer got there first.
func applyVersioned(tx *gorm.DB, r *models.Reservation, updates map[string]interface{}) error {
	res := tx.Model(&models.Reservation{}).
		Where("id = ? AND version = ?", r.ID, r.Version).
		Updates(updates)
	if res.Error != nil {
		return classifyStoreErr(res.Error, "reservation_update_failed", "could not update reservation")
	}
	if res.RowsAffected == 0 {
		return Conflict("concurrent_update", "reservation was modified concurrently, reload and retry")
	}
	return nil
}

// transition validates the move against the closed table, then applies it
// with the optimistic version check. Repeating a transition from a
// non-matching state fails instead of silently succeeding.
func transition(tx *gorm.DB, r *models.Reservation, next models.ReservationStatus, updates map[string]interface{}) error {
	if !r.Status.CanTransitionTo(next) {
		return Conflict("invalid_transition", fmt.Sprintf("cannot move from %s to %s", r.Status, next))
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = next
	updates["version"] = r.Version + 1
	return applyVersioned(tx, r, updates)
}

// ChangeStatus handles patch-status. CheckedIn/CheckedOut route through the
// dedicated operations so the actual timestamps are always recorded.
func (s *ReservationService) ChangeStatus(ctx context.Context, id uint, next models.ReservationStatus, note string) (*models.Reservation, error) {
	if !next.Valid() {
		return nil, Validation("unknown_status", fmt.Sprintf("unknown status %q", next))
	}
	switch next {
	case models.ReservationCheckedIn:
		return s.CheckIn(ctx, id, time.Now().UTC(), note)
	case models.ReservationCheckedOut:
		return s.CheckOut(ctx, id, time.Now().UTC(), note)
	}

	err := withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			if err := tx.First(&r, id).Error; err != nil {
				return classifyStoreErr(err, "reservation_not_found", "reservation not found")
			}
			updates := map[string]interface{}{}
			if strings.TrimSpace(note) != "" {
				updates["notes"] = models.AppendNote(r.Notes, strings.TrimSpace(note), time.Now().UTC())
			}
			return transition(tx, &r, next, updates)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// validateActualCheckIn rejects arrivals before the booked check-in date
// (midnight) and arrivals stamped in the future.
func validateActualCheckIn(r models.Reservation, actual, now time.Time) error {
	if actual.Before(utils.DateOnly(r.CheckIn)) {
		return Validation("checkin_too_early", fmt.Sprintf("cannot check in before %s", r.CheckIn.Format(utils.DateLayout)))
	}
	if actual.After(now) {
		return Validation("checkin_in_future", "actual check-in cannot be in the future")
	}
	return nil
}

// validateActualCheckOut rejects departures before the booked check-in date
// and departures past the end of the check-out day.
func validateActualCheckOut(r models.Reservation, actual time.Time) error {
	if actual.Before(utils.DateOnly(r.CheckIn)) {
		return Validation("checkout_too_early", fmt.Sprintf("cannot check out before %s", r.CheckIn.Format(utils.DateLayout)))
	}
	dayEnd := utils.AddDays(utils.DateOnly(r.CheckOut), 1)
	if !actual.Before(dayEnd) {
		return Validation("checkout_too_late", fmt.Sprintf("check-out must happen by end of %s", r.CheckOut.Format(utils.DateLayout)))
	}
	return nil
}

// CheckIn records the arrival. The actual timestamp may not precede the
// booked check-in date (midnight) and may not lie in the future. The room
// goes to Occupied in the same transaction.
func (s *ReservationService) CheckIn(ctx context.Context, id uint, actual time.Time, note string) (*models.Reservation, error) {
	err := withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			if err := tx.First(&r, id).Error; err != nil {
				return classifyStoreErr(err, "reservation_not_found", "reservation not found")
			}
			now := time.Now().UTC()
			actual = actual.UTC()
			if err := validateActualCheckIn(r, actual, now); err != nil {
				return err
			}

			updates := map[string]interface{}{"actual_check_in": actual}
			if strings.TrimSpace(note) != "" {
				updates["notes"] = models.AppendNote(r.Notes, strings.TrimSpace(note), now)
			}
			if err := transition(tx, &r, models.ReservationCheckedIn, updates); err != nil {
				return err
			}
			return setRoomStatus(tx, r.RoomID, models.RoomOccupied)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// CheckOut records the departure. The actual timestamp may not precede the
// booked check-in date and may not pass the check-out day's end. Housekeeping
// gets the room: its status goes to Cleaning in the same transaction.
func (s *ReservationService) CheckOut(ctx context.Context, id uint, actual time.Time, note string) (*models.Reservation, error) {
	err := withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			if err := tx.First(&r, id).Error; err != nil {
				return classifyStoreErr(err, "reservation_not_found", "reservation not found")
			}
			actual = actual.UTC()
			if err := validateActualCheckOut(r, actual); err != nil {
				return err
			}

			updates := map[string]interface{}{"actual_check_out": actual}
			if strings.TrimSpace(note) != "" {
				updates["notes"] = models.AppendNote(r.Notes, strings.TrimSpace(note), time.Now().UTC())
			}
			if err := transition(tx, &r, models.ReservationCheckedOut, updates); err != nil {
				return err
			}
			return setRoomStatus(tx, r.RoomID, models.RoomCleaning)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func setRoomStatus(tx *gorm.DB, roomID uint, status models.RoomStatus) error {
	err := tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("status", status).Error
	return classifyStoreErr(err, "room_not_found", "room not found")
}

// Delete removes a reservation. An active reservation holding paid money is
// refused so no paid amount is orphaned; a checked-in one releases its room
// to Available inside the same transaction.
func (s *ReservationService) Delete(ctx context.Context, id uint) error {
	return withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var r models.Reservation
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
				return classifyStoreErr(err, "reservation_not_found", "reservation not found")
			}
			if r.Status.Active() && r.PaidAmount.IsPositive() {
				return Conflict("reservation_has_payments", "cancel or refund the reservation before deleting it")
			}
			if r.Status == models.ReservationCheckedIn {
				if err := setRoomStatus(tx, r.RoomID, models.RoomAvailable); err != nil {
					return err
				}
			}
			if err := tx.Delete(&r).Error; err != nil {
				return classifyStoreErr(err, "reservation_delete_failed", "could not delete reservation")
			}
			return nil
		})
	})
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	err := withRetry(func() error {
		return classifyStoreErr(
			s.DB.WithContext(ctx).Preload("Room").Preload("Customer").First(&r, id).Error,
			"reservation_not_found", "reservation not found")
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReservationService) List(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	var list []models.Reservation
	err := withRetry(func() error {
		q := s.DB.WithContext(ctx).Preload("Room").Preload("Customer").Order("check_in ASC")
		if f.Status != nil {
			q = q.Where("status = ?", *f.Status)
		}
		if f.RoomID != nil {
			q = q.Where("room_id = ?", *f.RoomID)
		}
		if f.CustomerID != nil {
			q = q.Where("customer_id = ?", *f.CustomerID)
		}
		if f.From != nil && f.To != nil {
			q = q.Where("check_in < ? AND check_out > ?", *f.To, *f.From)
		}
		return classifyStoreErr(q.Find(&list).Error, "reservation_scan_failed", "could not list reservations")
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Calendar returns every reservation overlapping [start, end] with its
// display label, for the booking board.
func (s *ReservationService) Calendar(ctx context.Context, start, end time.Time) ([]CalendarEntry, error) {
	if start.After(end) {
		return nil, Validation("invalid_date_range", "start must not be after end")
	}
	windowEnd := utils.AddDays(utils.DateOnly(end), 1)

	var list []models.Reservation
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).
			Preload("Room").Preload("Customer").
			Where("check_in < ? AND check_out > ?", windowEnd, utils.DateOnly(start)).
			Order("check_in ASC").
			Find(&list).Error,
			"reservation_scan_failed", "could not load calendar")
	})
	if err != nil {
		return nil, err
	}

	entries := make([]CalendarEntry, 0, len(list))
	for _, r := range list {
		entries = append(entries, CalendarEntry{
			ID:            r.ID,
			ReferenceCode: r.ReferenceCode,
			RoomID:        r.RoomID,
			RoomNumber:    r.Room.RoomNumber,
			CustomerName:  r.Customer.FullName,
			CheckIn:       r.CheckIn.Format(utils.DateLayout),
			CheckOut:      r.CheckOut.Format(utils.DateLayout),
			Nights:        r.Nights(),
			Guests:        r.Guests,
			Status:        string(r.Status),
			DisplayStatus: r.Status.DisplayLabel(),
		})
	}
	return entries, nil
}

// MarkNoShows flips Pending/Confirmed reservations whose check-in date has
// passed to NoShow. Run by the nightly sweeper; returns how many moved.
func (s *ReservationService) MarkNoShows(ctx context.Context, now time.Time) (int, error) {
	cutoff := utils.DateOnly(now)
	var stale []models.Reservation
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).
			Where("status IN ? AND check_in < ?",
				[]models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}, cutoff).
			Find(&stale).Error,
			"reservation_scan_failed", "could not scan for no-shows")
	})
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range stale {
		r := stale[i]
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			updates := map[string]interface{}{
				"notes": models.AppendNote(r.Notes, "auto-marked no-show", now.UTC()),
			}
			return transition(tx, &r, models.ReservationNoShow, updates)
		})
		if err != nil {
			// a concurrent check-in beat us to this row; leave it alone
			if KindOf(err) == KindConflict {
				continue
			}
			return marked, err
		}
		marked++
	}
	return marked, nil
}
