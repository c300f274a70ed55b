package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"
)

// AvailabilityService answers "is this room free for this window". The
// read-only entry points are advisory; the booking write path must call
// roomAvailableTx under the same locked transaction that inserts the
// reservation, never as a separate prior step.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// findConflict scans already-loaded reservations for one whose active window
// overlaps [checkIn, checkOut). excludeID skips the reservation's own row on
// update revalidation.
func findConflict(existing []models.Reservation, checkIn, checkOut time.Time, excludeID uint) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.ID == excludeID {
			continue
		}
		if !r.Status.Active() {
			continue
		}
		if utils.Overlaps(r.CheckIn, r.CheckOut, checkIn, checkOut) {
			return r
		}
	}
	return nil
}

// activeReservationsForRoom loads the room's reservations that count toward
// conflicts. When tx runs inside a locked transaction the rows are read under
// that lock.
func activeReservationsForRoom(tx *gorm.DB, roomID uint) ([]models.Reservation, error) {
	var existing []models.Reservation
	err := tx.
		Where("room_id = ? AND status IN ?", roomID, models.ActiveReservationStatuses()).
		Find(&existing).Error
	if err != nil {
		return nil, classifyStoreErr(err, "reservation_scan_failed", "could not scan reservations")
	}
	return existing, nil
}

// roomAvailableTx is the authoritative check. It locks the room row
// (SELECT ... FOR UPDATE) so concurrent bookings on the same room serialize,
// then scans for overlaps under that lock. The locked room is returned so
// the caller can validate capacity and mutate its status in the same
// transaction.
func roomAvailableTx(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (models.Room, bool, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
		return room, false, classifyStoreErr(err, "room_not_found", "room not found")
	}
	existing, err := activeReservationsForRoom(tx, roomID)
	if err != nil {
		return room, false, err
	}
	return room, findConflict(existing, checkIn, checkOut, excludeID) == nil, nil
}

// RoomAvailable is the advisory, read-only variant for UI pre-checks. The
// create/update paths never trust it; they re-check inside the transaction.
func (s *AvailabilityService) RoomAvailable(ctx context.Context, roomID uint, checkIn, checkOut time.Time, excludeID uint) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, Validation("invalid_date_range", "check-in must be before check-out")
	}
	var available bool
	err := withRetry(func() error {
		var room models.Room
		if err := s.DB.WithContext(ctx).First(&room, roomID).Error; err != nil {
			return classifyStoreErr(err, "room_not_found", "room not found")
		}
		existing, err := activeReservationsForRoom(s.DB.WithContext(ctx), roomID)
		if err != nil {
			return err
		}
		available = findConflict(existing, checkIn, checkOut, excludeID) == nil
		return nil
	})
	return available, err
}

// AvailableRooms returns every room with no active reservation overlapping
// the window, for the get-availability operation.
func (s *AvailabilityService) AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]models.Room, error) {
	if !checkIn.Before(checkOut) {
		return nil, Validation("invalid_date_range", "check-in must be before check-out")
	}

	var rooms []models.Room
	err := withRetry(func() error {
		rooms = rooms[:0]
		var all []models.Room
		if err := s.DB.WithContext(ctx).Order("room_number ASC").Find(&all).Error; err != nil {
			return classifyStoreErr(err, "room_scan_failed", "could not list rooms")
		}

		var overlapping []models.Reservation
		if err := s.DB.WithContext(ctx).
			Where("status IN ? AND check_in < ? AND check_out > ?",
				models.ActiveReservationStatuses(), checkOut, checkIn).
			Find(&overlapping).Error; err != nil {
			return classifyStoreErr(err, "reservation_scan_failed", "could not scan reservations")
		}

		taken := make(map[uint]bool, len(overlapping))
		for _, r := range overlapping {
			taken[r.RoomID] = true
		}
		for _, room := range all {
			if !taken[room.ID] {
				rooms = append(rooms, room)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
