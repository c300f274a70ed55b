package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"guesthouse-backend/models"
)

// RoomService is the room store surface. Outside of lifecycle side effects
// the only field the booking core mutates is Status, shared with
// housekeeping.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func validateRoom(room *models.Room) error {
	if room.RoomNumber == "" {
		return Validation("missing_room_number", "room number is required")
	}
	if room.Capacity < 1 {
		return Validation("invalid_capacity", "capacity must be at least 1")
	}
	if room.NightlyRate.IsNegative() {
		return Validation("negative_amount", "nightly rate cannot be negative")
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		return Validation("unknown_room_status", fmt.Sprintf("unknown room status %q", room.Status))
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, room models.Room) (*models.Room, error) {
	if err := validateRoom(&room); err != nil {
		return nil, err
	}
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).Create(&room).Error,
			"room_create_failed", "could not create room")
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) GetAll(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error,
			"room_scan_failed", "could not list rooms")
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := withRetry(func() error {
		return classifyStoreErr(s.DB.WithContext(ctx).First(&room, id).Error,
			"room_not_found", "room not found")
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Update(ctx context.Context, room models.Room) (*models.Room, error) {
	if err := validateRoom(&room); err != nil {
		return nil, err
	}
	err := withRetry(func() error {
		res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", room.ID).Updates(room)
		if res.Error != nil {
			return classifyStoreErr(res.Error, "room_update_failed", "could not update room")
		}
		if res.RowsAffected == 0 {
			return NotFound("room_not_found", "room not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, room.ID)
}

// SetStatus is the housekeeping entry point (Cleaning done, Maintenance, ...).
func (s *RoomService) SetStatus(ctx context.Context, id uint, status models.RoomStatus) (*models.Room, error) {
	if !status.Valid() {
		return nil, Validation("unknown_room_status", fmt.Sprintf("unknown room status %q", status))
	}
	err := withRetry(func() error {
		res := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("status", status)
		if res.Error != nil {
			return classifyStoreErr(res.Error, "room_update_failed", "could not update room status")
		}
		if res.RowsAffected == 0 {
			return NotFound("room_not_found", "room not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete refuses while any active reservation still points at the room.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return withRetry(func() error {
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var active int64
			if err := tx.Model(&models.Reservation{}).
				Where("room_id = ? AND status IN ?", id, models.ActiveReservationStatuses()).
				Count(&active).Error; err != nil {
				return classifyStoreErr(err, "reservation_scan_failed", "could not check reservations")
			}
			if active > 0 {
				return Conflict("room_in_use", "room still has active reservations")
			}
			res := tx.Delete(&models.Room{}, id)
			if res.Error != nil {
				return classifyStoreErr(res.Error, "room_delete_failed", "could not delete room")
			}
			if res.RowsAffected == 0 {
				return NotFound("room_not_found", "room not found")
			}
			return nil
		})
	})
}
