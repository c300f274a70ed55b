package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Reservation struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`

	RoomID     uint `gorm:"index;column:room_id" json:"roomId"`
	CustomerID uint `gorm:"index;column:customer_id" json:"customerId"`

	// Extra guests on the same stay, kept as a list of customer ids.
	AdditionalCustomerIDs datatypes.JSON `gorm:"column:additional_customer_ids" json:"additionalCustomerIds,omitempty"`

	// Stay dates are date-only, normalized to midnight UTC. The window is
	// half-open [CheckIn, CheckOut): back-to-back stays never conflict.
	CheckIn  time.Time `gorm:"column:check_in;index" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out;index" json:"checkOut"`

	Guests int `gorm:"column:guests;default:1" json:"guests"`

	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2)" json:"totalAmount"`
	PaidAmount  decimal.Decimal `gorm:"column:paid_amount;type:decimal(10,2)" json:"paidAmount"`

	Status ReservationStatus `gorm:"size:32;index" json:"status"`

	// Set exactly once, by the matching transition.
	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actualCheckIn,omitempty"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actualCheckOut,omitempty"`

	// Append-only note log, JSON array of {at, text}.
	Notes datatypes.JSON `gorm:"column:notes" json:"notes,omitempty"`

	// Optimistic concurrency token for status transitions.
	Version int `gorm:"column:version;default:1" json:"version"`

	Room     Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// Nights is the whole-day stay length; always >= 1 for a valid reservation.
func (r Reservation) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

type ReservationNote struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// AppendNote returns the notes column with one entry added. Existing entries
// are never rewritten; a corrupt column starts a fresh log.
func AppendNote(raw datatypes.JSON, text string, at time.Time) datatypes.JSON {
	var notes []ReservationNote
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &notes)
	}
	notes = append(notes, ReservationNote{At: at, Text: text})
	out, err := json.Marshal(notes)
	if err != nil {
		return raw
	}
	return datatypes.JSON(out)
}
