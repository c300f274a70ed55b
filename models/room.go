package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	RoomNumber  string          `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Floor       string          `json:"floor" gorm:"type:varchar(10)"`
	Capacity    int             `json:"capacity"`
	NightlyRate decimal.Decimal `json:"nightlyRate" gorm:"column:nightly_rate;type:decimal(10,2)"`

	SeaView bool `json:"seaView" gorm:"column:sea_view"`
	Balcony bool `json:"balcony"`
	AirCon  bool `json:"airCon" gorm:"column:air_con"`

	Status      RoomStatus `json:"status" gorm:"size:32;default:Available"`
	Description string     `json:"description" gorm:"type:text"`
}

// FeatureGroup buckets rooms for the per-type occupancy breakdown. Rooms with
// the same capacity and the same view/balcony flags sell as the same product,
// whatever their room numbers are.
type FeatureGroup struct {
	Capacity int  `json:"capacity"`
	SeaView  bool `json:"seaView"`
	Balcony  bool `json:"balcony"`
}

func (r Room) FeatureGroup() FeatureGroup {
	return FeatureGroup{Capacity: r.Capacity, SeaView: r.SeaView, Balcony: r.Balcony}
}

func (g FeatureGroup) Label() string {
	label := fmt.Sprintf("%d-person", g.Capacity)
	if g.SeaView {
		label += " sea view"
	}
	if g.Balcony {
		label += " balcony"
	}
	return label
}
