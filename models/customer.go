package models

import (
	"gorm.io/gorm"
)

// Customer profiles are owned by an external collaborator; this core only
// needs existence checks plus enough fields to label a reservation.
type Customer struct {
	gorm.Model

	FullName string `json:"fullName"`
	Email    string `json:"email" gorm:"size:255;index"`
	Phone    string `json:"phone" gorm:"size:50"`
}
