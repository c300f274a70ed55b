package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment rows are written by the POS/payment collaborator; this core only
// reads them for revenue aggregation. Amount is signed: negative = refund.
// A Completed payment is immutable except for the move to Refunded/Cancelled.
type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReservationID *uint `gorm:"index;column:reservation_id" json:"reservationId,omitempty"`
	SaleID        *uint `gorm:"index;column:sale_id" json:"saleId,omitempty"`
	CustomerID    uint  `gorm:"index;column:customer_id" json:"customerId"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Method PaymentMethod   `gorm:"size:32" json:"method"`
	Type   PaymentType     `gorm:"size:32" json:"type"`
	Status PaymentStatus   `gorm:"size:32;index" json:"status"`

	PaidAt time.Time `gorm:"column:paid_at;index" json:"paidAt"`
}
