package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense feeds net-profit aggregation only. Only status=Paid rows count,
// dated by PaymentDate.
type Expense struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Category string          `gorm:"size:100;index" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Status   ExpenseStatus   `gorm:"size:32;index" json:"status"`

	DueDate     *time.Time `gorm:"column:due_date" json:"dueDate,omitempty"`
	PaymentDate *time.Time `gorm:"column:payment_date;index" json:"paymentDate,omitempty"`

	Description string `gorm:"size:255" json:"description"`
}
