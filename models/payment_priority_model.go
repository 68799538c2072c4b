package models

import "github.com/google/uuid"

// PaymentPriority is the order in which incoming fee payments are applied.
// Priority numbers are not required to be unique or contiguous.
type PaymentPriority struct {
	Base
	PriorityOrder []PaymentPriorityItem `gorm:"foreignkey:PaymentPriorityID" json:"priority_order"`
}

type PaymentPriorityItem struct {
	Base
	PaymentPriorityID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	FeeName           string    `gorm:"size:100;not null" json:"fee_name"`
	PriorityNumber    int       `gorm:"not null" json:"priority_number"`
}
