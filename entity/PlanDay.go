package entity

import (
	"time"

	"gorm.io/gorm"
)

// PlanDay is one delivery day inside a freshplan order. Each day is its own
// fulfillment unit with independent kitchen and courier status.
type PlanDay struct {
	gorm.Model
	OrderID uint      `gorm:"index" json:"orderId"`
	PlanID  uint      `gorm:"index" json:"planId"`
	Date    time.Time `gorm:"index" json:"date"` // midnight UTC

	// all items of a day share this slot; enforced by the schedule guard
	TimeSlotCode string `gorm:"size:20" json:"timeSlotCode"`

	Fulfillment `json:"fulfillment"`

	Items []OrderItem `gorm:"foreignKey:DayID" json:"items"`
}
