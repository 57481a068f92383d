package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	OrderID uint  `gorm:"index" json:"orderId"`
	DayID   *uint `gorm:"index" json:"dayId"` // set for freshplan day items

	ProductID uint            `json:"productId"`
	Name      string          `json:"name"` // snapshot at checkout
	Category  ProductCategory `gorm:"size:20" json:"category"`
	Qty       int             `json:"qty"`
	UnitPrice int64           `json:"unitPrice"`
	Total     int64           `json:"total"`

	TimeSlotCode  string        `gorm:"size:20" json:"timeSlotCode"`
	Customization Customization `gorm:"serializer:json" json:"customization"`
}
