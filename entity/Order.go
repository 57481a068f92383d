package entity

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	OrderNo   string      `gorm:"uniqueIndex;size:40" json:"orderNo"`
	OrderType OrderType   `gorm:"size:20" json:"orderType"`
	Status    OrderStatus `gorm:"size:20;default:pending" json:"status"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	// customer snapshot, immutable after checkout
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	AddressNote  string  `json:"addressNote"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`

	Subtotal         int64 `json:"subtotal"`
	WalletDiscount   int64 `json:"walletDiscount"`
	DeliveryCharge   int64 `json:"deliveryCharge"`
	CalculatedCharge int64 `json:"calculatedCharge"` // tier charge before free-delivery waiver
	TotalAmount      int64 `json:"totalAmount"`

	// quicksip only: delivery date + slot, and the unit status block
	DeliveryDate *time.Time `json:"deliveryDate"`
	TimeSlotCode string     `gorm:"size:20" json:"timeSlotCode"`
	Fulfillment  `json:"fulfillment"`

	// freshplan only
	PlanID *uint     `json:"planId"`
	Days   []PlanDay `gorm:"foreignKey:OrderID" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
}
