package entity

import (
	"time"

	"gorm.io/gorm"
)

// FreshPlan is the subscription aggregate. Payment completion materializes
// it into an Order with one PlanDay per date.
type FreshPlan struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	Days      int       `json:"days"` // 3..30
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `gorm:"index" json:"endDate"` // StartDate + Days - 1

	// customer snapshot, copied onto the order at checkout
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	AddressNote  string  `json:"addressNote"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`

	PaymentComplete        bool  `gorm:"default:false" json:"paymentComplete"`
	IsCompletePlanCheckout bool  `gorm:"default:false" json:"isCompletePlanCheckout"`
	OrderID                *uint `json:"orderId"`

	Schedule []PlanScheduleDraft `gorm:"foreignKey:PlanID" json:"schedule"`
}

// PlanScheduleDraft is a pre-checkout day draft. It carries no status; the
// PlanDay created from it at checkout does.
type PlanScheduleDraft struct {
	gorm.Model
	PlanID       uint      `gorm:"index" json:"planId"`
	Date         time.Time `json:"date"`
	TimeSlotCode string    `gorm:"size:20" json:"timeSlotCode"`

	Items []PlanDraftItem `gorm:"foreignKey:DraftID" json:"items"`
}

type PlanDraftItem struct {
	gorm.Model
	DraftID       uint          `gorm:"index" json:"draftId"`
	ProductID     uint          `json:"productId"`
	Qty           int           `json:"qty"`
	Customization Customization `gorm:"serializer:json" json:"customization"`
}
