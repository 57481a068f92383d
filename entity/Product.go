package entity

import (
	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryJuice ProductCategory = "juice"
	CategoryShake ProductCategory = "shake"
)

type Product struct {
	gorm.Model
	Name     string          `gorm:"size:120" json:"name"`
	Category ProductCategory `gorm:"size:20" json:"category"`
	Price    int64           `json:"price"`
	Active   bool            `gorm:"default:true" json:"active"`
}
