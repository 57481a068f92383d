package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;size:120" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"size:20;default:customer" json:"role"`

	// referral wallet balance, integer currency units, never negative
	ReferralWallet int64  `json:"referralWallet"`
	ReferralCode   string `gorm:"uniqueIndex;size:40" json:"referralCode"`

	Orders      []Order      `json:"-"`
	Plans       []FreshPlan  `json:"-"`
	Withdrawals []Withdrawal `json:"-"`
}
