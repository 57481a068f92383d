package entity

import (
	"time"

	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalRejected WithdrawalStatus = "rejected"
)

// Withdrawal is a referral-wallet payout request. The amount is debited from
// the wallet when the request is created; rejection credits it back exactly
// once, in the same transaction that flips the status.
type Withdrawal struct {
	gorm.Model
	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	Amount       int64            `json:"amount"`
	Status       WithdrawalStatus `gorm:"size:20;default:pending" json:"status"`
	RequestedAt  time.Time        `json:"requestedAt"`
	ProcessedAt  *time.Time       `json:"processedAt"`
	TransferNote string           `json:"transferNote"`
}
