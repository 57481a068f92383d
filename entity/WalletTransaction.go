package entity

import (
	"gorm.io/gorm"
)

type WalletTxnKind string

const (
	WalletTxnReferralCredit WalletTxnKind = "referral_credit"
	WalletTxnOrderDebit     WalletTxnKind = "order_debit"     // wallet used as checkout discount
	WalletTxnCancelReversal WalletTxnKind = "cancel_reversal" // order_debit reversed on unit cancel
	WalletTxnWithdrawDebit  WalletTxnKind = "withdraw_debit"
	WalletTxnRejectRefund   WalletTxnKind = "reject_refund"
)

// WalletTransaction is the referral-wallet ledger. Reversal rows reference
// the unit they compensate, which is what makes the cancellation coordinator
// idempotent: one reversal per unit, probed before insert.
type WalletTransaction struct {
	gorm.Model
	UserID uint          `gorm:"index" json:"userId"`
	Kind   WalletTxnKind `gorm:"size:30;index" json:"kind"`
	Amount int64         `json:"amount"` // positive credit, negative debit

	OrderID      *uint `gorm:"index" json:"orderId"`
	DayID        *uint `gorm:"index" json:"dayId"`
	WithdrawalID *uint `json:"withdrawalId"`

	Note string `json:"note"`
}
