package services

import (
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"gorm.io/gorm"
)

// WalletService owns the referral wallet: withdrawal lifecycle and the
// cancellation refund coordinator. Balance mutations always travel with the
// status change in one transaction; a failed write leaves both untouched.
type WalletService struct {
	DB     *gorm.DB
	Repo   *repository.WalletRepository
	Users  *repository.UserRepository

	Notifier Notifier
	Now      func() time.Time
}

func NewWalletService(db *gorm.DB, repo *repository.WalletRepository, users *repository.UserRepository, n Notifier) *WalletService {
	return &WalletService{DB: db, Repo: repo, Users: users, Notifier: n, Now: time.Now}
}

func (s *WalletService) notify(event string, payload any) {
	if s.Notifier == nil {
		return
	}
	go s.Notifier.Notify(event, payload)
}

// RequestWithdrawal debits the wallet and opens a pending withdrawal. The
// debit is a guarded update, so a concurrent request cannot overdraw.
func (s *WalletService) RequestWithdrawal(userID uint, amount int64) (*entity.Withdrawal, error) {
	if amount <= 0 {
		return nil, &apperr.Validation{Msg: "withdrawal amount must be positive"}
	}
	now := s.Now()
	var w entity.Withdrawal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Users.DebitWalletGuard(tx, userID, amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			balance, err := s.Users.WalletBalance(tx, userID)
			if err != nil {
				return err
			}
			return &apperr.InsufficientBalance{Requested: amount, Balance: balance}
		}
		w = entity.Withdrawal{
			UserID:      userID,
			Amount:      amount,
			Status:      entity.WithdrawalPending,
			RequestedAt: now,
		}
		if err := s.Repo.CreateWithdrawal(tx, &w); err != nil {
			return err
		}
		return s.Repo.CreateTxn(tx, &entity.WalletTransaction{
			UserID:       userID,
			Kind:         entity.WalletTxnWithdrawDebit,
			Amount:       -amount,
			WithdrawalID: &w.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.notify("withdrawal.requested", &w)
	return &w, nil
}

// Approve settles a pending withdrawal. A retried approve is a no-op.
func (s *WalletService) Approve(withdrawalID uint, note string) (*entity.Withdrawal, error) {
	now := s.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateWithdrawalStatusGuard(tx, withdrawalID, entity.WithdrawalApproved, note, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			w, err := s.Repo.GetWithdrawal(tx, withdrawalID)
			if err != nil {
				return err
			}
			if w.Status == entity.WithdrawalApproved {
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(w.Status), To: string(entity.WithdrawalApproved)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w, err := s.Repo.GetWithdrawal(s.DB, withdrawalID)
	if err != nil {
		return nil, err
	}
	s.notify("withdrawal.approved", w)
	return w, nil
}

// Reject settles a pending withdrawal and credits the amount back inside the
// same transaction. The status guard makes the refund exactly-once: a retry
// matches zero rows and skips the credit.
func (s *WalletService) Reject(withdrawalID uint, note string) (*entity.Withdrawal, error) {
	now := s.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateWithdrawalStatusGuard(tx, withdrawalID, entity.WithdrawalRejected, note, now)
		if err != nil {
			return err
		}
		w, err := s.Repo.GetWithdrawal(tx, withdrawalID)
		if err != nil {
			return err
		}
		if affected == 0 {
			if w.Status == entity.WithdrawalRejected {
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(w.Status), To: string(entity.WithdrawalRejected)}
		}
		if err := s.Users.CreditWallet(tx, w.UserID, w.Amount); err != nil {
			return err
		}
		return s.Repo.CreateTxn(tx, &entity.WalletTransaction{
			UserID:       w.UserID,
			Kind:         entity.WalletTxnRejectRefund,
			Amount:       w.Amount,
			WithdrawalID: &w.ID,
			Note:         note,
		})
	})
	if err != nil {
		return nil, err
	}
	w, err := s.Repo.GetWithdrawal(s.DB, withdrawalID)
	if err != nil {
		return nil, err
	}
	s.notify("withdrawal.rejected", w)
	return w, nil
}

// RecordOrderDebit books the wallet discount taken at checkout. Runs inside
// the checkout transaction; the guarded debit is the overdraw check.
func (s *WalletService) RecordOrderDebit(tx *gorm.DB, userID, orderID uint, amount int64) error {
	if amount <= 0 {
		return nil
	}
	affected, err := s.Users.DebitWalletGuard(tx, userID, amount)
	if err != nil {
		return err
	}
	if affected == 0 {
		balance, err := s.Users.WalletBalance(tx, userID)
		if err != nil {
			return err
		}
		return &apperr.InsufficientBalance{Requested: amount, Balance: balance}
	}
	return s.Repo.CreateTxn(tx, &entity.WalletTransaction{
		UserID:  userID,
		Kind:    entity.WalletTxnOrderDebit,
		Amount:  -amount,
		OrderID: &orderID,
	})
}

// ReverseUnitDebits is the cancellation coordinator: it refunds the wallet
// debits tied to a cancelled unit exactly once. Idempotency is keyed on the
// unit via the reversal ledger row, not on call counts.
func (s *WalletService) ReverseUnitDebits(tx *gorm.DB, userID, orderID uint, dayID *uint) error {
	already, err := s.Repo.HasReversalForUnit(tx, orderID, dayID)
	if err != nil {
		return err
	}
	if already {
		return nil
	}
	debited, err := s.Repo.DebitsForUnit(tx, orderID, dayID)
	if err != nil {
		return err
	}
	if debited >= 0 {
		return nil // nothing was debited for this unit
	}
	refund := -debited
	if err := s.Users.CreditWallet(tx, userID, refund); err != nil {
		return err
	}
	return s.Repo.CreateTxn(tx, &entity.WalletTransaction{
		UserID:  userID,
		Kind:    entity.WalletTxnCancelReversal,
		Amount:  refund,
		OrderID: &orderID,
		DayID:   dayID,
		Note:    "unit cancelled",
	})
}

// ----- Read side -----

type WalletOverview struct {
	Balance      int64                      `json:"balance"`
	Withdrawals  []entity.Withdrawal        `json:"withdrawals"`
	Transactions []entity.WalletTransaction `json:"transactions"`
}

func (s *WalletService) Overview(userID uint) (*WalletOverview, error) {
	balance, err := s.Users.WalletBalance(s.DB, userID)
	if err != nil {
		return nil, err
	}
	ws, err := s.Repo.ListWithdrawalsForUser(userID, 50)
	if err != nil {
		return nil, err
	}
	txns, err := s.Repo.ListTxnsForUser(userID, 50)
	if err != nil {
		return nil, err
	}
	return &WalletOverview{Balance: balance, Withdrawals: ws, Transactions: txns}, nil
}

func (s *WalletService) ListWithdrawals(status entity.WithdrawalStatus, limit int) ([]entity.Withdrawal, error) {
	return s.Repo.ListWithdrawals(status, limit)
}
