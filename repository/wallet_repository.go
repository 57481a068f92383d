package repository

import (
	"errors"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

type WalletRepository struct {
	DB *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{DB: db}
}

// ---------------- Withdrawals ----------------

func (r *WalletRepository) CreateWithdrawal(tx *gorm.DB, w *entity.Withdrawal) error {
	return tx.Create(w).Error
}

// GetWithdrawal reads through db, the repository handle or an open
// transaction.
func (r *WalletRepository) GetWithdrawal(db *gorm.DB, id uint) (*entity.Withdrawal, error) {
	var w entity.Withdrawal
	if err := db.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) ListWithdrawals(status entity.WithdrawalStatus, limit int) ([]entity.Withdrawal, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.Withdrawal
	q := r.DB.Order("id DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *WalletRepository) ListWithdrawalsForUser(userID uint, limit int) ([]entity.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entity.Withdrawal
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateWithdrawalStatusGuard settles a withdrawal exactly once: only the
// pending row matches, so a retried approve/reject affects zero rows.
func (r *WalletRepository) UpdateWithdrawalStatusGuard(tx *gorm.DB, id uint, to entity.WithdrawalStatus, note string, now time.Time) (int64, error) {
	res := tx.Model(&entity.Withdrawal{}).
		Where("id = ? AND status = ?", id, entity.WithdrawalPending).
		Updates(map[string]any{
			"status":        to,
			"processed_at":  now,
			"transfer_note": note,
		})
	return res.RowsAffected, res.Error
}

// ---------------- Ledger ----------------

func (r *WalletRepository) CreateTxn(tx *gorm.DB, t *entity.WalletTransaction) error {
	return tx.Create(t).Error
}

// DebitsForUnit sums the order_debit ledger rows attached to a unit.
func (r *WalletRepository) DebitsForUnit(tx *gorm.DB, orderID uint, dayID *uint) (int64, error) {
	var row struct{ Total *int64 }
	q := tx.Model(&entity.WalletTransaction{}).
		Select("SUM(amount) AS total").
		Where("order_id = ? AND kind = ?", orderID, entity.WalletTxnOrderDebit)
	if dayID != nil {
		q = q.Where("day_id = ?", *dayID)
	} else {
		q = q.Where("day_id IS NULL")
	}
	if err := q.Scan(&row).Error; err != nil {
		return 0, err
	}
	if row.Total == nil {
		return 0, nil
	}
	return *row.Total, nil
}

// HasReversalForUnit probes for an existing cancel reversal, keyed by unit.
func (r *WalletRepository) HasReversalForUnit(tx *gorm.DB, orderID uint, dayID *uint) (bool, error) {
	var cnt int64
	q := tx.Model(&entity.WalletTransaction{}).
		Where("order_id = ? AND kind = ?", orderID, entity.WalletTxnCancelReversal)
	if dayID != nil {
		q = q.Where("day_id = ?", *dayID)
	} else {
		q = q.Where("day_id IS NULL")
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *WalletRepository) ListTxnsForUser(userID uint, limit int) ([]entity.WalletTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entity.WalletTransaction
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
