package repository

import (
	"errors"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(u *entity.User) error {
	return r.DB.Create(u).Error
}

func (r *UserRepository) CountByEmail(email string) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt, err
}

func (r *UserRepository) FindByEmail(email string) (*entity.User, error) {
	var u entity.User
	if err := r.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(id uint) (*entity.User, error) {
	var u entity.User
	if err := r.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(id uint, updates map[string]any) error {
	return r.DB.Model(&entity.User{}).Where("id = ?", id).Updates(updates).Error
}

// CreditWallet adds amount to the referral wallet.
func (r *UserRepository) CreditWallet(tx *gorm.DB, userID uint, amount int64) error {
	return tx.Model(&entity.User{}).Where("id = ?", userID).
		Update("referral_wallet", gorm.Expr("referral_wallet + ?", amount)).Error
}

// DebitWalletGuard subtracts amount only while the balance covers it; zero
// rows affected means insufficient funds (or a concurrent debit won).
func (r *UserRepository) DebitWalletGuard(tx *gorm.DB, userID uint, amount int64) (int64, error) {
	res := tx.Model(&entity.User{}).
		Where("id = ? AND referral_wallet >= ?", userID, amount).
		Update("referral_wallet", gorm.Expr("referral_wallet - ?", amount))
	return res.RowsAffected, res.Error
}

// WalletBalance reads through db so guard-failure paths can re-read inside
// the open transaction.
func (r *UserRepository) WalletBalance(db *gorm.DB, userID uint) (int64, error) {
	var row struct{ ReferralWallet int64 }
	err := db.Model(&entity.User{}).Select("referral_wallet").
		Where("id = ?", userID).First(&row).Error
	return row.ReferralWallet, err
}
