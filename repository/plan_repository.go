package repository

import (
	"errors"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

type PlanRepository struct {
	DB *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(tx *gorm.DB, p *entity.FreshPlan) error {
	return tx.Create(p).Error
}

// Get reads through db, the repository handle or an open transaction.
func (r *PlanRepository) Get(db *gorm.DB, planID uint) (*entity.FreshPlan, error) {
	var p entity.FreshPlan
	if err := db.Preload("Schedule.Items").First(&p, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) GetForUser(userID, planID uint) (*entity.FreshPlan, error) {
	var p entity.FreshPlan
	if err := r.DB.Preload("Schedule.Items").
		Where("id = ? AND user_id = ?", planID, userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) ListForUser(userID uint) ([]entity.FreshPlan, error) {
	var out []entity.FreshPlan
	err := r.DB.Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, err
}

// MaxActiveEndDate returns the latest end date among the customer's active
// plans (payment complete, not yet over as of today), or nil when none.
func (r *PlanRepository) MaxActiveEndDate(tx *gorm.DB, userID uint, today time.Time) (*time.Time, error) {
	var row struct{ MaxEnd *time.Time }
	err := tx.Model(&entity.FreshPlan{}).
		Select("MAX(end_date) AS max_end").
		Where("user_id = ? AND payment_complete = ? AND end_date >= ?", userID, true, today).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.MaxEnd, nil
}

// MarkPaymentCompleteGuard flips the payment flag exactly once.
func (r *PlanRepository) MarkPaymentCompleteGuard(tx *gorm.DB, planID uint) (int64, error) {
	res := tx.Model(&entity.FreshPlan{}).
		Where("id = ? AND payment_complete = ?", planID, false).
		Update("payment_complete", true)
	return res.RowsAffected, res.Error
}

func (r *PlanRepository) BindOrder(tx *gorm.DB, planID, orderID uint) error {
	return tx.Model(&entity.FreshPlan{}).Where("id = ?", planID).
		Updates(map[string]any{"order_id": orderID, "is_complete_plan_checkout": true}).Error
}
