package repository

import (
	"errors"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

// UnitKind addresses a fulfillment unit: a whole quicksip order or a single
// freshplan day. Both embed entity.Fulfillment, so one repository serves both.
type UnitKind string

const (
	UnitOrder UnitKind = "order"
	UnitDay   UnitKind = "day"
)

// UnitRow is the loaded unit plus the context the services need around it.
type UnitRow struct {
	Kind    UnitKind
	ID      uint
	OrderID uint // equals ID for order units
	UserID  uint
	entity.Fulfillment
}

type FulfillmentRepository struct {
	DB *gorm.DB
}

func NewFulfillmentRepository(db *gorm.DB) *FulfillmentRepository {
	return &FulfillmentRepository{DB: db}
}

func model(kind UnitKind) any {
	if kind == UnitOrder {
		return &entity.Order{}
	}
	return &entity.PlanDay{}
}

// GetUnit loads a unit through db, which is either the repository handle or
// an open transaction so guard re-reads see transactional state.
func (r *FulfillmentRepository) GetUnit(db *gorm.DB, kind UnitKind, id uint) (*UnitRow, error) {
	switch kind {
	case UnitOrder:
		var o entity.Order
		if err := db.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}
		return &UnitRow{Kind: kind, ID: o.ID, OrderID: o.ID, UserID: o.UserID, Fulfillment: o.Fulfillment}, nil
	case UnitDay:
		var d entity.PlanDay
		if err := db.First(&d, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.ErrNotFound
			}
			return nil, err
		}
		var row struct{ UserID uint }
		if err := db.Model(&entity.Order{}).Select("user_id").
			Where("id = ?", d.OrderID).First(&row).Error; err != nil {
			return nil, err
		}
		return &UnitRow{Kind: kind, ID: d.ID, OrderID: d.OrderID, UserID: row.UserID, Fulfillment: d.Fulfillment}, nil
	}
	return nil, apperr.ErrNotFound
}

// ---------------- Guarded transitions ----------------
//
// Every transition is a compare-and-set keyed on the expected predecessor
// state, so concurrent duplicates collapse to zero rows affected and the
// service decides no-op vs error from the re-read state.

func (r *FulfillmentRepository) MarkReceivedGuard(tx *gorm.DB, kind UnitKind, id, chefID uint, now time.Time) (int64, error) {
	res := tx.Model(model(kind)).
		Where("id = ? AND kitchen_status = ? AND cancelled_at IS NULL", id, entity.KitchenPending).
		Updates(map[string]any{
			"kitchen_status": entity.KitchenReceived,
			"chef_id":        chefID,
			"received_at":    now,
		})
	return res.RowsAffected, res.Error
}

func (r *FulfillmentRepository) MarkDoneGuard(tx *gorm.DB, kind UnitKind, id, chefID uint, now time.Time) (int64, error) {
	res := tx.Model(model(kind)).
		Where("id = ? AND kitchen_status = ? AND cancelled_at IS NULL", id, entity.KitchenReceived).
		Updates(map[string]any{
			"kitchen_status": entity.KitchenDone,
			"done_at":        now,
		})
	return res.RowsAffected, res.Error
}

// MarkPickedGuard requires the kitchen to be done first.
func (r *FulfillmentRepository) MarkPickedGuard(tx *gorm.DB, kind UnitKind, id, courierID uint, now time.Time, reportedAt *time.Time) (int64, error) {
	res := tx.Model(model(kind)).
		Where("id = ? AND courier_status = ? AND kitchen_status = ? AND cancelled_at IS NULL",
			id, entity.CourierNotYetPicked, entity.KitchenDone).
		Updates(map[string]any{
			"courier_status": entity.CourierPicked,
			"courier_id":     courierID,
			"picked_at":      now,
			"reported_at":    reportedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *FulfillmentRepository) MarkDeliveredGuard(tx *gorm.DB, kind UnitKind, id uint, now time.Time, reportedAt *time.Time) (int64, error) {
	res := tx.Model(model(kind)).
		Where("id = ? AND courier_status = ? AND cancelled_at IS NULL", id, entity.CourierPicked).
		Updates(map[string]any{
			"courier_status": entity.CourierDelivered,
			"delivered_at":   now,
			"reported_at":    reportedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *FulfillmentRepository) MarkNotDeliveredGuard(tx *gorm.DB, kind UnitKind, id uint, reason string, now time.Time, reportedAt *time.Time) (int64, error) {
	res := tx.Model(model(kind)).
		Where("id = ? AND courier_status = ? AND cancelled_at IS NULL", id, entity.CourierPicked).
		Updates(map[string]any{
			"courier_status":       entity.CourierNotDelivered,
			"not_delivered_at":     now,
			"not_delivered_reason": reason,
			"reported_at":          reportedAt,
		})
	return res.RowsAffected, res.Error
}

// CancelGuard cancels a unit only while prep has not started. The
// higher-privilege admin path skips the kitchen check but still refuses
// picked/terminal units.
func (r *FulfillmentRepository) CancelGuard(tx *gorm.DB, kind UnitKind, id uint, reason, role string, now time.Time, adminOverride bool) (int64, error) {
	q := tx.Model(model(kind)).
		Where("id = ? AND courier_status = ? AND cancelled_at IS NULL", id, entity.CourierNotYetPicked)
	if !adminOverride {
		q = q.Where("kitchen_status = ?", entity.KitchenPending)
	}
	res := q.Updates(map[string]any{
		"cancelled_at":      now,
		"cancel_reason":     reason,
		"cancelled_by_role": role,
	})
	return res.RowsAffected, res.Error
}

// ---------------- Work queues ----------------

// KitchenQueueOrders lists quicksip units awaiting prep for a delivery date.
func (r *FulfillmentRepository) KitchenQueueOrders(dayStart, dayEnd time.Time) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.
		Where("order_type = ? AND delivery_date >= ? AND delivery_date < ?", entity.OrderTypeQuickSip, dayStart, dayEnd).
		Where("kitchen_status IN ? AND cancelled_at IS NULL",
			[]entity.KitchenStatus{entity.KitchenPending, entity.KitchenReceived}).
		Order("id").Find(&out).Error
	return out, err
}

func (r *FulfillmentRepository) KitchenQueueDays(dayStart, dayEnd time.Time) ([]entity.PlanDay, error) {
	var out []entity.PlanDay
	err := r.DB.
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Where("kitchen_status IN ? AND cancelled_at IS NULL",
			[]entity.KitchenStatus{entity.KitchenPending, entity.KitchenReceived}).
		Order("id").Find(&out).Error
	return out, err
}

// CourierQueueOrders lists quicksip units ready for pickup.
func (r *FulfillmentRepository) CourierQueueOrders(limit int) ([]entity.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entity.Order
	err := r.DB.
		Where("order_type = ? AND kitchen_status = ? AND courier_status = ? AND cancelled_at IS NULL",
			entity.OrderTypeQuickSip, entity.KitchenDone, entity.CourierNotYetPicked).
		Order("id").Limit(limit).Find(&out).Error
	return out, err
}

func (r *FulfillmentRepository) CourierQueueDays(limit int) ([]entity.PlanDay, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []entity.PlanDay
	err := r.DB.
		Where("kitchen_status = ? AND courier_status = ? AND cancelled_at IS NULL",
			entity.KitchenDone, entity.CourierNotYetPicked).
		Order("id").Limit(limit).Find(&out).Error
	return out, err
}
