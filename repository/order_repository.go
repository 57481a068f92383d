package repository

import (
	"errors"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// GetOrder reads through db, the repository handle or an open transaction.
func (r *OrderRepository) GetOrder(db *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := db.First(&o, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint               `json:"id"`
	OrderNo      string             `json:"orderNo"`
	OrderType    entity.OrderType   `json:"orderType"`
	Status       entity.OrderStatus `json:"status"`
	TotalAmount  int64              `json:"totalAmount"`
	DeliveryDate *time.Time         `json:"deliveryDate"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, order_no, order_type, status, total_amount, delivery_date, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

// ListOrdersBetween pulls full order rows created in [from, to) for the
// admin export. Capped so a wide range cannot load the whole table.
func (r *OrderRepository) ListOrdersBetween(from, to time.Time, limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 5000 {
		limit = 5000
	}
	var out []entity.Order
	err := r.DB.Where("created_at >= ? AND created_at < ?", from, to).
		Order("id").Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateStatusGuard moves the order-level rollup only from the expected
// predecessor; zero rows means a lost race or an illegal move.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

// SetStatus force-sets the rollup; used where the rollup is derived (e.g.
// freshplan completion) rather than guarded.
func (r *OrderRepository) SetStatus(tx *gorm.DB, orderID uint, to entity.OrderStatus) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Update("status", to).Error
}

// ---------------- Order items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("order_id = ? AND day_id IS NULL", orderID).Find(&items).Error
	return items, err
}

// ---------------- Plan days ----------------

func (r *OrderRepository) CreateDay(tx *gorm.DB, d *entity.PlanDay) error {
	return tx.Create(d).Error
}

func (r *OrderRepository) GetDay(tx *gorm.DB, dayID uint) (*entity.PlanDay, error) {
	var d entity.PlanDay
	if err := tx.First(&d, dayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *OrderRepository) GetDaysForOrder(orderID uint) ([]entity.PlanDay, error) {
	var days []entity.PlanDay
	err := r.DB.Where("order_id = ?", orderID).Order("date").Find(&days).Error
	return days, err
}

func (r *OrderRepository) GetDayItems(dayID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("day_id = ?", dayID).Find(&items).Error
	return items, err
}

// UpdateDaySlot rewrites the slot on the day row and every item of that day
// in one shot each; caller wraps both in a transaction. The day write is
// guarded on the unit still being open, so a pickup or terminal transition
// committed meanwhile keeps its slot. Returns the affected day rows.
func (r *OrderRepository) UpdateDaySlot(tx *gorm.DB, dayID uint, slotCode string) (int64, error) {
	res := tx.Model(&entity.PlanDay{}).
		Where("id = ? AND cancelled_at IS NULL AND courier_status = ?", dayID, entity.CourierNotYetPicked).
		Update("time_slot_code", slotCode)
	if res.Error != nil || res.RowsAffected == 0 {
		return res.RowsAffected, res.Error
	}
	return res.RowsAffected, tx.Model(&entity.OrderItem{}).Where("day_id = ?", dayID).
		Update("time_slot_code", slotCode).Error
}

// CountOpenDays counts days of an order that are not yet terminal.
func (r *OrderRepository) CountOpenDays(tx *gorm.DB, orderID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.PlanDay{}).
		Where("order_id = ? AND cancelled_at IS NULL AND courier_status NOT IN ?",
			orderID, []entity.CourierStatus{entity.CourierDelivered, entity.CourierNotDelivered}).
		Count(&cnt).Error
	return cnt, err
}
