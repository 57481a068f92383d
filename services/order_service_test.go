package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T, db *gorm.DB) *OrderService {
	s := NewOrderService(db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		newWalletService(db),
		testPricing(t), timeslot.DefaultConfig(), nil)
	s.Now = clockAt(baseNow)
	return s
}

func checkoutReq(productID uint, qty int) *CheckoutReq {
	return &CheckoutReq{
		Items: []OrderItemIn{{
			ProductID:     productID,
			Qty:           qty,
			Customization: entity.Customization{Category: entity.CategoryJuice},
		}},
		DeliveryDate: baseNow.AddDate(0, 0, 1).Format("2006-01-02"),
		TimeSlotCode: "7-8AM",
		CustomerName: "Asha",
		Phone:        "9900112233",
		Address:      "12 Lake View Rd",
		Lat:          12.9716,
		Lng:          77.5946,
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	res, err := svc.Checkout(user.ID, checkoutReq(juice.ID, 2))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.OrderNo, "QS-"))
	assert.Equal(t, int64(80), res.Subtotal)
	assert.Equal(t, int64(20), res.DeliveryCharge) // below the waiver threshold
	assert.Equal(t, int64(20), res.CalculatedCharge)
	assert.Equal(t, int64(100), res.TotalAmount)

	var order entity.Order
	require.NoError(t, db.First(&order, res.ID).Error)
	assert.Equal(t, entity.OrderTypeQuickSip, order.OrderType)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, entity.KitchenPending, order.KitchenStatus)
	assert.Equal(t, entity.CourierNotYetPicked, order.CourierStatus)

	var items []entity.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "ABC Juice", items[0].Name)
	assert.Equal(t, int64(80), items[0].Total)
}

func TestCheckoutFreeDeliveryWaiver(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	res, err := svc.Checkout(user.ID, checkoutReq(juice.ID, 3)) // subtotal 120
	require.NoError(t, err)
	assert.Zero(t, res.DeliveryCharge)
	assert.Equal(t, int64(20), res.CalculatedCharge)
	assert.Equal(t, int64(120), res.TotalAmount)
}

func TestCheckoutWalletDiscount(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 50)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	req := checkoutReq(juice.ID, 2) // subtotal 80 > balance 50
	req.UseWallet = true
	res, err := svc.Checkout(user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.WalletDiscount)
	assert.Equal(t, int64(80-50+20), res.TotalAmount)

	var u entity.User
	require.NoError(t, db.First(&u, user.ID).Error)
	assert.Zero(t, u.ReferralWallet)

	var txn entity.WalletTransaction
	require.NoError(t, db.Where("order_id = ?", res.ID).First(&txn).Error)
	assert.Equal(t, entity.WalletTxnOrderDebit, txn.Kind)
	assert.Equal(t, int64(-50), txn.Amount)
}

func TestCheckoutWalletDiscountCapsAtSubtotal(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 500)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	req := checkoutReq(juice.ID, 1) // subtotal 40
	req.UseWallet = true
	res, err := svc.Checkout(user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(40), res.WalletDiscount)
	assert.Equal(t, int64(20), res.TotalAmount) // only the delivery charge remains

	var u entity.User
	require.NoError(t, db.First(&u, user.ID).Error)
	assert.Equal(t, int64(460), u.ReferralWallet)
}

func TestCheckoutSlotRules(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	var v *apperr.Validation

	// same-day slot whose window is too close
	req := checkoutReq(juice.ID, 1)
	req.DeliveryDate = baseNow.Format("2006-01-02")
	req.TimeSlotCode = "10-11AM" // 1h away at 09:00, needs 2h lead
	_, err := svc.Checkout(user.ID, req)
	require.True(t, errors.As(err, &v))

	// same day after cutoff
	svc.Now = clockAt(time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC))
	req = checkoutReq(juice.ID, 1)
	req.DeliveryDate = baseNow.Format("2006-01-02")
	req.TimeSlotCode = "6-7PM"
	_, err = svc.Checkout(user.ID, req)
	require.True(t, errors.As(err, &v))

	// past date
	svc.Now = clockAt(baseNow)
	req = checkoutReq(juice.ID, 1)
	req.DeliveryDate = baseNow.AddDate(0, 0, -1).Format("2006-01-02")
	_, err = svc.Checkout(user.ID, req)
	require.True(t, errors.As(err, &v))

	// unknown slot code
	req = checkoutReq(juice.ID, 1)
	req.TimeSlotCode = "2-3PM"
	_, err = svc.Checkout(user.ID, req)
	require.True(t, errors.As(err, &v))
}

func TestCheckoutOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	req := checkoutReq(juice.ID, 1)
	req.Lat = 13.2
	_, err := svc.Checkout(user.ID, req)
	var oor *apperr.OutOfServiceRange
	require.True(t, errors.As(err, &oor))
}

func TestCheckoutInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	p := seedProduct(t, db, "Old Juice", entity.CategoryJuice, 40)
	require.NoError(t, db.Model(&entity.Product{}).Where("id = ?", p.ID).Update("active", false).Error)

	_, err := svc.Checkout(user.ID, checkoutReq(p.ID, 1))
	var v *apperr.Validation
	require.True(t, errors.As(err, &v))
}

func TestCheckoutOmittedCustomization(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	shake := seedProduct(t, db, "Oat Shake", entity.CategoryShake, 60)

	// no customization block at all means house defaults
	req := checkoutReq(shake.ID, 1)
	req.Items[0].Customization = entity.Customization{}
	res, err := svc.Checkout(user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.Subtotal)
}

func TestDetailForUser(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, 0)
	stranger := seedUser(t, db, 0)
	juice := seedProduct(t, db, "ABC Juice", entity.CategoryJuice, 40)

	res, err := svc.Checkout(user.ID, checkoutReq(juice.ID, 1))
	require.NoError(t, err)

	det, err := svc.DetailForUser(user.ID, res.ID)
	require.NoError(t, err)
	assert.Len(t, det.Items, 1)
	assert.Empty(t, det.Days)

	_, err = svc.DetailForUser(stranger.ID, res.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
