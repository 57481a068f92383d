package services

import (
	"testing"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/geo"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// baseNow is the frozen clock for service tests: a Tuesday, 09:00 local.
var baseNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one shared in-memory database per test
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.FreshPlan{}, &entity.PlanScheduleDraft{}, &entity.PlanDraftItem{},
		&entity.PlanDay{},
		&entity.Withdrawal{}, &entity.WalletTransaction{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, wallet int64) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:          "test+" + time.Now().Format("150405.000000000") + "@example.com",
		Role:           entity.RoleCustomer,
		ReferralWallet: wallet,
		ReferralCode:   time.Now().Format("20060102150405.000000000"),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, cat entity.ProductCategory, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Category: cat, Price: price, Active: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedQuickSip(t *testing.T, db *gorm.DB, userID uint, walletDiscount int64) *entity.Order {
	t.Helper()
	date := baseNow.AddDate(0, 0, 1)
	o := &entity.Order{
		OrderNo:        "QS-TEST-" + time.Now().Format("150405.000000000"),
		OrderType:      entity.OrderTypeQuickSip,
		Status:         entity.OrderStatusPending,
		UserID:         userID,
		Subtotal:       80,
		WalletDiscount: walletDiscount,
		DeliveryCharge: 20,
		TotalAmount:    100 - walletDiscount,
		DeliveryDate:   &date,
		TimeSlotCode:   "7-8AM",
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func seedPlanOrder(t *testing.T, db *gorm.DB, userID uint, days int) (*entity.Order, []entity.PlanDay) {
	t.Helper()
	o := &entity.Order{
		OrderNo:   "FP-TEST-" + time.Now().Format("150405.000000000"),
		OrderType: entity.OrderTypeFreshPlan,
		Status:    entity.OrderStatusPending,
		UserID:    userID,
		Subtotal:  int64(days) * 49,
	}
	require.NoError(t, db.Create(o).Error)
	out := make([]entity.PlanDay, 0, days)
	for i := 0; i < days; i++ {
		d := entity.PlanDay{
			OrderID:      o.ID,
			Date:         time.Date(2025, 6, 11+i, 0, 0, 0, 0, time.UTC),
			TimeSlotCode: "7-8AM",
		}
		require.NoError(t, db.Create(&d).Error)
		out = append(out, d)
	}
	return o, out
}

func testPricing(t *testing.T) *geo.Pricing {
	t.Helper()
	p, err := geo.NewPricing(
		geo.Point{Lat: 12.9716, Lng: 77.5946},
		[]geo.Tier{{UpToKm: 3, Charge: 20}, {UpToKm: 6, Charge: 40}, {UpToKm: 10, Charge: 60}},
		10, 99,
	)
	require.NoError(t, err)
	return p
}

func newWalletService(db *gorm.DB) *WalletService {
	s := NewWalletService(db, repository.NewWalletRepository(db), repository.NewUserRepository(db), nil)
	s.Now = clockAt(baseNow)
	return s
}

func newFulfillmentService(db *gorm.DB) *FulfillmentService {
	s := NewFulfillmentService(db,
		repository.NewFulfillmentRepository(db),
		repository.NewOrderRepository(db),
		newWalletService(db), nil)
	s.Now = clockAt(baseNow)
	return s
}

func newPlanService(t *testing.T, db *gorm.DB) *PlanService {
	s := NewPlanService(db,
		repository.NewPlanRepository(db),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		testPricing(t), timeslot.DefaultConfig(), nil)
	s.Now = clockAt(baseNow)
	return s
}
