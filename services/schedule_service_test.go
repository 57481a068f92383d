package services

import (
	"errors"
	"testing"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newScheduleService(db *gorm.DB) *ScheduleService {
	s := NewScheduleService(db, repository.NewOrderRepository(db))
	s.Now = clockAt(baseNow)
	return s
}

func seedDayOn(t *testing.T, db *gorm.DB, orderID uint, date time.Time) *entity.PlanDay {
	t.Helper()
	d := &entity.PlanDay{OrderID: orderID, Date: date, TimeSlotCode: "7-8AM"}
	require.NoError(t, db.Create(d).Error)
	return d
}

func TestUpdateDaySlotRewritesDayAndItems(t *testing.T) {
	db := newTestDB(t)
	svc := newScheduleService(db)
	user := seedUser(t, db, 0)
	order, _ := seedPlanOrder(t, db, user.ID, 1)
	day := seedDayOn(t, db, order.ID, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))
	item := &entity.OrderItem{OrderID: order.ID, DayID: &day.ID, Qty: 1, TimeSlotCode: "7-8AM"}
	require.NoError(t, db.Create(item).Error)

	got, err := svc.UpdateDaySlot(user.ID, day.ID, "5-6PM")
	require.NoError(t, err)
	assert.Equal(t, "5-6PM", got.TimeSlotCode)

	var gotItem entity.OrderItem
	require.NoError(t, db.First(&gotItem, item.ID).Error)
	assert.Equal(t, "5-6PM", gotItem.TimeSlotCode)
}

func TestUpdateDaySlotFreezeWindows(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name   string
		date   time.Time // delivery date
		now    time.Time
		locked bool
	}{
		{
			name:   "past date is locked",
			date:   time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			now:    baseNow,
			locked: true,
		},
		{
			name:   "today is locked all day",
			date:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			now:    baseNow,
			locked: true,
		},
		{
			name:   "tomorrow is editable before the cutoff",
			date:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			now:    time.Date(2025, 6, 10, 23, 58, 0, 0, time.UTC),
			locked: false,
		},
		{
			name:   "tomorrow locks at the cutoff minute",
			date:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
			now:    time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC),
			locked: true,
		},
		{
			name:   "day after tomorrow ignores the cutoff",
			date:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
			now:    time.Date(2025, 6, 10, 23, 59, 30, 0, time.UTC),
			locked: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newScheduleService(db)
			svc.Now = clockAt(tt.now)
			owner := seedUser(t, db, 0)
			order, _ := seedPlanOrder(t, db, owner.ID, 1)
			day := seedDayOn(t, db, order.ID, tt.date)

			_, err := svc.UpdateDaySlot(owner.ID, day.ID, "5-6PM")
			if tt.locked {
				var sl *apperr.ScheduleLocked
				require.True(t, errors.As(err, &sl))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUpdateDaySlotValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newScheduleService(db)
	user := seedUser(t, db, 0)
	stranger := seedUser(t, db, 0)
	order, _ := seedPlanOrder(t, db, user.ID, 1)
	day := seedDayOn(t, db, order.ID, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))

	_, err := svc.UpdateDaySlot(user.ID, day.ID, "2-3PM")
	var v *apperr.Validation
	require.True(t, errors.As(err, &v))

	// another customer's day reads as missing, not forbidden
	_, err = svc.UpdateDaySlot(stranger.ID, day.ID, "5-6PM")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateDaySlotRefusesTerminalDay(t *testing.T) {
	db := newTestDB(t)
	svc := newScheduleService(db)
	user := seedUser(t, db, 0)
	order, _ := seedPlanOrder(t, db, user.ID, 1)
	day := seedDayOn(t, db, order.ID, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))

	now := baseNow
	require.NoError(t, db.Model(&entity.PlanDay{}).Where("id = ?", day.ID).
		Updates(map[string]any{"cancelled_at": now, "cancel_reason": "test", "cancelled_by_role": entity.RoleAdmin}).Error)

	_, err := svc.UpdateDaySlot(user.ID, day.ID, "5-6PM")
	var sl *apperr.ScheduleLocked
	require.True(t, errors.As(err, &sl))
}

func TestUpdateDaySlotRefusesPickedDay(t *testing.T) {
	db := newTestDB(t)
	svc := newScheduleService(db)
	user := seedUser(t, db, 0)
	order, _ := seedPlanOrder(t, db, user.ID, 1)
	day := seedDayOn(t, db, order.ID, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC))

	require.NoError(t, db.Model(&entity.PlanDay{}).Where("id = ?", day.ID).
		Updates(map[string]any{"courier_status": entity.CourierPicked, "picked_at": baseNow}).Error)

	_, err := svc.UpdateDaySlot(user.ID, day.ID, "5-6PM")
	var sl *apperr.ScheduleLocked
	require.True(t, errors.As(err, &sl))

	var got entity.PlanDay
	require.NoError(t, db.First(&got, day.ID).Error)
	assert.Equal(t, "7-8AM", got.TimeSlotCode)
}
