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
)

func TestKitchenFlowOrderUnit(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	chefID := uint(7)
	u, err := svc.MarkReceived(repository.UnitOrder, order.ID, chefID)
	require.NoError(t, err)
	assert.Equal(t, entity.KitchenReceived, u.KitchenStatus)
	require.NotNil(t, u.ChefID)
	assert.Equal(t, chefID, *u.ChefID)
	require.NotNil(t, u.ReceivedAt)
	assert.True(t, u.ReceivedAt.Equal(baseNow))

	// order-level rollup follows the kitchen
	var got entity.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusAccepted, got.Status)

	u, err = svc.MarkDone(repository.UnitOrder, order.ID, chefID)
	require.NoError(t, err)
	assert.Equal(t, entity.KitchenDone, u.KitchenStatus)
	require.NotNil(t, u.DoneAt)
}

func TestMarkReceivedDuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)

	// a retry from another chef succeeds without stealing the unit
	u, err := svc.MarkReceived(repository.UnitOrder, order.ID, 9)
	require.NoError(t, err)
	require.NotNil(t, u.ChefID)
	assert.Equal(t, uint(7), *u.ChefID)
}

func TestMarkDoneRequiresReceived(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.MarkDone(repository.UnitOrder, order.ID, 7)
	var ist *apperr.InvalidStateTransition
	require.True(t, errors.As(err, &ist))
	assert.Equal(t, string(entity.KitchenPending), ist.From)
}

func TestMarkPickedRequiresKitchenDone(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.MarkPicked(repository.UnitOrder, order.ID, 12, nil)
	var ist *apperr.InvalidStateTransition
	require.True(t, errors.As(err, &ist))

	_, err = svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkPicked(repository.UnitOrder, order.ID, 12, nil)
	require.True(t, errors.As(err, &ist))

	_, err = svc.MarkDone(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	u, err := svc.MarkPicked(repository.UnitOrder, order.ID, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.CourierPicked, u.CourierStatus)

	var got entity.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusOutForDelivery, got.Status)
}

func TestDeliveredTerminalAndServerTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkDone(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkPicked(repository.UnitOrder, order.ID, 12, nil)
	require.NoError(t, err)

	// the device clock is wildly off; it must land in ReportedAt only
	reported := baseNow.Add(-3 * time.Hour)
	u, err := svc.MarkDelivered(repository.UnitOrder, order.ID, &reported)
	require.NoError(t, err)
	assert.Equal(t, entity.CourierDelivered, u.CourierStatus)
	require.NotNil(t, u.DeliveredAt)
	assert.True(t, u.DeliveredAt.Equal(baseNow))
	require.NotNil(t, u.ReportedAt)
	assert.True(t, u.ReportedAt.Equal(reported))

	var got entity.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusDelivered, got.Status)

	// terminal: no more transitions, but a delivered retry is tolerated
	_, err = svc.MarkDelivered(repository.UnitOrder, order.ID, nil)
	require.NoError(t, err)
	_, err = svc.MarkNotDelivered(repository.UnitOrder, order.ID, "nobody home", nil)
	var ist *apperr.InvalidStateTransition
	require.True(t, errors.As(err, &ist))
}

func TestNotDeliveredRequiresReason(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)

	_, err := svc.MarkNotDelivered(repository.UnitOrder, 1, "", nil)
	var v *apperr.Validation
	require.True(t, errors.As(err, &v))
}

func TestFreshPlanRollupWaitsForLastDay(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order, days := seedPlanOrder(t, db, user.ID, 2)

	deliver := func(dayID uint) {
		_, err := svc.MarkReceived(repository.UnitDay, dayID, 7)
		require.NoError(t, err)
		_, err = svc.MarkDone(repository.UnitDay, dayID, 7)
		require.NoError(t, err)
		_, err = svc.MarkPicked(repository.UnitDay, dayID, 12, nil)
		require.NoError(t, err)
		_, err = svc.MarkDelivered(repository.UnitDay, dayID, nil)
		require.NoError(t, err)
	}

	deliver(days[0].ID)
	var got entity.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusPending, got.Status)

	deliver(days[1].ID)
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusDelivered, got.Status)
}

func TestDayUnitsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	_, days := seedPlanOrder(t, db, user.ID, 2)

	_, err := svc.MarkReceived(repository.UnitDay, days[0].ID, 7)
	require.NoError(t, err)

	var other entity.PlanDay
	require.NoError(t, db.First(&other, days[1].ID).Error)
	assert.Equal(t, entity.KitchenPending, other.KitchenStatus)
}

func TestChefCancelReversesWalletDebitOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 30)
	order := seedQuickSip(t, db, user.ID, 30)
	require.NoError(t, svc.Wallet.RecordOrderDebit(db, user.ID, order.ID, 30))

	balance := func() int64 {
		var u entity.User
		require.NoError(t, db.First(&u, user.ID).Error)
		return u.ReferralWallet
	}
	require.Zero(t, balance())

	u, err := svc.Cancel(repository.UnitOrder, order.ID, "customer asked", entity.RoleChef)
	require.NoError(t, err)
	assert.True(t, u.Cancelled())
	assert.Equal(t, entity.RoleChef, u.CancelledByRole)
	assert.Equal(t, int64(30), balance())

	var got entity.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)

	// retry: cancelled already, reversal must not run again
	_, err = svc.Cancel(repository.UnitOrder, order.ID, "customer asked", entity.RoleChef)
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance())

	var reversals int64
	require.NoError(t, db.Model(&entity.WalletTransaction{}).
		Where("kind = ? AND order_id = ?", entity.WalletTxnCancelReversal, order.ID).
		Count(&reversals).Error)
	assert.Equal(t, int64(1), reversals)
}

func TestCancelRoleRules(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.Cancel(repository.UnitOrder, order.ID, "reason", entity.RoleCourier)
	var v *apperr.Validation
	require.True(t, errors.As(err, &v))

	_, err = svc.Cancel(repository.UnitOrder, order.ID, "", entity.RoleChef)
	require.True(t, errors.As(err, &v))

	// once prep started the chef path is closed, the admin path is not
	_, err = svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.Cancel(repository.UnitOrder, order.ID, "too late", entity.RoleChef)
	var ist *apperr.InvalidStateTransition
	require.True(t, errors.As(err, &ist))

	u, err := svc.Cancel(repository.UnitOrder, order.ID, "refund approved", entity.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.Cancelled())
}

func TestCancelRefusesPickedUnit(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0)

	_, err := svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkDone(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkPicked(repository.UnitOrder, order.ID, 12, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(repository.UnitOrder, order.ID, "reason", entity.RoleAdmin)
	var ist *apperr.InvalidStateTransition
	require.True(t, errors.As(err, &ist))
}

func TestQueues(t *testing.T) {
	db := newTestDB(t)
	svc := newFulfillmentService(db)
	user := seedUser(t, db, 0)
	order := seedQuickSip(t, db, user.ID, 0) // delivery tomorrow
	_, days := seedPlanOrder(t, db, user.ID, 1)

	q, err := svc.Queue(baseNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, q.Orders, 1)
	assert.Equal(t, order.ID, q.Orders[0].ID)
	require.Len(t, q.Days, 1)
	assert.Equal(t, days[0].ID, q.Days[0].ID)

	// done units leave the kitchen queue and enter the pickup queue
	_, err = svc.MarkReceived(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)
	_, err = svc.MarkDone(repository.UnitOrder, order.ID, 7)
	require.NoError(t, err)

	q, err = svc.Queue(baseNow.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, q.Orders)

	pq, err := svc.PickupQueue(0)
	require.NoError(t, err)
	require.Len(t, pq.Orders, 1)
	assert.Equal(t, order.ID, pq.Orders[0].ID)
}
