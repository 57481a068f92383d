package services

import (
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"

	"gorm.io/gorm"
)

// FulfillmentService runs the kitchen and courier state machines. The same
// code path serves both unit kinds (whole quicksip order, single freshplan
// day) because both embed entity.Fulfillment.
//
// Transitions are guarded compare-and-set updates; a duplicate call from a
// retrying client lands on zero affected rows and is resolved from the
// re-read state into a no-op success. Timestamps always come from the
// service clock at commit time, never from the request body.
type FulfillmentService struct {
	DB     *gorm.DB
	Units  *repository.FulfillmentRepository
	Orders *repository.OrderRepository
	Wallet *WalletService

	Notifier Notifier
	Now      func() time.Time
}

func NewFulfillmentService(db *gorm.DB, units *repository.FulfillmentRepository, orders *repository.OrderRepository, wallet *WalletService, n Notifier) *FulfillmentService {
	return &FulfillmentService{
		DB: db, Units: units, Orders: orders, Wallet: wallet,
		Notifier: n, Now: time.Now,
	}
}

func (s *FulfillmentService) notify(event string, u *repository.UnitRow) {
	if s.Notifier == nil {
		return
	}
	go s.Notifier.Notify(event, u)
}

// ----- Kitchen machine: pending -> received -> done -----

func (s *FulfillmentService) MarkReceived(kind repository.UnitKind, id, chefID uint) (*repository.UnitRow, error) {
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.MarkReceivedGuard(tx, kind, id, chefID, now)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			if u.Cancelled() {
				return &apperr.InvalidStateTransition{From: string(u.KitchenStatus), To: string(entity.KitchenReceived), Detail: "unit cancelled"}
			}
			// already received (or further along): retry tolerance
			if u.KitchenStatus == entity.KitchenReceived || u.KitchenStatus == entity.KitchenDone {
				out = u
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(u.KitchenStatus), To: string(entity.KitchenReceived)}
		}
		if kind == repository.UnitOrder {
			if _, err := s.Orders.UpdateStatusGuard(tx, id, entity.OrderStatusPending, entity.OrderStatusAccepted); err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("kitchen.received", out)
	return out, nil
}

func (s *FulfillmentService) MarkDone(kind repository.UnitKind, id, chefID uint) (*repository.UnitRow, error) {
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.MarkDoneGuard(tx, kind, id, chefID, now)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			if u.Cancelled() {
				return &apperr.InvalidStateTransition{From: string(u.KitchenStatus), To: string(entity.KitchenDone), Detail: "unit cancelled"}
			}
			if u.KitchenStatus == entity.KitchenDone {
				out = u
				return nil
			}
			// pending: no skipping states
			return &apperr.InvalidStateTransition{From: string(u.KitchenStatus), To: string(entity.KitchenDone), Detail: "unit was never marked received"}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("kitchen.done", out)
	return out, nil
}

// ----- Courier machine: not_yet_picked -> picked -> delivered|not_delivered -----

func (s *FulfillmentService) MarkPicked(kind repository.UnitKind, id, courierID uint, reportedAt *time.Time) (*repository.UnitRow, error) {
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.MarkPickedGuard(tx, kind, id, courierID, now, reportedAt)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			switch {
			case u.Cancelled():
				return &apperr.InvalidStateTransition{From: string(u.CourierStatus), To: string(entity.CourierPicked), Detail: "unit cancelled"}
			case u.CourierStatus == entity.CourierPicked:
				out = u
				return nil
			case u.CourierStatus != entity.CourierNotYetPicked:
				return &apperr.InvalidStateTransition{From: string(u.CourierStatus), To: string(entity.CourierPicked), Detail: "unit already finalized"}
			default:
				return &apperr.InvalidStateTransition{From: string(u.CourierStatus), To: string(entity.CourierPicked), Detail: "kitchen status is " + string(u.KitchenStatus) + ", want done"}
			}
		}
		if kind == repository.UnitOrder {
			if _, err := s.Orders.UpdateStatusGuard(tx, id, entity.OrderStatusAccepted, entity.OrderStatusOutForDelivery); err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("courier.picked", out)
	return out, nil
}

func (s *FulfillmentService) MarkDelivered(kind repository.UnitKind, id uint, reportedAt *time.Time) (*repository.UnitRow, error) {
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.MarkDeliveredGuard(tx, kind, id, now, reportedAt)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			if u.CourierStatus == entity.CourierDelivered {
				out = u
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(u.CourierStatus), To: string(entity.CourierDelivered)}
		}
		out = u
		return s.settleRollup(tx, u)
	})
	if err != nil {
		return nil, err
	}
	s.notify("courier.delivered", out)
	return out, nil
}

func (s *FulfillmentService) MarkNotDelivered(kind repository.UnitKind, id uint, reason string, reportedAt *time.Time) (*repository.UnitRow, error) {
	if reason == "" {
		return nil, &apperr.Validation{Msg: "not-delivered reason is required"}
	}
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.MarkNotDeliveredGuard(tx, kind, id, reason, now, reportedAt)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			if u.CourierStatus == entity.CourierNotDelivered {
				out = u
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(u.CourierStatus), To: string(entity.CourierNotDelivered)}
		}
		out = u
		return s.settleRollup(tx, u)
	})
	if err != nil {
		return nil, err
	}
	s.notify("courier.not_delivered", out)
	return out, nil
}

// settleRollup moves the order-level status after a unit reached a courier
// terminal state. Quicksip orders roll up directly; a freshplan order is
// delivered once its last open day closes.
func (s *FulfillmentService) settleRollup(tx *gorm.DB, u *repository.UnitRow) error {
	if u.Kind == repository.UnitOrder {
		return s.Orders.SetStatus(tx, u.OrderID, entity.OrderStatusDelivered)
	}
	open, err := s.Orders.CountOpenDays(tx, u.OrderID)
	if err != nil {
		return err
	}
	if open == 0 {
		return s.Orders.SetStatus(tx, u.OrderID, entity.OrderStatusDelivered)
	}
	return nil
}

// ----- Cancellation, orthogonal to both machines -----

// Cancel voids a unit while prep has not started. Chefs may cancel pending
// units only; admins may also cancel received ones (the higher-privilege
// path for already-started prep). Any wallet debit tied to the unit is
// reversed in the same transaction, exactly once.
func (s *FulfillmentService) Cancel(kind repository.UnitKind, id uint, reason, role string) (*repository.UnitRow, error) {
	if reason == "" {
		return nil, &apperr.Validation{Msg: "cancel reason is required"}
	}
	if role != entity.RoleChef && role != entity.RoleAdmin {
		return nil, &apperr.Validation{Msg: "only chef or admin may cancel"}
	}
	now := s.Now()
	var out *repository.UnitRow
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Units.CancelGuard(tx, kind, id, reason, role, now, role == entity.RoleAdmin)
		if err != nil {
			return err
		}
		u, err := s.Units.GetUnit(tx, kind, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			if u.Cancelled() {
				out = u // reversal already ran, retry tolerance
				return nil
			}
			return &apperr.InvalidStateTransition{From: string(u.KitchenStatus), To: "cancelled", Detail: "prep already started or unit out for delivery"}
		}
		var dayID *uint
		if kind == repository.UnitDay {
			dayID = &u.ID
		} else {
			if err := s.Orders.SetStatus(tx, u.OrderID, entity.OrderStatusCancelled); err != nil {
				return err
			}
		}
		if err := s.Wallet.ReverseUnitDebits(tx, u.UserID, u.OrderID, dayID); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify("unit.cancelled", out)
	return out, nil
}

// ----- Queues -----

type KitchenQueue struct {
	Orders []entity.Order   `json:"orders"`
	Days   []entity.PlanDay `json:"days"`
}

// Queue lists units awaiting prep for one delivery date.
func (s *FulfillmentService) Queue(date time.Time) (*KitchenQueue, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)
	orders, err := s.Units.KitchenQueueOrders(start, end)
	if err != nil {
		return nil, err
	}
	days, err := s.Units.KitchenQueueDays(start, end)
	if err != nil {
		return nil, err
	}
	return &KitchenQueue{Orders: orders, Days: days}, nil
}

// PickupQueue lists kitchen-done units no courier has claimed yet.
func (s *FulfillmentService) PickupQueue(limit int) (*KitchenQueue, error) {
	orders, err := s.Units.CourierQueueOrders(limit)
	if err != nil {
		return nil, err
	}
	days, err := s.Units.CourierQueueDays(limit)
	if err != nil {
		return nil, err
	}
	return &KitchenQueue{Orders: orders, Days: days}, nil
}
