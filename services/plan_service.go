package services

import (
	"sync"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/geo"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"gorm.io/gorm"
)

const (
	MinPlanDays = 3
	MaxPlanDays = 30
)

// PlanService owns the freshplan aggregate: creation with the non-overlap
// sequencing rule, and materialization into an order once payment completes.
type PlanService struct {
	DB       *gorm.DB
	Plans    *repository.PlanRepository
	Orders   *repository.OrderRepository
	Products *repository.ProductRepository

	Pricing *geo.Pricing
	SlotCfg timeslot.Config

	Notifier Notifier
	Now      func() time.Time

	// serializes plan creation per customer; the in-tx re-check alone
	// cannot stop two requests from both passing the earliest-date read
	mu sync.Map // userID -> *sync.Mutex
}

func NewPlanService(db *gorm.DB, plans *repository.PlanRepository, orders *repository.OrderRepository, products *repository.ProductRepository, pricing *geo.Pricing, slotCfg timeslot.Config, n Notifier) *PlanService {
	return &PlanService{
		DB: db, Plans: plans, Orders: orders, Products: products,
		Pricing: pricing, SlotCfg: slotCfg, Notifier: n, Now: time.Now,
	}
}

func (s *PlanService) userLock(userID uint) *sync.Mutex {
	m, _ := s.mu.LoadOrStore(userID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EarliestAllowedStartDate is day-after the latest active plan's end date,
// or today/tomorrow (same-day cutoff applies) when no plan is active.
func (s *PlanService) EarliestAllowedStartDate(userID uint) (time.Time, error) {
	return s.earliestStartTx(s.DB, userID, s.Now())
}

func (s *PlanService) earliestStartTx(db *gorm.DB, userID uint, now time.Time) (time.Time, error) {
	today := dateOnly(now)
	maxEnd, err := s.Plans.MaxActiveEndDate(db, userID, today)
	if err != nil {
		return time.Time{}, err
	}
	if maxEnd != nil {
		return dateOnly(*maxEnd).AddDate(0, 0, 1), nil
	}
	if now.Hour() >= s.SlotCfg.SameDayCutoffHour {
		return today.AddDate(0, 0, 1), nil
	}
	return today, nil
}

// ----- DTOs -----

type PlanItemIn struct {
	ProductID     uint                 `json:"productId" binding:"required"`
	Qty           int                  `json:"qty" binding:"required,min=1"`
	Customization entity.Customization `json:"customization"`
}

type PlanDayIn struct {
	Date         string       `json:"date" binding:"required"` // 2006-01-02
	TimeSlotCode string       `json:"timeSlotCode" binding:"required"`
	Items        []PlanItemIn `json:"items" binding:"required,min=1"`
}

type CreatePlanReq struct {
	StartDate string      `json:"startDate" binding:"required"`
	Days      int         `json:"days" binding:"required"`
	Schedule  []PlanDayIn `json:"schedule" binding:"required"`

	CustomerName string  `json:"customerName" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Address      string  `json:"address" binding:"required"`
	AddressNote  string  `json:"addressNote"`
	Lat          float64 `json:"lat" binding:"required"`
	Lng          float64 `json:"lng" binding:"required"`
}

// CreatePlan validates duration, schedule shape and the sequencing rule,
// then persists the plan with payment still open. The earliest-start check
// runs again inside the transaction under the per-customer lock, so two
// concurrent requests cannot both commit overlapping windows.
func (s *PlanService) CreatePlan(userID uint, req *CreatePlanReq) (*entity.FreshPlan, error) {
	if req.Days < MinPlanDays || req.Days > MaxPlanDays {
		return nil, &apperr.InvalidDuration{Days: req.Days, Min: MinPlanDays, Max: MaxPlanDays}
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, s.Now().Location())
	if err != nil {
		return nil, &apperr.Validation{Msg: "startDate must be YYYY-MM-DD"}
	}
	if len(req.Schedule) != req.Days {
		return nil, &apperr.Validation{Msg: "schedule must cover every plan day"}
	}

	// reject out-of-range addresses before anything persists
	if _, _, err := s.Pricing.QuoteFor(geo.Point{Lat: req.Lat, Lng: req.Lng}, 0); err != nil {
		return nil, err
	}

	drafts := make([]entity.PlanScheduleDraft, 0, req.Days)
	for i, d := range req.Schedule {
		date, err := time.ParseInLocation("2006-01-02", d.Date, start.Location())
		if err != nil {
			return nil, &apperr.Validation{Msg: "schedule date must be YYYY-MM-DD"}
		}
		if !date.Equal(start.AddDate(0, 0, i)) {
			return nil, &apperr.Validation{Msg: "schedule dates must run consecutively from startDate"}
		}
		if _, ok := timeslot.ByCode(d.TimeSlotCode); !ok {
			return nil, &apperr.Validation{Msg: "unknown time slot " + d.TimeSlotCode}
		}
		draft := entity.PlanScheduleDraft{Date: date, TimeSlotCode: d.TimeSlotCode}
		for _, it := range d.Items {
			p, err := s.Products.GetBasics(it.ProductID)
			if err != nil {
				return nil, err
			}
			if !p.Active {
				return nil, &apperr.Validation{Msg: "product " + p.Name + " is unavailable"}
			}
			if err := it.Customization.Validate(p.Category); err != nil {
				return nil, &apperr.Validation{Msg: err.Error()}
			}
			draft.Items = append(draft.Items, entity.PlanDraftItem{
				ProductID:     it.ProductID,
				Qty:           it.Qty,
				Customization: it.Customization,
			})
		}
		drafts = append(drafts, draft)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := s.Now()
	var plan entity.FreshPlan
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		earliest, err := s.earliestStartTx(tx, userID, now)
		if err != nil {
			return err
		}
		if start.Before(earliest) {
			return &apperr.StartDateConflict{Requested: start, Earliest: earliest}
		}
		plan = entity.FreshPlan{
			UserID:       userID,
			Days:         req.Days,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, req.Days-1),
			CustomerName: req.CustomerName,
			Phone:        req.Phone,
			Address:      req.Address,
			AddressNote:  req.AddressNote,
			Lat:          req.Lat,
			Lng:          req.Lng,
			Schedule:     drafts,
		}
		return s.Plans.Create(tx, &plan)
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ConfirmPayment consumes the externally-verified payment-complete signal
// and materializes the plan into an order with one day unit per date. Only
// the plan owner may deliver the signal; strangers see not-found. The flag
// flip is guarded, so a duplicate signal returns the existing order.
func (s *PlanService) ConfirmPayment(userID, planID uint) (*entity.Order, error) {
	var order entity.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		plan, err := s.Plans.Get(tx, planID)
		if err != nil {
			return err
		}
		if plan.UserID != userID {
			return apperr.ErrNotFound
		}
		affected, err := s.Plans.MarkPaymentCompleteGuard(tx, planID)
		if err != nil {
			return err
		}
		if affected == 0 {
			if plan.OrderID == nil {
				return &apperr.Validation{Msg: "plan payment already in progress"}
			}
			existing, err := s.Orders.GetOrder(tx, *plan.OrderID)
			if err != nil {
				return err
			}
			order = *existing
			return nil
		}

		var subtotal int64
		type priced struct {
			draft entity.PlanDraftItem
			p     entity.Product
		}
		byDay := make([][]priced, len(plan.Schedule))
		for i, d := range plan.Schedule {
			for _, it := range d.Items {
				p, err := s.Products.GetBasics(it.ProductID)
				if err != nil {
					return err
				}
				subtotal += p.Price * int64(it.Qty)
				byDay[i] = append(byDay[i], priced{draft: it, p: p})
			}
		}

		quote, _, err := s.Pricing.QuoteFor(geo.Point{Lat: plan.Lat, Lng: plan.Lng}, subtotal)
		if err != nil {
			return err
		}
		// one delivery charge per plan day
		calculated := quote.Calculated * int64(plan.Days)
		applied := quote.Applied * int64(plan.Days)

		order = entity.Order{
			OrderNo:          utils.NewOrderNo("FP"),
			OrderType:        entity.OrderTypeFreshPlan,
			Status:           entity.OrderStatusPending,
			UserID:           plan.UserID,
			CustomerName:     plan.CustomerName,
			Phone:            plan.Phone,
			Address:          plan.Address,
			AddressNote:      plan.AddressNote,
			Lat:              plan.Lat,
			Lng:              plan.Lng,
			Subtotal:         subtotal,
			DeliveryCharge:   applied,
			CalculatedCharge: calculated,
			TotalAmount:      subtotal + applied,
			PlanID:           &plan.ID,
		}
		if err := s.Orders.CreateOrder(tx, &order); err != nil {
			return err
		}

		for i, d := range plan.Schedule {
			day := entity.PlanDay{
				OrderID:      order.ID,
				PlanID:       plan.ID,
				Date:         d.Date,
				TimeSlotCode: d.TimeSlotCode,
			}
			if err := s.Orders.CreateDay(tx, &day); err != nil {
				return err
			}
			for _, pr := range byDay[i] {
				oi := entity.OrderItem{
					OrderID:       order.ID,
					DayID:         &day.ID,
					ProductID:     pr.p.ID,
					Name:          pr.p.Name,
					Category:      pr.p.Category,
					Qty:           pr.draft.Qty,
					UnitPrice:     pr.p.Price,
					Total:         pr.p.Price * int64(pr.draft.Qty),
					TimeSlotCode:  d.TimeSlotCode,
					Customization: pr.draft.Customization,
				}
				if err := s.Orders.CreateOrderItem(tx, &oi); err != nil {
					return err
				}
			}
		}
		return s.Plans.BindOrder(tx, plan.ID, order.ID)
	})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		go s.Notifier.Notify("plan.checkout", &order)
	}
	return &order, nil
}

func (s *PlanService) ListForUser(userID uint) ([]entity.FreshPlan, error) {
	return s.Plans.ListForUser(userID)
}

func (s *PlanService) DetailForUser(userID, planID uint) (*entity.FreshPlan, error) {
	return s.Plans.GetForUser(userID, planID)
}
