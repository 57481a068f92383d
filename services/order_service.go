package services

import (
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/apperr"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/geo"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"gorm.io/gorm"
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	Products *repository.ProductRepository
	Wallet   *WalletService

	Pricing *geo.Pricing
	SlotCfg timeslot.Config

	Notifier Notifier
	Now      func() time.Time
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, products *repository.ProductRepository, wallet *WalletService, pricing *geo.Pricing, slotCfg timeslot.Config, n Notifier) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, Products: products, Wallet: wallet,
		Pricing: pricing, SlotCfg: slotCfg, Notifier: n, Now: time.Now,
	}
}

// ----- DTOs -----

type OrderItemIn struct {
	ProductID     uint                 `json:"productId" binding:"required"`
	Qty           int                  `json:"qty" binding:"required,min=1"`
	Customization entity.Customization `json:"customization"`
}

type CheckoutReq struct {
	Items        []OrderItemIn `json:"items" binding:"required,min=1"`
	DeliveryDate string        `json:"deliveryDate" binding:"required"` // 2006-01-02
	TimeSlotCode string        `json:"timeSlotCode" binding:"required"`
	UseWallet    bool          `json:"useWallet"`

	CustomerName string  `json:"customerName" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Address      string  `json:"address" binding:"required"`
	AddressNote  string  `json:"addressNote"`
	Lat          float64 `json:"lat" binding:"required"`
	Lng          float64 `json:"lng" binding:"required"`
}

type CheckoutRes struct {
	ID               uint   `json:"id"`
	OrderNo          string `json:"orderNo"`
	Subtotal         int64  `json:"subtotal"`
	WalletDiscount   int64  `json:"walletDiscount"`
	DeliveryCharge   int64  `json:"deliveryCharge"`
	CalculatedCharge int64  `json:"calculatedCharge"`
	TotalAmount      int64  `json:"totalAmount"`
}

// Checkout places a quicksip order: slot validated against the calendar,
// delivery charge from the geofenced tiers (with the free-delivery waiver),
// optional wallet discount debited in the same transaction.
func (s *OrderService) Checkout(userID uint, req *CheckoutReq) (*CheckoutRes, error) {
	now := s.Now()
	date, err := time.ParseInLocation("2006-01-02", req.DeliveryDate, now.Location())
	if err != nil {
		return nil, &apperr.Validation{Msg: "deliveryDate must be YYYY-MM-DD"}
	}
	if dateOnly(date).Before(dateOnly(now)) {
		return nil, &apperr.Validation{Msg: "deliveryDate is in the past"}
	}
	if !slotBookable(now, date, req.TimeSlotCode, s.SlotCfg) {
		return nil, &apperr.Validation{Msg: "time slot " + req.TimeSlotCode + " is not available for " + req.DeliveryDate}
	}

	type priced struct {
		in OrderItemIn
		p  entity.Product
	}
	var subtotal int64
	rows := make([]priced, 0, len(req.Items))
	for _, it := range req.Items {
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
		subtotal += p.Price * int64(it.Qty)
		rows = append(rows, priced{in: it, p: p})
	}

	quote, _, err := s.Pricing.QuoteFor(geo.Point{Lat: req.Lat, Lng: req.Lng}, subtotal)
	if err != nil {
		return nil, err
	}

	var out CheckoutRes
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := entity.Order{
			OrderNo:          utils.NewOrderNo("QS"),
			OrderType:        entity.OrderTypeQuickSip,
			Status:           entity.OrderStatusPending,
			UserID:           userID,
			CustomerName:     req.CustomerName,
			Phone:            req.Phone,
			Address:          req.Address,
			AddressNote:      req.AddressNote,
			Lat:              req.Lat,
			Lng:              req.Lng,
			Subtotal:         subtotal,
			DeliveryCharge:   quote.Applied,
			CalculatedCharge: quote.Calculated,
			DeliveryDate:     &date,
			TimeSlotCode:     req.TimeSlotCode,
		}

		var walletDiscount int64
		if req.UseWallet {
			balance, err := s.Wallet.Users.WalletBalance(tx, userID)
			if err != nil {
				return err
			}
			walletDiscount = balance
			if walletDiscount > subtotal {
				walletDiscount = subtotal
			}
		}
		order.WalletDiscount = walletDiscount
		order.TotalAmount = subtotal - walletDiscount + quote.Applied

		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		if walletDiscount > 0 {
			if err := s.Wallet.RecordOrderDebit(tx, userID, order.ID, walletDiscount); err != nil {
				return err
			}
		}
		for _, r := range rows {
			oi := entity.OrderItem{
				OrderID:       order.ID,
				ProductID:     r.p.ID,
				Name:          r.p.Name,
				Category:      r.p.Category,
				Qty:           r.in.Qty,
				UnitPrice:     r.p.Price,
				Total:         r.p.Price * int64(r.in.Qty),
				TimeSlotCode:  req.TimeSlotCode,
				Customization: r.in.Customization,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}
		out = CheckoutRes{
			ID: order.ID, OrderNo: order.OrderNo,
			Subtotal: subtotal, WalletDiscount: walletDiscount,
			DeliveryCharge: quote.Applied, CalculatedCharge: quote.Calculated,
			TotalAmount: order.TotalAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		go s.Notifier.Notify("order.placed", &out)
	}
	return &out, nil
}

func slotBookable(now, date time.Time, code string, cfg timeslot.Config) bool {
	for _, sl := range timeslot.AvailableForDate(now, date, cfg) {
		if sl.Code == code {
			return true
		}
	}
	return false
}

// ----- Listings -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

type OrderDetail struct {
	Order entity.Order       `json:"order"`
	Items []entity.OrderItem `json:"items"`
	Days  []entity.PlanDay   `json:"days,omitempty"`
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	out := &OrderDetail{Order: *o}
	if o.OrderType == entity.OrderTypeFreshPlan {
		days, err := s.Repo.GetDaysForOrder(o.ID)
		if err != nil {
			return nil, err
		}
		for i := range days {
			items, err := s.Repo.GetDayItems(days[i].ID)
			if err != nil {
				return nil, err
			}
			days[i].Items = items
		}
		out.Days = days
		return out, nil
	}
	items, err := s.Repo.GetOrderItems(o.ID)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return out, nil
}

// Quote prices a prospective delivery without placing anything.
func (s *OrderService) Quote(lat, lng float64, subtotal int64) (*geo.Quote, float64, error) {
	q, d, err := s.Pricing.QuoteFor(geo.Point{Lat: lat, Lng: lng}, subtotal)
	if err != nil {
		return nil, d, err
	}
	return &q, d, nil
}
