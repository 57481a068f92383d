package controllers

import (
	"strconv"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/timeslot"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// POST /orders — quicksip checkout
func (oc *OrderController) Checkout(c *gin.Context) {
	var req services.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Orders.Checkout(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := oc.Orders.ListForUser(utils.CurrentUserID(c), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "bad order id")
		return
	}
	out, err := oc.Orders.DetailForUser(utils.CurrentUserID(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type QuoteReq struct {
	Lat      float64 `json:"lat" binding:"required"`
	Lng      float64 `json:"lng" binding:"required"`
	Subtotal int64   `json:"subtotal"`
}

// POST /orders/quote — price a delivery before checkout
func (oc *OrderController) Quote(c *gin.Context) {
	var req QuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	q, distance, err := oc.Orders.Quote(req.Lat, req.Lng, req.Subtotal)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"distanceKm": distance, "calculatedCharge": q.Calculated, "deliveryCharge": q.Applied})
}

// GET /slots?date=2006-01-02 — bookable slots; today gets the cutoff filter
func (oc *OrderController) Slots(c *gin.Context) {
	now := oc.Orders.Now()
	date := now
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, now.Location())
		if err != nil {
			resp.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	resp.OK(c, timeslot.AvailableForDate(now, date, oc.Orders.SlotCfg))
}
