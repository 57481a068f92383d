package controllers

import (
	"strconv"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

type CourierController struct {
	Fulfillment *services.FulfillmentService
}

func NewCourierController(f *services.FulfillmentService) *CourierController {
	return &CourierController{Fulfillment: f}
}

// GET /courier/jobs?limit=50
func (cc *CourierController) Jobs(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 || v > 200 {
			resp.BadRequest(c, "limit must be 1-200")
			return
		}
		limit = v
	}
	out, err := cc.Fulfillment.PickupQueue(limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type courierEventReq struct {
	// Device clock, kept only as display metadata.
	ReportedAt *time.Time `json:"reportedAt"`
	Reason     string     `json:"reason"`
}

func bindCourierEvent(c *gin.Context) (*courierEventReq, bool) {
	var req courierEventReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			resp.BadRequest(c, err.Error())
			return nil, false
		}
	}
	return &req, true
}

// PATCH /courier/:kind/:id/picked
func (cc *CourierController) MarkPicked(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	req, ok := bindCourierEvent(c)
	if !ok {
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.MarkPicked(kind, id, utils.CurrentUserID(c), req.ReportedAt)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

// PATCH /courier/:kind/:id/delivered
func (cc *CourierController) MarkDelivered(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	req, ok := bindCourierEvent(c)
	if !ok {
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.MarkDelivered(kind, id, req.ReportedAt)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

// PATCH /courier/:kind/:id/not-delivered
func (cc *CourierController) MarkNotDelivered(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	req, ok := bindCourierEvent(c)
	if !ok {
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.MarkNotDelivered(kind, id, req.Reason, req.ReportedAt)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}
