package controllers

import (
	"strconv"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

type ChefController struct {
	Fulfillment *services.FulfillmentService
}

func NewChefController(f *services.FulfillmentService) *ChefController {
	return &ChefController{Fulfillment: f}
}

func unitKind(c *gin.Context) (repository.UnitKind, bool) {
	switch c.Param("kind") {
	case "orders":
		return repository.UnitOrder, true
	case "days":
		return repository.UnitDay, true
	}
	resp.BadRequest(c, "unit must be orders or days")
	return "", false
}

func unitID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "bad unit id")
		return 0, false
	}
	return uint(id), true
}

// GET /chef/queue?date=2006-01-02
func (cc *ChefController) Queue(c *gin.Context) {
	now := cc.Fulfillment.Now()
	date := now
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, now.Location())
		if err != nil {
			resp.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	out, err := cc.Fulfillment.Queue(date)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// PATCH /chef/:kind/:id/received
func (cc *ChefController) MarkReceived(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.MarkReceived(kind, id, utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

// PATCH /chef/:kind/:id/done
func (cc *ChefController) MarkDone(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.MarkDone(kind, id, utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

type CancelReq struct {
	Reason string `json:"reason" binding:"required"`
}

// PATCH /chef/:kind/:id/cancel — chef path, pending units only
func (cc *ChefController) Cancel(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	var req CancelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	kind, ok := unitKind(c)
	if !ok {
		return
	}
	u, err := cc.Fulfillment.Cancel(kind, id, req.Reason, utils.CurrentRole(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}
