package controllers

import (
	"strconv"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	Plans    *services.PlanService
	Schedule *services.ScheduleService
}

func NewPlanController(plans *services.PlanService, schedule *services.ScheduleService) *PlanController {
	return &PlanController{Plans: plans, Schedule: schedule}
}

// GET /plans/earliest-start
func (pc *PlanController) EarliestStart(c *gin.Context) {
	d, err := pc.Plans.EarliestAllowedStartDate(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"earliestStartDate": d.Format("2006-01-02")})
}

// POST /plans
func (pc *PlanController) Create(c *gin.Context) {
	var req services.CreatePlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	plan, err := pc.Plans.CreatePlan(utils.CurrentUserID(c), &req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, plan)
}

// GET /plans
func (pc *PlanController) List(c *gin.Context) {
	out, err := pc.Plans.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /plans/:id
func (pc *PlanController) Detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "bad plan id")
		return
	}
	out, err := pc.Plans.DetailForUser(utils.CurrentUserID(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type UpdateDaySlotReq struct {
	TimeSlotCode string `json:"timeSlotCode" binding:"required"`
}

// PATCH /plans/days/:id/slot — guarded by the mutability window
func (pc *PlanController) UpdateDaySlot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "bad day id")
		return
	}
	var req UpdateDaySlotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	day, err := pc.Schedule.UpdateDaySlot(utils.CurrentUserID(c), uint(id), req.TimeSlotCode)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, day)
}
