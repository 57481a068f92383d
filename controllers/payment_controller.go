package controllers

import (
	"strconv"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

// PaymentController consumes the externally-verified payment signal. The
// core never talks to a gateway; it only trusts this committed boolean.
type PaymentController struct {
	Plans *services.PlanService
}

func NewPaymentController(plans *services.PlanService) *PaymentController {
	return &PaymentController{Plans: plans}
}

// POST /payments/plans/:id/confirm — flips paymentComplete and materializes
// the plan into an order; retries return the same order
func (pc *PaymentController) ConfirmPlanPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		resp.BadRequest(c, "bad plan id")
		return
	}
	order, err := pc.Plans.ConfirmPayment(utils.CurrentUserID(c), uint(id))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}
