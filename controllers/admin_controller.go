package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/repository"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

type AdminController struct {
	Wallet      *services.WalletService
	Fulfillment *services.FulfillmentService
	Orders      *repository.OrderRepository
}

func NewAdminController(w *services.WalletService, f *services.FulfillmentService, o *repository.OrderRepository) *AdminController {
	return &AdminController{Wallet: w, Fulfillment: f, Orders: o}
}

// GET /admin/withdrawals?status=pending&limit=50
func (ac *AdminController) ListWithdrawals(c *gin.Context) {
	status := entity.WithdrawalStatus(c.DefaultQuery("status", string(entity.WithdrawalPending)))
	switch status {
	case entity.WithdrawalPending, entity.WithdrawalApproved, entity.WithdrawalRejected:
	default:
		resp.BadRequest(c, "status must be pending, approved or rejected")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := ac.Wallet.ListWithdrawals(status, limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type ProcessWithdrawalReq struct {
	Note string `json:"note"`
}

// PATCH /admin/withdrawals/:id/approve
func (ac *AdminController) ApproveWithdrawal(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	var req ProcessWithdrawalReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
	}
	w, err := ac.Wallet.Approve(id, req.Note)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, w)
}

// PATCH /admin/withdrawals/:id/reject
func (ac *AdminController) RejectWithdrawal(c *gin.Context) {
	id, ok := unitID(c)
	if !ok {
		return
	}
	var req ProcessWithdrawalReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
	}
	w, err := ac.Wallet.Reject(id, req.Note)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, w)
}

// PATCH /admin/:kind/:id/cancel — admin override, allowed until pickup
// even after the kitchen started.
func (ac *AdminController) Cancel(c *gin.Context) {
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
	u, err := ac.Fulfillment.Cancel(kind, id, req.Reason, entity.RoleAdmin)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, u)
}

// GET /admin/orders/export?from=2006-01-02&to=2006-01-02
func (ac *AdminController) ExportOrders(c *gin.Context) {
	now := ac.Fulfillment.Now()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)
	if q := c.Query("from"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, now.Location())
		if err != nil {
			resp.BadRequest(c, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := time.ParseInLocation("2006-01-02", q, now.Location())
		if err != nil {
			resp.BadRequest(c, "to must be YYYY-MM-DD")
			return
		}
		to = parsed.AddDate(0, 0, 1)
	}

	orders, err := ac.Orders.ListOrdersBetween(from, to, 0)
	if err != nil {
		resp.Error(c, err)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	headers := []string{
		"ID", "OrderNo", "Type", "Status", "Customer", "Phone",
		"Subtotal", "WalletDiscount", "DeliveryCharge", "CalculatedCharge",
		"Total", "DeliveryDate", "Slot", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID)
		row.AddCell().SetValue(o.OrderNo)
		row.AddCell().SetValue(string(o.OrderType))
		row.AddCell().SetValue(string(o.Status))
		row.AddCell().SetValue(o.CustomerName)
		row.AddCell().SetValue(o.Phone)
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.WalletDiscount)
		row.AddCell().SetValue(o.DeliveryCharge)
		row.AddCell().SetValue(o.CalculatedCharge)
		row.AddCell().SetValue(o.TotalAmount)
		if o.DeliveryDate != nil {
			row.AddCell().SetValue(o.DeliveryDate.Format("2006-01-02"))
		} else {
			row.AddCell().SetValue("")
		}
		row.AddCell().SetValue(o.TimeSlotCode)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	name := fmt.Sprintf("orders_%s.xlsx", now.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		resp.ServerError(c, err)
	}
}
