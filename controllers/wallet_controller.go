package controllers

import (
	"github.com/Strmly-Technologies/Delivery-Page-sub000/pkg/resp"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/services"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"github.com/gin-gonic/gin"
)

type WalletController struct {
	Wallet *services.WalletService
}

func NewWalletController(w *services.WalletService) *WalletController {
	return &WalletController{Wallet: w}
}

// GET /wallet
func (wc *WalletController) Overview(c *gin.Context) {
	out, err := wc.Wallet.Overview(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

type WithdrawReq struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// POST /wallet/withdrawals
func (wc *WalletController) RequestWithdrawal(c *gin.Context) {
	var req WithdrawReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	w, err := wc.Wallet.RequestWithdrawal(utils.CurrentUserID(c), req.Amount)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, w)
}
