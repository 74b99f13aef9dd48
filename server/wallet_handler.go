package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/wallet"
)

type WalletHandler struct {
	wallets *wallet.Service
}

func NewWalletHandler(wallets *wallet.Service) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

func (h *WalletHandler) GetWallet(c *gin.Context) {
	w, err := h.wallets.GetWallet(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(w))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *WalletHandler) Deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	userID := currentUserID(c)
	if err := h.wallets.Deposit(c.Request.Context(), userID, req.Amount, domain.TxDeposit, ""); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	w, err := h.wallets.GetWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(w))
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	userID := currentUserID(c)
	if err := h.wallets.Withdraw(c.Request.Context(), userID, req.Amount, domain.TxWithdraw, ""); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	w, err := h.wallets.GetWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(w))
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter := domain.TransactionFilter{
		UserID: currentUserID(c),
		Type:   domain.TransactionType(c.Query("type")),
		Limit:  limit,
		Offset: offset,
	}
	txs, err := h.wallets.Transactions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(txs))
}
