package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/roulette"
)

// RoundStarter begins the round cycle for a table, normally the roulette
// engine.
type RoundStarter interface {
	StartTable(table domain.RouletteTable)
}

type RouletteHandler struct {
	roulette *roulette.Service
	engine   RoundStarter
}

func NewRouletteHandler(rouletteSvc *roulette.Service, engine RoundStarter) *RouletteHandler {
	return &RouletteHandler{roulette: rouletteSvc, engine: engine}
}

type createRouletteTableRequest struct {
	Name   string          `json:"name" binding:"required"`
	MinBet decimal.Decimal `json:"min_bet" binding:"required"`
	MaxBet decimal.Decimal `json:"max_bet" binding:"required"`
}

func (h *RouletteHandler) CreateTable(c *gin.Context) {
	var req createRouletteTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	table, err := h.roulette.CreateTable(c.Request.Context(), req.Name, req.MinBet, req.MaxBet)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	h.engine.StartTable(table)
	c.JSON(http.StatusCreated, okResponse(table))
}

func (h *RouletteHandler) ListTables(c *gin.Context) {
	tables, err := h.roulette.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(tables))
}

func (h *RouletteHandler) CurrentRound(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	round, err := h.roulette.CurrentRound(c.Request.Context(), tableID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(round))
}

func (h *RouletteHandler) RoundHistory(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rounds, err := h.roulette.RoundHistory(c.Request.Context(), tableID, limit)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(rounds))
}

type placeBetRequest struct {
	BetType  domain.RouletteBetType `json:"bet_type" binding:"required"`
	BetValue string                 `json:"bet_value"`
	Amount   decimal.Decimal        `json:"amount" binding:"required"`
}

func (h *RouletteHandler) PlaceBet(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	bet, err := h.roulette.PlaceBet(c.Request.Context(), tableID, currentUserID(c), req.BetType, req.BetValue, req.Amount)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, okResponse(bet))
}

func (h *RouletteHandler) UserBets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	bets, err := h.roulette.UserBets(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(bets))
}

// VerifyRound lets anyone recheck the commit-reveal proof of a settled round.
func (h *RouletteHandler) VerifyRound(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("roundID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	valid, err := h.roulette.VerifyRound(c.Request.Context(), roundID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(gin.H{"valid": valid}))
}
