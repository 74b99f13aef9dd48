package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/poker"
)

type PokerHandler struct {
	poker *poker.Service
}

func NewPokerHandler(pokerSvc *poker.Service) *PokerHandler {
	return &PokerHandler{poker: pokerSvc}
}

type createTableRequest struct {
	Name       string          `json:"name" binding:"required"`
	SmallBlind decimal.Decimal `json:"small_blind" binding:"required"`
	BigBlind   decimal.Decimal `json:"big_blind" binding:"required"`
	MinBuyIn   decimal.Decimal `json:"min_buy_in" binding:"required"`
	MaxBuyIn   decimal.Decimal `json:"max_buy_in" binding:"required"`
	MaxPlayers int             `json:"max_players" binding:"required"`
}

func (h *PokerHandler) CreateTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	table, err := h.poker.CreateTable(c.Request.Context(), poker.CreateTableParams{
		Name:       req.Name,
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		MinBuyIn:   req.MinBuyIn,
		MaxBuyIn:   req.MaxBuyIn,
		MaxPlayers: req.MaxPlayers,
	})
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, okResponse(table))
}

func (h *PokerHandler) ListTables(c *gin.Context) {
	tables, err := h.poker.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(tables))
}

func (h *PokerHandler) GetTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	table, err := h.poker.GetTable(c.Request.Context(), tableID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(table))
}

func (h *PokerHandler) GetTableState(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	state, err := h.poker.GetTableState(c.Request.Context(), tableID)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(state))
}

func (h *PokerHandler) HandHistory(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	hands, err := h.poker.HandHistory(c.Request.Context(), tableID, limit)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(hands))
}

type joinTableRequest struct {
	BuyIn decimal.Decimal `json:"buy_in" binding:"required"`
	// Omitting seat_number takes the lowest free seat.
	SeatNumber *int `json:"seat_number"`
}

func (h *PokerHandler) JoinTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	var req joinTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	seat := -1
	if req.SeatNumber != nil {
		seat = *req.SeatNumber
	}
	player, err := h.poker.JoinTable(c.Request.Context(), tableID, currentUserID(c), currentUsername(c), seat, req.BuyIn)
	if err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(player))
}

func (h *PokerHandler) LeaveTable(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	if err := h.poker.LeaveTable(c.Request.Context(), tableID, currentUserID(c)); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(gin.H{"left": true}))
}

// SitIn brings a seat benched for turn timeouts back into play.
func (h *PokerHandler) SitIn(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	if err := h.poker.SitIn(c.Request.Context(), tableID, currentUserID(c)); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(gin.H{"sitting_in": true}))
}

type actRequest struct {
	Action domain.ActionType `json:"action" binding:"required"`
	Amount decimal.Decimal   `json:"amount"`
}

// Act is the REST fallback for betting actions; the websocket is the primary
// path.
func (h *PokerHandler) Act(c *gin.Context) {
	tableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	var req actRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(domain.ErrInvalidInput))
		return
	}
	if err := h.poker.Act(c.Request.Context(), tableID, currentUserID(c), req.Action, req.Amount); err != nil {
		c.JSON(statusFor(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, okResponse(gin.H{"accepted": true}))
}
