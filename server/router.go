package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Wallet   *WalletHandler
	Poker    *PokerHandler
	Roulette *RouletteHandler
	WS       *WSHub
	Tokens   TokenValidator
}

// NewRouter assembles the REST and websocket routes.
func NewRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(RequireAuth(h.Tokens))
	{
		protected.GET("/me", h.Auth.Me)
		protected.GET("/users/:username", h.Auth.Profile)

		protected.GET("/wallet", h.Wallet.GetWallet)
		protected.POST("/wallet/deposit", h.Wallet.Deposit)
		protected.POST("/wallet/withdraw", h.Wallet.Withdraw)
		protected.GET("/wallet/transactions", h.Wallet.Transactions)

		protected.POST("/poker/tables", h.Poker.CreateTable)
		protected.GET("/poker/tables", h.Poker.ListTables)
		protected.GET("/poker/tables/:id", h.Poker.GetTable)
		protected.GET("/poker/tables/:id/state", h.Poker.GetTableState)
		protected.GET("/poker/tables/:id/hands", h.Poker.HandHistory)
		protected.POST("/poker/tables/:id/join", h.Poker.JoinTable)
		protected.POST("/poker/tables/:id/leave", h.Poker.LeaveTable)
		protected.POST("/poker/tables/:id/act", h.Poker.Act)
		protected.POST("/poker/tables/:id/sitin", h.Poker.SitIn)

		protected.POST("/roulette/tables", h.Roulette.CreateTable)
		protected.GET("/roulette/tables", h.Roulette.ListTables)
		protected.GET("/roulette/tables/:id/round", h.Roulette.CurrentRound)
		protected.GET("/roulette/tables/:id/history", h.Roulette.RoundHistory)
		protected.POST("/roulette/tables/:id/bets", h.Roulette.PlaceBet)
		protected.GET("/roulette/bets", h.Roulette.UserBets)
		protected.GET("/roulette/rounds/:roundID/verify", h.Roulette.VerifyRound)
	}

	// Websocket auth travels in the query string, not a header.
	r.GET("/ws/tables/:id", h.WS.HandleConnection(h.Tokens))

	return r
}
