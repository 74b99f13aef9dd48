package roulette

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/fairness"
)

// EngineConfig tunes round timing.
type EngineConfig struct {
	BettingWindow time.Duration
	RoundGap      time.Duration
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.BettingWindow <= 0 {
		c.BettingWindow = 30 * time.Second
	}
	if c.RoundGap <= 0 {
		c.RoundGap = 5 * time.Second
	}
	return c
}

// Engine runs one round worker per active roulette table. Each worker loops
// forever: open a round with a seed commitment, wait out the betting window,
// settle every bet against the derived result, reveal the seed, pause, repeat.
type Engine struct {
	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc

	rounds      RoundStore
	bets        BetStore
	wallet      WalletService
	broadcaster Broadcaster
	logger      *slog.Logger
	cfg         EngineConfig
}

func NewEngine(rounds RoundStore, bets BetStore, wallet WalletService, broadcaster Broadcaster, logger *slog.Logger, cfg EngineConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cancels:     map[uuid.UUID]context.CancelFunc{},
		rounds:      rounds,
		bets:        bets,
		wallet:      wallet,
		broadcaster: broadcaster,
		logger:      logger,
		cfg:         cfg.withDefaults(),
	}
}

// StartTable launches the round worker for a table. Idempotent.
func (e *Engine) StartTable(table domain.RouletteTable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, running := e.cancels[table.ID]; running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancels[table.ID] = cancel
	w := &roundWorker{engine: e, table: table, logger: e.logger.With("table_id", table.ID)}
	go w.run(ctx)
}

// StopTable halts a table's worker after its current cycle.
func (e *Engine) StopTable(tableID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cancel, ok := e.cancels[tableID]; ok {
		cancel()
		delete(e.cancels, tableID)
	}
}

// Shutdown stops every worker.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, cancel := range e.cancels {
		cancel()
		delete(e.cancels, id)
	}
	e.logger.Info("roulette engine stopped")
}

type roundWorker struct {
	engine *Engine
	table  domain.RouletteTable
	logger *slog.Logger
}

func (w *roundWorker) run(ctx context.Context) {
	w.logger.Info("roulette worker started")
	for {
		if err := w.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				w.logger.Info("roulette worker stopped")
				return
			}
			w.logger.Error("round cycle failed", "error", err)
			if !sleep(ctx, w.engine.cfg.RoundGap) {
				return
			}
			continue
		}
		if !sleep(ctx, w.engine.cfg.RoundGap) {
			w.logger.Info("roulette worker stopped")
			return
		}
	}
}

// cycle runs exactly one round: commit, betting window, settle, reveal.
func (w *roundWorker) cycle(ctx context.Context) error {
	e := w.engine

	seed, err := fairness.GenerateServerSeed()
	if err != nil {
		return err
	}
	last, err := e.rounds.LatestRoundNumber(ctx, w.table.ID)
	if err != nil {
		return err
	}
	round := domain.RouletteRound{
		ID:            uuid.New(),
		TableID:       w.table.ID,
		RoundNumber:   last + 1,
		SeedHash:      fairness.HashSeed(seed),
		Status:        domain.RoundStatusBetting,
		BettingEndsAt: time.Now().Add(e.cfg.BettingWindow),
		CreatedAt:     time.Now(),
	}
	if err := e.rounds.Create(ctx, round); err != nil {
		return err
	}
	w.logger.Info("round opened", "round_number", round.RoundNumber, "seed_hash", round.SeedHash)
	e.broadcaster.BroadcastToTable(w.table.ID, domain.NewWSMessage(domain.MsgRoundCreated, domain.WSRoundCreated{
		RoundID:       round.ID,
		RoundNumber:   round.RoundNumber,
		SeedHash:      round.SeedHash,
		BettingEndsAt: round.BettingEndsAt,
	}))

	if !sleep(ctx, time.Until(round.BettingEndsAt)) {
		// Shutting down mid-window: settle anyway so no bet stays pending.
		settleCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return w.settle(settleCtx, round, seed)
	}
	return w.settle(ctx, round, seed)
}

func (w *roundWorker) settle(ctx context.Context, round domain.RouletteRound, seed string) error {
	e := w.engine
	result := fairness.Outcome(seed, round.RoundNumber)
	color := ColorOf(result)

	if err := e.rounds.Settle(ctx, round.ID, result, color, seed, time.Now()); err != nil {
		return err
	}

	bets, err := e.bets.FindByRound(ctx, round.ID)
	if err != nil {
		return err
	}
	for _, bet := range bets {
		if bet.Status != domain.BetStatusPending {
			continue
		}
		if err := w.settleBet(ctx, round, bet, result); err != nil {
			// Keep settling the rest; a stuck bet stays pending for
			// manual review.
			w.logger.Error("settle bet", "error", err, "bet_id", bet.ID)
		}
	}

	w.logger.Info("round settled",
		"round_number", round.RoundNumber, "result", result, "color", color, "bets", len(bets))
	e.broadcaster.BroadcastToTable(w.table.ID, domain.NewWSMessage(domain.MsgRoundSettled, domain.WSRoundSettled{
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		Result:      result,
		ResultColor: color,
		Seed:        seed,
	}))
	return nil
}

func (w *roundWorker) settleBet(ctx context.Context, round domain.RouletteRound, bet domain.RouletteBet, result int) error {
	if !BetWins(bet, result) {
		return w.engine.bets.Settle(ctx, bet.ID, decimal.Zero, domain.BetStatusLost)
	}
	payout := PayoutFor(bet)
	if err := w.engine.bets.Settle(ctx, bet.ID, payout, domain.BetStatusWon); err != nil {
		return err
	}
	ref := "roulette:" + round.ID.String()
	return w.engine.wallet.Deposit(ctx, bet.UserID, payout, domain.TxPayout, ref)
}

// sleep waits for d or until the context ends, reporting whether the full
// wait completed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
