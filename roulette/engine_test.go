package roulette

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/fairness"
)

type memRounds struct {
	mu     sync.Mutex
	rounds map[uuid.UUID]domain.RouletteRound
}

func newMemRounds() *memRounds {
	return &memRounds{rounds: map[uuid.UUID]domain.RouletteRound{}}
}

func (m *memRounds) Create(_ context.Context, round domain.RouletteRound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[round.ID] = round
	return nil
}

func (m *memRounds) FindByID(_ context.Context, id uuid.UUID) (domain.RouletteRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rounds[id]
	if !ok {
		return domain.RouletteRound{}, domain.ErrRoundNotFound
	}
	return r, nil
}

func (m *memRounds) FindCurrent(_ context.Context, tableID uuid.UUID) (domain.RouletteRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rounds {
		if r.TableID == tableID && r.Status == domain.RoundStatusBetting {
			return r, nil
		}
	}
	return domain.RouletteRound{}, domain.ErrRoundNotFound
}

func (m *memRounds) LatestRoundNumber(_ context.Context, tableID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var max int64
	for _, r := range m.rounds {
		if r.TableID == tableID && r.RoundNumber > max {
			max = r.RoundNumber
		}
	}
	return max, nil
}

func (m *memRounds) Settle(_ context.Context, id uuid.UUID, result int, color, seed string, settledAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.rounds[id]
	r.Result = &result
	r.ResultColor = color
	r.Seed = seed
	r.Status = domain.RoundStatusSettled
	r.SettledAt = &settledAt
	m.rounds[id] = r
	return nil
}

func (m *memRounds) FindSettled(_ context.Context, tableID uuid.UUID, limit int) ([]domain.RouletteRound, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RouletteRound
	for _, r := range m.rounds {
		if r.TableID == tableID && r.Status == domain.RoundStatusSettled && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memBets struct {
	mu     sync.Mutex
	bets   map[uuid.UUID]domain.RouletteBet
	rounds *memRounds
}

func newMemBets(rounds *memRounds) *memBets {
	return &memBets{bets: map[uuid.UUID]domain.RouletteBet{}, rounds: rounds}
}

// Create mirrors the postgres repo's status-guarded insert.
func (m *memBets) Create(ctx context.Context, bet domain.RouletteBet) error {
	round, err := m.rounds.FindByID(ctx, bet.RoundID)
	if err != nil || round.Status != domain.RoundStatusBetting {
		return domain.ErrBettingClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bets[bet.ID] = bet
	return nil
}

func (m *memBets) FindByRound(_ context.Context, roundID uuid.UUID) ([]domain.RouletteBet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RouletteBet
	for _, b := range m.bets {
		if b.RoundID == roundID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBets) FindByUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.RouletteBet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RouletteBet
	for _, b := range m.bets {
		if b.UserID == userID && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBets) Settle(_ context.Context, id uuid.UUID, payout decimal.Decimal, status domain.RouletteBetStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bets[id]
	b.Payout = payout
	b.Status = status
	m.bets[id] = b
	return nil
}

func (m *memBets) get(id uuid.UUID) domain.RouletteBet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bets[id]
}

type memTables struct {
	tables map[uuid.UUID]domain.RouletteTable
}

func (m *memTables) Create(_ context.Context, t domain.RouletteTable) error {
	m.tables[t.ID] = t
	return nil
}

func (m *memTables) FindByID(_ context.Context, id uuid.UUID) (domain.RouletteTable, error) {
	t, ok := m.tables[id]
	if !ok {
		return domain.RouletteTable{}, domain.ErrTableNotFound
	}
	return t, nil
}

func (m *memTables) FindActive(_ context.Context) ([]domain.RouletteTable, error) {
	var out []domain.RouletteTable
	for _, t := range m.tables {
		out = append(out, t)
	}
	return out, nil
}

type ledgerWallet struct {
	mu      sync.Mutex
	credits map[uuid.UUID]decimal.Decimal
	debits  map[uuid.UUID]decimal.Decimal
}

func newLedgerWallet() *ledgerWallet {
	return &ledgerWallet{
		credits: map[uuid.UUID]decimal.Decimal{},
		debits:  map[uuid.UUID]decimal.Decimal{},
	}
}

func (w *ledgerWallet) Withdraw(_ context.Context, userID uuid.UUID, amount decimal.Decimal, _ domain.TransactionType, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debits[userID] = w.debits[userID].Add(amount)
	return nil
}

func (w *ledgerWallet) Deposit(_ context.Context, userID uuid.UUID, amount decimal.Decimal, _ domain.TransactionType, _ string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credits[userID] = w.credits[userID].Add(amount)
	return nil
}

func (w *ledgerWallet) credited(userID uuid.UUID) decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.credits[userID]
}

type nullBroadcaster struct{}

func (nullBroadcaster) BroadcastToTable(uuid.UUID, domain.WSMessage) {}

func rouletteTable() domain.RouletteTable {
	return domain.RouletteTable{
		ID:     uuid.New(),
		Name:   "main",
		MinBet: decimal.NewFromInt(1),
		MaxBet: decimal.NewFromInt(1000),
		Status: domain.RouletteTableActive,
	}
}

func TestRoundSettlement(t *testing.T) {
	rounds := newMemRounds()
	bets := newMemBets(rounds)
	wallet := newLedgerWallet()
	table := rouletteTable()

	engine := NewEngine(rounds, bets, wallet, nullBroadcaster{}, nil, EngineConfig{})
	worker := &roundWorker{engine: engine, table: table, logger: engine.logger}

	ctx := context.Background()
	seed, err := fairness.GenerateServerSeed()
	require.NoError(t, err)
	round := domain.RouletteRound{
		ID:            uuid.New(),
		TableID:       table.ID,
		RoundNumber:   1,
		SeedHash:      fairness.HashSeed(seed),
		Status:        domain.RoundStatusBetting,
		BettingEndsAt: time.Now(),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, rounds.Create(ctx, round))

	result := fairness.Outcome(seed, round.RoundNumber)

	winner, loser := uuid.New(), uuid.New()
	winBet := domain.RouletteBet{
		ID: uuid.New(), RoundID: round.ID, UserID: winner,
		BetType: domain.BetStraight, BetValue: intValue(result),
		Amount: decimal.NewFromInt(5), Status: domain.BetStatusPending,
	}
	loseBet := domain.RouletteBet{
		ID: uuid.New(), RoundID: round.ID, UserID: loser,
		BetType: domain.BetStraight, BetValue: intValue((result + 1) % 37),
		Amount: decimal.NewFromInt(10), Status: domain.BetStatusPending,
	}
	require.NoError(t, bets.Create(ctx, winBet))
	require.NoError(t, bets.Create(ctx, loseBet))

	require.NoError(t, worker.settle(ctx, round, seed))

	settled, err := rounds.FindByID(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoundStatusSettled, settled.Status)
	require.NotNil(t, settled.Result)
	assert.Equal(t, result, *settled.Result)
	assert.Equal(t, ColorOf(result), settled.ResultColor)

	// The fairness proof verifies end to end.
	assert.True(t, fairness.VerifySeed(settled.Seed, settled.SeedHash))
	assert.Equal(t, *settled.Result, fairness.Outcome(settled.Seed, settled.RoundNumber))

	won := bets.get(winBet.ID)
	assert.Equal(t, domain.BetStatusWon, won.Status)
	assert.Equal(t, "180", won.Payout.String())
	assert.Equal(t, "180", wallet.credited(winner).String())

	lost := bets.get(loseBet.ID)
	assert.Equal(t, domain.BetStatusLost, lost.Status)
	assert.True(t, lost.Payout.IsZero())
	assert.True(t, wallet.credited(loser).IsZero())
}

func TestRedBetSettlement(t *testing.T) {
	rounds := newMemRounds()
	bets := newMemBets(rounds)
	wallet := newLedgerWallet()
	table := rouletteTable()

	engine := NewEngine(rounds, bets, wallet, nullBroadcaster{}, nil, EngineConfig{})
	worker := &roundWorker{engine: engine, table: table, logger: engine.logger}

	// Search for a seed whose outcome lands on red so the fixture matches
	// the documented $10 red -> $20 case.
	ctx := context.Background()
	var seed string
	for i := 0; i < 200; i++ {
		s, err := fairness.GenerateServerSeed()
		require.NoError(t, err)
		if ColorOf(fairness.Outcome(s, 1)) == "red" {
			seed = s
			break
		}
	}
	require.NotEmpty(t, seed, "no red outcome in 200 seeds")

	round := domain.RouletteRound{
		ID: uuid.New(), TableID: table.ID, RoundNumber: 1,
		SeedHash: fairness.HashSeed(seed), Status: domain.RoundStatusBetting,
		BettingEndsAt: time.Now(), CreatedAt: time.Now(),
	}
	require.NoError(t, rounds.Create(ctx, round))

	user := uuid.New()
	redBet := domain.RouletteBet{
		ID: uuid.New(), RoundID: round.ID, UserID: user,
		BetType: domain.BetRed, Amount: decimal.NewFromInt(10),
		Status: domain.BetStatusPending,
	}
	require.NoError(t, bets.Create(ctx, redBet))

	require.NoError(t, worker.settle(ctx, round, seed))

	won := bets.get(redBet.ID)
	assert.Equal(t, domain.BetStatusWon, won.Status)
	assert.Equal(t, "20", won.Payout.String())
	assert.Equal(t, "20", wallet.credited(user).String())
}

func TestPlaceBetWindow(t *testing.T) {
	rounds := newMemRounds()
	bets := newMemBets(rounds)
	wallet := newLedgerWallet()
	table := rouletteTable()
	tables := &memTables{tables: map[uuid.UUID]domain.RouletteTable{table.ID: table}}

	svc := NewService(tables, rounds, bets, wallet, nil)
	ctx := context.Background()
	user := uuid.New()

	// No open round yet.
	_, err := svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrRoundNotFound)

	open := domain.RouletteRound{
		ID: uuid.New(), TableID: table.ID, RoundNumber: 1,
		SeedHash: "h", Status: domain.RoundStatusBetting,
		BettingEndsAt: time.Now().Add(time.Minute), CreatedAt: time.Now(),
	}
	require.NoError(t, rounds.Create(ctx, open))

	bet, err := svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, domain.BetStatusPending, bet.Status)
	assert.Equal(t, open.ID, bet.RoundID)

	// Limits and validation.
	_, err = svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromFloat(0.5))
	assert.ErrorIs(t, err, domain.ErrBetBelowMinimum)
	_, err = svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromInt(5000))
	assert.ErrorIs(t, err, domain.ErrBetAboveMaximum)
	_, err = svc.PlaceBet(ctx, table.ID, user, domain.BetStraight, "99", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrInvalidBetValue)

	// Window closed.
	expired := domain.RouletteRound{
		ID: uuid.New(), TableID: table.ID, RoundNumber: 2,
		SeedHash: "h2", Status: domain.RoundStatusBetting,
		BettingEndsAt: time.Now().Add(-time.Second), CreatedAt: time.Now(),
	}
	rounds.rounds = map[uuid.UUID]domain.RouletteRound{expired.ID: expired}
	_, err = svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrBettingClosed)
}

// settlingBets settles the round between the service's window check and the
// insert, standing in for the engine closing the round concurrently.
type settlingBets struct {
	*memBets
}

func (s *settlingBets) Create(ctx context.Context, bet domain.RouletteBet) error {
	err := s.rounds.Settle(ctx, bet.RoundID, 0, ColorOf(0), "seed", time.Now())
	if err != nil {
		return err
	}
	return s.memBets.Create(ctx, bet)
}

func TestBetRacingSettlementIsRefunded(t *testing.T) {
	rounds := newMemRounds()
	bets := &settlingBets{memBets: newMemBets(rounds)}
	wallet := newLedgerWallet()
	table := rouletteTable()
	tables := &memTables{tables: map[uuid.UUID]domain.RouletteTable{table.ID: table}}

	svc := NewService(tables, rounds, bets, wallet, nil)
	ctx := context.Background()
	user := uuid.New()

	open := domain.RouletteRound{
		ID: uuid.New(), TableID: table.ID, RoundNumber: 1,
		SeedHash: "h", Status: domain.RoundStatusBetting,
		BettingEndsAt: time.Now().Add(time.Minute), CreatedAt: time.Now(),
	}
	require.NoError(t, rounds.Create(ctx, open))

	_, err := svc.PlaceBet(ctx, table.ID, user, domain.BetRed, "", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrBettingClosed)

	// No orphaned pending bet, and the debit was refunded in full.
	stored, err := bets.FindByRound(ctx, open.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, "10", wallet.credited(user).String())
}

func TestEngineRunsFullCycle(t *testing.T) {
	rounds := newMemRounds()
	bets := newMemBets(rounds)
	wallet := newLedgerWallet()
	table := rouletteTable()

	engine := NewEngine(rounds, bets, wallet, nullBroadcaster{}, nil, EngineConfig{
		BettingWindow: 30 * time.Millisecond,
		RoundGap:      10 * time.Millisecond,
	})
	engine.StartTable(table)
	defer engine.Shutdown()

	require.Eventually(t, func() bool {
		settled, err := rounds.FindSettled(context.Background(), table.ID, 10)
		return err == nil && len(settled) >= 2
	}, 3*time.Second, 20*time.Millisecond, "worker should settle consecutive rounds")

	// Round numbers are monotonic per table.
	n, err := rounds.LatestRoundNumber(context.Background(), table.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(2))
}

func intValue(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}
