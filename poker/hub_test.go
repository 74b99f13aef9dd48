package poker

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
)

// recordingBroadcaster captures every frame for assertions.
type recordingBroadcaster struct {
	mu       sync.Mutex
	table    []domain.WSMessage
	personal map[uuid.UUID][]domain.WSMessage
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{personal: map[uuid.UUID][]domain.WSMessage{}}
}

func (r *recordingBroadcaster) BroadcastToTable(_ uuid.UUID, msg domain.WSMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = append(r.table, msg)
}

func (r *recordingBroadcaster) SendToPlayer(_ uuid.UUID, userID uuid.UUID, msg domain.WSMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personal[userID] = append(r.personal[userID], msg)
}

func (r *recordingBroadcaster) tableMessages() []domain.WSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WSMessage, len(r.table))
	copy(out, r.table)
	return out
}

func (r *recordingBroadcaster) personalMessages(userID uuid.UUID) []domain.WSMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WSMessage, len(r.personal[userID]))
	copy(out, r.personal[userID])
	return out
}

type fakeWallet struct{}

func (fakeWallet) Withdraw(context.Context, uuid.UUID, decimal.Decimal, domain.TransactionType, string) error {
	return nil
}
func (fakeWallet) Deposit(context.Context, uuid.UUID, decimal.Decimal, domain.TransactionType, string) error {
	return nil
}

func testTable() domain.PokerTable {
	return domain.PokerTable{
		ID:         uuid.New(),
		Name:       "test",
		SmallBlind: d(5),
		BigBlind:   d(10),
		MinBuyIn:   d(40),
		MaxBuyIn:   d(500),
		MaxPlayers: 6,
		Status:     domain.TableStatusWaiting,
	}
}

func startHub(t *testing.T) (*TableHub, *recordingBroadcaster, context.CancelFunc) {
	t.Helper()
	rec := newRecordingBroadcaster()
	hub := NewTableHub(testTable(), HubDeps{
		Broadcaster: rec,
	}, HubConfig{TurnTimeout: time.Minute, HandGap: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, rec, cancel
}

func seatPlayer(t *testing.T, hub *TableHub, seat int, stack int64) domain.PokerPlayer {
	t.Helper()
	p := domain.PokerPlayer{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Username:   "player",
		SeatNumber: seat,
		Stack:      d(stack),
		Status:     domain.PlayerStatusActive,
	}
	require.NoError(t, hub.Join(context.Background(), p))
	return p
}

func findPlayer(state domain.WSTableState, userID uuid.UUID) (domain.WSPlayerInfo, bool) {
	for _, p := range state.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return domain.WSPlayerInfo{}, false
}

func TestHeadsUpHandToFlop(t *testing.T) {
	hub, rec, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	sb := seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)

	// Two players seated: a hand starts with blinds posted. Heads-up the
	// dealer posts the small blind and acts first.
	state, err := hub.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StagePreflop, state.Stage)
	assert.Equal(t, "15", state.Pot)

	sbInfo, ok := findPlayer(state, sb.UserID)
	require.True(t, ok)
	assert.Equal(t, "95", sbInfo.Stack)
	assert.True(t, sbInfo.IsTurn)

	bbInfo, ok := findPlayer(state, bb.UserID)
	require.True(t, ok)
	assert.Equal(t, "90", bbInfo.Stack)

	// Each player privately received exactly two hole cards.
	for _, p := range []domain.PokerPlayer{sb, bb} {
		var dealt int
		for _, msg := range rec.personalMessages(p.UserID) {
			if msg.Type == domain.MsgCardsDealt {
				dealt++
			}
		}
		assert.Equal(t, 1, dealt, "one cards_dealt frame per player")
	}

	// Small blind completes, big blind checks: flop comes, pot is 20.
	require.NoError(t, hub.HandleAction(ctx, sb.UserID, domain.ActionCall, decimal.Zero))
	require.NoError(t, hub.HandleAction(ctx, bb.UserID, domain.ActionCheck, decimal.Zero))

	state, err = hub.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFlop, state.Stage)
	assert.Len(t, state.CommunityCards, 3)
	assert.Equal(t, "20", state.Pot)

	sbInfo, _ = findPlayer(state, sb.UserID)
	bbInfo, _ = findPlayer(state, bb.UserID)
	assert.Equal(t, "90", sbInfo.Stack)
	assert.Equal(t, "90", bbInfo.Stack)
}

func TestActionOutOfTurnRejected(t *testing.T) {
	hub, _, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)

	before, err := hub.GetState(ctx)
	require.NoError(t, err)

	// Preflop heads-up the small blind acts first; the big blind may not.
	err = hub.HandleAction(ctx, bb.UserID, domain.ActionCheck, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	after, err := hub.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFoldAwardsPotUncontested(t *testing.T) {
	hub, rec, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	sb := seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)

	require.NoError(t, hub.HandleAction(ctx, sb.UserID, domain.ActionFold, decimal.Zero))

	state, err := hub.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StageWaiting, state.Stage)

	// Big blind keeps their 90 plus the 15 pot.
	bbInfo, ok := findPlayer(state, bb.UserID)
	require.True(t, ok)
	assert.Equal(t, "105", bbInfo.Stack)

	sbInfo, ok := findPlayer(state, sb.UserID)
	require.True(t, ok)
	assert.Equal(t, "95", sbInfo.Stack)

	var sawResult bool
	for _, msg := range rec.tableMessages() {
		if msg.Type == domain.MsgHandResult {
			sawResult = true
		}
	}
	assert.True(t, sawResult)
}

func TestBroadcastSequenceMonotonic(t *testing.T) {
	hub, rec, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	sb := seatPlayer(t, hub, 0, 100)
	seatPlayer(t, hub, 1, 100)
	require.NoError(t, hub.HandleAction(ctx, sb.UserID, domain.ActionCall, decimal.Zero))

	msgs := rec.tableMessages()
	require.NotEmpty(t, msgs)
	last := int64(0)
	for _, msg := range msgs {
		assert.Greater(t, msg.Seq, last, "sequence must strictly increase")
		last = msg.Seq
	}
}

func TestHoleCardsNeverBroadcast(t *testing.T) {
	hub, rec, cancel := startHub(t)
	defer cancel()

	seatPlayer(t, hub, 0, 100)
	seatPlayer(t, hub, 1, 100)

	for _, msg := range rec.tableMessages() {
		assert.NotEqual(t, domain.MsgCardsDealt, msg.Type,
			"hole cards must only travel on the per-player path")
	}
}

func TestJoinValidation(t *testing.T) {
	hub, _, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	p := seatPlayer(t, hub, 0, 100)

	dup := p
	dup.ID = uuid.New()
	err := hub.Join(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrAlreadySeated)
}

// memPlayers records stack writes so tests can assert persistence keys.
type memPlayers struct {
	mu     sync.Mutex
	stacks map[uuid.UUID]decimal.Decimal
}

func newMemPlayers() *memPlayers {
	return &memPlayers{stacks: map[uuid.UUID]decimal.Decimal{}}
}

func (m *memPlayers) Create(context.Context, domain.PokerPlayer) error { return nil }
func (m *memPlayers) FindByTableAndUser(context.Context, uuid.UUID, uuid.UUID) (domain.PokerPlayer, error) {
	return domain.PokerPlayer{}, domain.ErrNotFound
}
func (m *memPlayers) FindByTableID(context.Context, uuid.UUID) ([]domain.PokerPlayer, error) {
	return nil, nil
}
func (m *memPlayers) UpdateStack(_ context.Context, id uuid.UUID, stack decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stacks[id] = stack
	return nil
}
func (m *memPlayers) Delete(context.Context, uuid.UUID) error { return nil }

func TestStacksPersistedByPlayerID(t *testing.T) {
	rec := newRecordingBroadcaster()
	players := newMemPlayers()
	hub := NewTableHub(testTable(), HubDeps{
		Broadcaster: rec,
		Players:     players,
	}, HubConfig{TurnTimeout: time.Minute, HandGap: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sb := seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)
	require.NoError(t, hub.HandleAction(ctx, sb.UserID, domain.ActionFold, decimal.Zero))

	// Stacks are written under the player-row id, not the user id.
	players.mu.Lock()
	defer players.mu.Unlock()
	assert.Equal(t, "95", players.stacks[sb.ID].String())
	assert.Equal(t, "105", players.stacks[bb.ID].String())
	assert.NotContains(t, players.stacks, sb.UserID)
}

func TestMidHandJoinDoesNotFreeze(t *testing.T) {
	hub, rec, cancel := startHub(t)
	defer cancel()
	ctx := context.Background()

	sb := seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)

	// A third player sits down while the heads-up hand is in progress. Their
	// chips are outside the hand and must not trip the conservation check
	// when the hand settles.
	joiner := seatPlayer(t, hub, 2, 100)

	require.NoError(t, hub.HandleAction(ctx, sb.UserID, domain.ActionFold, decimal.Zero))

	state, err := hub.GetState(ctx)
	require.NoError(t, err)

	bbInfo, ok := findPlayer(state, bb.UserID)
	require.True(t, ok)
	assert.Equal(t, "105", bbInfo.Stack)

	joinerInfo, ok := findPlayer(state, joiner.UserID)
	require.True(t, ok)
	assert.Equal(t, "100", joinerInfo.Stack)

	for _, msg := range rec.tableMessages() {
		assert.NotEqual(t, domain.MsgError, msg.Type, "settling must not halt the table")
	}

	// The table still accepts play: the next hand deals all three in.
	err = hub.Join(ctx, domain.PokerPlayer{ID: uuid.New(), UserID: sb.UserID})
	assert.ErrorIs(t, err, domain.ErrAlreadySeated, "frozen tables reject joins with ErrTableFrozen")
}

func TestTurnTimeoutFoldsAndBenches(t *testing.T) {
	rec := newRecordingBroadcaster()
	hub := NewTableHub(testTable(), HubDeps{
		Broadcaster: rec,
	}, HubConfig{TurnTimeout: 50 * time.Millisecond, HandGap: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sb := seatPlayer(t, hub, 0, 100)
	bb := seatPlayer(t, hub, 1, 100)

	// Let the small blind's turn expire.
	require.Eventually(t, func() bool {
		state, err := hub.GetState(context.Background())
		if err != nil {
			return false
		}
		info, ok := findPlayer(state, sb.UserID)
		return ok && info.Status == domain.PlayerStatusSittingOut
	}, 2*time.Second, 20*time.Millisecond)

	state, err := hub.GetState(context.Background())
	require.NoError(t, err)
	bbInfo, ok := findPlayer(state, bb.UserID)
	require.True(t, ok)
	assert.Equal(t, "105", bbInfo.Stack, "pot awarded to the big blind")
}

func TestSitInReactivatesBenchedSeat(t *testing.T) {
	rec := newRecordingBroadcaster()
	hub := NewTableHub(testTable(), HubDeps{
		Broadcaster: rec,
	}, HubConfig{TurnTimeout: 50 * time.Millisecond, HandGap: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	sb := seatPlayer(t, hub, 0, 100)
	seatPlayer(t, hub, 1, 100)

	require.Eventually(t, func() bool {
		state, err := hub.GetState(context.Background())
		if err != nil {
			return false
		}
		info, ok := findPlayer(state, sb.UserID)
		return ok && info.Status == domain.PlayerStatusSittingOut
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, hub.SitIn(ctx, sb.UserID))

	// The seat is active again and the next hand deals them back in.
	state, err := hub.GetState(ctx)
	require.NoError(t, err)
	info, ok := findPlayer(state, sb.UserID)
	require.True(t, ok)
	assert.Equal(t, domain.PlayerStatusActive, info.Status)
	assert.Equal(t, domain.StagePreflop, state.Stage)

	err = hub.SitIn(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotAtTable)
}
