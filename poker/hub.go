package poker

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
	"github.com/jokeoa/goigaming/domain"
	"github.com/jokeoa/goigaming/fairness"
)

// HubConfig tunes a table hub's timers.
type HubConfig struct {
	TurnTimeout time.Duration
	HandGap     time.Duration
}

func (c HubConfig) withDefaults() HubConfig {
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = 30 * time.Second
	}
	if c.HandGap <= 0 {
		c.HandGap = 3 * time.Second
	}
	return c
}

type timerKind int

const (
	timerNone timerKind = iota
	timerTurn
	timerNextHand
)

// TableHub owns all live state for one poker table. A single goroutine
// started by Run consumes events, so no state here needs locking. Callers
// interact only through Join, Leave, HandleAction and GetState.
type TableHub struct {
	tableID uuid.UUID
	state   *tableState
	events  chan hubEvent
	done    chan struct{}

	timer    *time.Timer
	timerFor timerKind
	turnUser uuid.UUID

	seq int64

	broadcaster Broadcaster
	players     PlayerStore
	tables      TableStore
	archive     HandArchive
	snapshots   SnapshotStore
	logger      *slog.Logger
	cfg         HubConfig
}

// HubDeps collects the hub's collaborators. Archive and Snapshots may be nil.
// Wallet movement happens in the Service; the hub only moves chips in play.
type HubDeps struct {
	Broadcaster Broadcaster
	Players     PlayerStore
	Tables      TableStore
	Archive     HandArchive
	Snapshots   SnapshotStore
	Logger      *slog.Logger
}

func NewTableHub(table domain.PokerTable, deps HubDeps, cfg HubConfig) *TableHub {
	if deps.Broadcaster == nil {
		deps.Broadcaster = NoopBroadcaster{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &TableHub{
		tableID:     table.ID,
		state:       newTableState(table),
		events:      make(chan hubEvent, 64),
		done:        make(chan struct{}),
		broadcaster: deps.Broadcaster,
		players:     deps.Players,
		tables:      deps.Tables,
		archive:     deps.Archive,
		snapshots:   deps.Snapshots,
		logger:      deps.Logger.With("table_id", table.ID),
		cfg:         cfg.withDefaults(),
	}
}

// Run processes events until the context is cancelled or Stop is called.
func (h *TableHub) Run(ctx context.Context) {
	h.logger.Info("table hub started")
	for {
		var timerC <-chan time.Time
		if h.timer != nil {
			timerC = h.timer.C
		}
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case <-h.done:
			h.shutdown()
			return
		case ev := <-h.events:
			h.handle(ev)
		case <-timerC:
			h.handleTimer()
		}
	}
}

// Stop shuts the hub down. Safe to call once.
func (h *TableHub) Stop() {
	close(h.done)
}

func (h *TableHub) shutdown() {
	h.clearTimer()
	h.persistStacks()
	h.logger.Info("table hub stopped")
}

// Join seats a player. The caller has already debited the buy-in; on error it
// must refund.
func (h *TableHub) Join(ctx context.Context, player domain.PokerPlayer) error {
	ev := joinEvent{player: player, reply: make(chan error, 1)}
	return h.send(ctx, ev, ev.reply)
}

// Leave unseats a player and returns the stack to credit back.
func (h *TableHub) Leave(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	ev := leaveEvent{userID: userID, reply: make(chan leaveReply, 1)}
	select {
	case h.events <- ev:
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	case <-h.done:
		return decimal.Zero, domain.ErrTableNotFound
	}
	select {
	case r := <-ev.reply:
		return r.stack, r.err
	case <-ctx.Done():
		return decimal.Zero, ctx.Err()
	}
}

// HandleAction applies a betting action for a player.
func (h *TableHub) HandleAction(ctx context.Context, userID uuid.UUID, action domain.ActionType, amount decimal.Decimal) error {
	ev := actionEvent{userID: userID, action: action, amount: amount, reply: make(chan error, 1)}
	return h.send(ctx, ev, ev.reply)
}

// SitIn returns a benched seat to play from the next hand.
func (h *TableHub) SitIn(ctx context.Context, userID uuid.UUID) error {
	ev := sitInEvent{userID: userID, reply: make(chan error, 1)}
	return h.send(ctx, ev, ev.reply)
}

// GetState returns the current public snapshot.
func (h *TableHub) GetState(ctx context.Context) (domain.WSTableState, error) {
	ev := stateEvent{reply: make(chan domain.WSTableState, 1)}
	select {
	case h.events <- ev:
	case <-ctx.Done():
		return domain.WSTableState{}, ctx.Err()
	case <-h.done:
		return domain.WSTableState{}, domain.ErrTableNotFound
	}
	select {
	case st := <-ev.reply:
		return st, nil
	case <-ctx.Done():
		return domain.WSTableState{}, ctx.Err()
	}
}

func (h *TableHub) send(ctx context.Context, ev hubEvent, reply chan error) error {
	select {
	case h.events <- ev:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return domain.ErrTableNotFound
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *TableHub) handle(ev hubEvent) {
	switch e := ev.(type) {
	case joinEvent:
		e.reply <- h.onJoin(e.player)
	case leaveEvent:
		stack, err := h.onLeave(e.userID)
		e.reply <- leaveReply{stack: stack, err: err}
	case actionEvent:
		e.reply <- h.onAction(e.userID, e.action, e.amount)
	case sitInEvent:
		e.reply <- h.onSitIn(e.userID)
	case stateEvent:
		e.reply <- h.state.snapshot()
	}
}

func (h *TableHub) onJoin(player domain.PokerPlayer) error {
	if h.state.frozen {
		return domain.ErrTableFrozen
	}
	if h.state.seatByUser(player.UserID) != nil {
		return domain.ErrAlreadySeated
	}
	if len(h.state.seats) >= h.state.table.MaxPlayers {
		return domain.ErrTableFull
	}
	h.state.seats = append(h.state.seats, &seatInfo{
		PlayerID:   player.ID,
		UserID:     player.UserID,
		Username:   player.Username,
		SeatNumber: player.SeatNumber,
		Stack:      player.Stack,
		Status:     domain.PlayerStatusActive,
	})
	h.logger.Info("player joined", "user_id", player.UserID, "seat", player.SeatNumber)
	h.broadcastState()
	h.maybeStartHand()
	return nil
}

func (h *TableHub) onLeave(userID uuid.UUID) (decimal.Decimal, error) {
	seat := h.state.seatByUser(userID)
	if seat == nil {
		return decimal.Zero, domain.ErrNotAtTable
	}
	// Leaving mid-hand folds first so the hand can finish.
	if h.state.hand != nil && !h.state.hand.folded[userID] {
		if next, err := h.state.hand.betting.Apply(userID, domain.ActionFold, decimal.Zero); err == nil {
			h.adoptBetting(next)
			h.afterAction(userID, domain.ActionFold, decimal.Zero)
		} else {
			h.markFoldedOutOfTurn(userID)
		}
	}
	stack := seat.Stack
	for i, s := range h.state.seats {
		if s.UserID == userID {
			h.state.seats = append(h.state.seats[:i], h.state.seats[i+1:]...)
			break
		}
	}
	h.logger.Info("player left", "user_id", userID, "stack", stack)
	h.broadcastState()
	return stack, nil
}

func (h *TableHub) onSitIn(userID uuid.UUID) error {
	seat := h.state.seatByUser(userID)
	if seat == nil {
		return domain.ErrNotAtTable
	}
	if seat.Status != domain.PlayerStatusSittingOut {
		return nil
	}
	seat.Status = domain.PlayerStatusActive
	seat.Timeouts = 0
	h.logger.Info("player sat back in", "user_id", userID)
	h.broadcastState()
	if h.state.hand == nil {
		h.maybeStartHand()
	}
	return nil
}

// markFoldedOutOfTurn folds a seat that is not the one to act, as when a
// player disconnects or leaves.
func (h *TableHub) markFoldedOutOfTurn(userID uuid.UUID) {
	hand := h.state.hand
	if hand == nil {
		return
	}
	for i := range hand.betting.Seats {
		if hand.betting.Seats[i].PlayerID == userID {
			hand.betting.Seats[i].IsFolded = true
			hand.betting.Seats[i].HasActed = true
			break
		}
	}
	hand.folded[userID] = true
	if seat := h.state.seatByUser(userID); seat != nil {
		seat.Status = domain.PlayerStatusFolded
	}
	h.checkStreet()
}

func (h *TableHub) onAction(userID uuid.UUID, action domain.ActionType, amount decimal.Decimal) error {
	if h.state.frozen {
		return domain.ErrTableFrozen
	}
	hand := h.state.hand
	if hand == nil {
		return domain.ErrNoHandInPlay
	}
	next, err := hand.betting.Apply(userID, action, amount)
	if err != nil {
		return err
	}
	if seat := h.state.seatByUser(userID); seat != nil {
		seat.Timeouts = 0
	}
	h.adoptBetting(next)
	h.afterAction(userID, action, amount)
	return nil
}

// adoptBetting installs a new betting state and records contribution deltas
// and status changes against the previous one.
func (h *TableHub) adoptBetting(next BettingState) {
	hand := h.state.hand
	prev := hand.betting
	for i := range next.Seats {
		delta := prev.Seats[i].Stack.Sub(next.Seats[i].Stack)
		id := next.Seats[i].PlayerID
		if delta.GreaterThan(decimal.Zero) {
			hand.contribs[id] = hand.contribs[id].Add(delta)
		}
		if next.Seats[i].IsFolded && !hand.folded[id] {
			hand.folded[id] = true
			if seat := h.state.seatByUser(id); seat != nil {
				seat.Status = domain.PlayerStatusFolded
			}
		}
		if next.Seats[i].IsAllIn && !hand.allIn[id] {
			hand.allIn[id] = true
			if seat := h.state.seatByUser(id); seat != nil {
				seat.Status = domain.PlayerStatusAllIn
			}
		}
		if seat := h.state.seatByUser(id); seat != nil {
			seat.Stack = next.Seats[i].Stack
		}
	}
	hand.betting = next
}

func (h *TableHub) afterAction(userID uuid.UUID, action domain.ActionType, amount decimal.Decimal) {
	h.broadcast(domain.MsgPlayerActed, domain.WSPlayerActed{
		UserID: userID,
		Action: action,
		Amount: amount.String(),
	})
	h.broadcast(domain.MsgPotUpdated, domain.WSPotUpdated{Pot: h.state.hand.betting.Pot.String()})
	h.checkStreet()
}

// checkStreet advances the hand when the current street is done, otherwise
// hands the turn to the next player.
func (h *TableHub) checkStreet() {
	hand := h.state.hand
	if hand == nil {
		return
	}
	if !hand.betting.IsComplete() {
		h.startTurn()
		return
	}
	if hand.betting.ActiveCount() <= 1 {
		h.finishUncontested()
		return
	}
	h.advanceStreet()
}

func (h *TableHub) advanceStreet() {
	hand := h.state.hand
	for {
		if hand.stage == domain.StageRiver {
			h.finishShowdown()
			return
		}
		next := NextStage(hand.stage)
		if err := h.dealCommunity(next); err != nil {
			h.freeze("community deal failed", err)
			return
		}
		hand.stage = next
		h.broadcast(domain.MsgCommunityCards, domain.WSCommunityCards{
			Stage: hand.stage,
			Cards: hand.community,
		})
		hand.betting = hand.betting.ResetForStreet(h.firstToActPostflop())
		h.broadcastState()
		// With one or zero players able to act the remaining streets
		// run out with no further betting.
		if hand.betting.CanAct() > 1 {
			h.startTurn()
			return
		}
	}
}

func (h *TableHub) dealCommunity(stage domain.GameStage) error {
	hand := h.state.hand
	n := cardsForStage(stage)
	if n == 0 {
		return nil
	}
	if err := hand.deck.Burn(); err != nil {
		return err
	}
	dealt, err := hand.deck.Draw(n)
	if err != nil {
		return err
	}
	hand.community = append(hand.community, dealt...)
	return nil
}

// maybeStartHand begins a new hand if the table is idle and two or more
// players can be dealt in.
func (h *TableHub) maybeStartHand() {
	if h.state.frozen || h.state.hand != nil {
		return
	}
	if len(h.state.activeSeats()) < 2 {
		return
	}
	if err := h.startHand(); err != nil {
		h.freeze("hand start failed", err)
	}
}

func (h *TableHub) startHand() error {
	seed, err := fairness.GenerateServerSeed()
	if err != nil {
		return err
	}
	h.state.handCount++
	nonce := h.state.handCount
	deckOrder := fairness.Shuffle(seed, h.tableID.String(), nonce)

	h.state.dealerSeat = h.state.nextDealer()
	active := h.state.activeSeats()
	sort.Slice(active, func(i, j int) bool { return active[i].SeatNumber < active[j].SeatNumber })

	seats := make([]SeatState, len(active))
	for i, s := range active {
		s.Status = domain.PlayerStatusActive
		seats[i] = SeatState{PlayerID: s.UserID, Stack: s.Stack}
	}

	hand := &handState{
		handID:     uuid.New(),
		handNumber: nonce,
		deck:       cards.NewDeck(deckOrder),
		seed:       seed,
		seedHash:   fairness.HashSeed(seed),
		nonce:      nonce,
		holeCards:  map[uuid.UUID][]cards.Card{},
		stage:      domain.StagePreflop,
		contribs:   map[uuid.UUID]decimal.Decimal{},
		allIn:      map[uuid.UUID]bool{},
		folded:     map[uuid.UUID]bool{},
		dealerSeat: h.state.dealerSeat,
		startedAt:  time.Now(),
	}

	dealerIdx := 0
	for i, s := range active {
		if s.SeatNumber == h.state.dealerSeat {
			dealerIdx = i
			break
		}
	}
	sbIdx := (dealerIdx + 1) % len(seats)
	bbIdx := (sbIdx + 1) % len(seats)
	if len(seats) == 2 {
		// Heads-up: the dealer posts the small blind.
		sbIdx = dealerIdx
		bbIdx = (dealerIdx + 1) % 2
	}
	firstToAct := (bbIdx + 1) % len(seats)

	bs := NewBettingState(seats, h.state.table.BigBlind, decimal.Zero, firstToAct)
	bs = bs.PostBlind(sbIdx, h.state.table.SmallBlind)
	bs = bs.PostBlind(bbIdx, h.state.table.BigBlind)
	bs.MinRaise = h.state.table.BigBlind
	hand.betting = bs
	hand.chipBaseline = bs.ChipTotal()

	for i := range bs.Seats {
		id := bs.Seats[i].PlayerID
		delta := seats[i].Stack.Sub(bs.Seats[i].Stack)
		if delta.GreaterThan(decimal.Zero) {
			hand.contribs[id] = delta
		}
		if seat := h.state.seatByUser(id); seat != nil {
			seat.Stack = bs.Seats[i].Stack
		}
	}

	// Two hole cards each, one at a time, starting left of the dealer.
	for round := 0; round < 2; round++ {
		for step := 1; step <= len(seats); step++ {
			idx := (dealerIdx + step) % len(seats)
			c, err := hand.deck.DrawOne()
			if err != nil {
				return err
			}
			id := seats[idx].PlayerID
			hand.holeCards[id] = append(hand.holeCards[id], c)
		}
	}

	h.state.hand = hand
	h.logger.Info("hand started", "hand_number", nonce, "players", len(seats), "seed_hash", hand.seedHash)

	h.broadcast(domain.MsgNewHand, domain.WSNewHand{
		HandNumber: nonce,
		SeedHash:   hand.seedHash,
		DealerSeat: h.state.dealerSeat,
	})
	for id, hole := range hand.holeCards {
		h.sendTo(id, domain.MsgCardsDealt, domain.WSCardsDealt{Cards: hole})
	}
	h.broadcastState()
	h.startTurn()
	return nil
}

// firstToActPostflop is the first unfolded, non-all-in player left of the
// dealer.
func (h *TableHub) firstToActPostflop() int {
	hand := h.state.hand
	active := h.activeBettingOrder()
	dealerIdx := 0
	for i, s := range active {
		if s == hand.dealerSeat {
			dealerIdx = i
			break
		}
	}
	n := len(hand.betting.Seats)
	for step := 1; step <= n; step++ {
		i := (dealerIdx + step) % n
		if !hand.betting.Seats[i].IsFolded && !hand.betting.Seats[i].IsAllIn {
			return i
		}
	}
	return 0
}

// activeBettingOrder maps betting seat indexes to table seat numbers.
func (h *TableHub) activeBettingOrder() []int {
	hand := h.state.hand
	out := make([]int, len(hand.betting.Seats))
	for i, bs := range hand.betting.Seats {
		for _, s := range h.state.seats {
			if s.UserID == bs.PlayerID {
				out[i] = s.SeatNumber
				break
			}
		}
	}
	return out
}

func (h *TableHub) startTurn() {
	hand := h.state.hand
	if hand == nil || hand.betting.Turn < 0 {
		return
	}
	h.turnUser = hand.betting.Seats[hand.betting.Turn].PlayerID
	deadline := time.Now().Add(h.cfg.TurnTimeout)
	h.broadcast(domain.MsgTurnChanged, domain.WSTurnChanged{UserID: h.turnUser, Deadline: deadline})
	h.setTimer(h.cfg.TurnTimeout, timerTurn)
}

func (h *TableHub) handleTimer() {
	kind := h.timerFor
	h.clearTimer()
	switch kind {
	case timerTurn:
		h.onTurnTimeout()
	case timerNextHand:
		h.maybeStartHand()
	}
}

// onTurnTimeout folds the slow player and benches them so following hands
// are not held up by an absent seat.
func (h *TableHub) onTurnTimeout() {
	hand := h.state.hand
	if hand == nil || h.state.frozen {
		return
	}
	userID := h.turnUser
	h.logger.Warn("turn timed out", "user_id", userID)
	if seat := h.state.seatByUser(userID); seat != nil {
		seat.Timeouts++
		seat.Status = domain.PlayerStatusSittingOut
	}
	next, err := hand.betting.Apply(userID, domain.ActionFold, decimal.Zero)
	if err != nil {
		h.markFoldedOutOfTurn(userID)
		return
	}
	h.adoptBetting(next)
	if seat := h.state.seatByUser(userID); seat != nil {
		seat.Status = domain.PlayerStatusSittingOut
	}
	h.afterAction(userID, domain.ActionFold, decimal.Zero)
}

func (h *TableHub) finishUncontested() {
	hand := h.state.hand
	var winner uuid.UUID
	for _, s := range hand.betting.Seats {
		if !s.IsFolded {
			winner = s.PlayerID
			break
		}
	}
	result := AwardUncontested(winner, hand.betting.Pot)
	h.settle(result)
}

func (h *TableHub) finishShowdown() {
	hand := h.state.hand
	hand.stage = domain.StageShowdown

	var contribs []Contribution
	for _, s := range hand.betting.Seats {
		contribs = append(contribs, Contribution{
			PlayerID: s.PlayerID,
			Amount:   hand.contribs[s.PlayerID],
			AllIn:    hand.allIn[s.PlayerID],
			Folded:   hand.folded[s.PlayerID],
		})
	}
	pots := BuildPots(contribs)

	var entries []ShowdownEntry
	order := h.activeBettingOrder()
	for i, s := range hand.betting.Seats {
		if s.IsFolded {
			continue
		}
		entries = append(entries, ShowdownEntry{
			PlayerID:   s.PlayerID,
			SeatNumber: order[i],
			HoleCards:  hand.holeCards[s.PlayerID],
		})
	}

	result, err := Settle(entries, hand.community, pots, hand.dealerSeat)
	if err != nil {
		h.freeze("showdown settlement failed", err)
		return
	}
	h.settle(result)
}

// settle credits winners, verifies chip conservation, archives the hand and
// schedules the next one.
func (h *TableHub) settle(result domain.HandResult) {
	hand := h.state.hand
	for _, w := range result.Winners {
		if seat := h.state.seatByUser(w.PlayerID); seat != nil {
			seat.Stack = seat.Stack.Add(w.Amount)
		}
	}

	// Conservation covers only the players dealt into this hand: seats that
	// joined mid-hand or sat out carry chips the baseline never saw.
	total := decimal.Zero
	for _, bs := range hand.betting.Seats {
		if seat := h.state.seatByUser(bs.PlayerID); seat != nil {
			total = total.Add(seat.Stack)
		} else {
			// Players who left mid-hand took their remaining stack with them.
			total = total.Add(bs.Stack)
		}
	}
	if !total.Equal(hand.chipBaseline) {
		h.freeze("chip conservation violated", nil)
		h.logger.Error("chip totals diverged",
			"expected", hand.chipBaseline, "got", total, "hand_number", hand.handNumber)
		return
	}

	h.broadcast(domain.MsgHandResult, domain.WSHandResult{
		Winners: result.Winners,
		Seed:    hand.seed,
		Nonce:   hand.nonce,
	})
	h.logger.Info("hand finished", "hand_number", hand.handNumber, "winners", len(result.Winners))

	h.archiveHand(result)
	h.persistStacks()

	for _, s := range h.state.seats {
		if s.Status != domain.PlayerStatusSittingOut {
			s.Status = domain.PlayerStatusActive
		}
	}
	h.state.hand = nil
	h.turnUser = uuid.Nil
	h.broadcastState()
	h.setTimer(h.cfg.HandGap, timerNextHand)
}

func (h *TableHub) archiveHand(result domain.HandResult) {
	if h.archive == nil {
		return
	}
	hand := h.state.hand
	rec := domain.PokerHand{
		ID:             hand.handID,
		TableID:        h.tableID,
		HandNumber:     hand.handNumber,
		CommunityCards: hand.community,
		Pot:            hand.betting.Pot,
		Winners:        result.Winners,
		SeedHash:       hand.seedHash,
		Seed:           hand.seed,
		StartedAt:      hand.startedAt,
		EndedAt:        time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.archive.Save(ctx, rec); err != nil {
		h.logger.Error("archive hand", "error", err, "hand_number", hand.handNumber)
	}
}

func (h *TableHub) persistStacks() {
	if h.players == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range h.state.seats {
		if err := h.players.UpdateStack(ctx, s.PlayerID, s.Stack); err != nil {
			h.logger.Error("persist stack", "error", err, "user_id", s.UserID)
		}
	}
}

// freeze halts the table after an internal invariant failure. No further
// actions are accepted until an operator intervenes.
func (h *TableHub) freeze(reason string, err error) {
	h.state.frozen = true
	h.clearTimer()
	h.logger.Error("table frozen", "reason", reason, "error", err)
	h.broadcast(domain.MsgError, domain.WSError{Message: "table halted: " + reason})
	if h.tables != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if uerr := h.tables.UpdateStatus(ctx, h.tableID, domain.TableStatusFrozen); uerr != nil {
			h.logger.Error("mark table frozen", "error", uerr)
		}
	}
}

func (h *TableHub) setTimer(d time.Duration, kind timerKind) {
	h.clearTimer()
	h.timer = time.NewTimer(d)
	h.timerFor = kind
}

func (h *TableHub) clearTimer() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.timerFor = timerNone
}

// broadcast stamps the next sequence number and fans the frame out to the
// whole table.
func (h *TableHub) broadcast(msgType string, payload any) {
	h.seq++
	msg := domain.NewWSMessage(msgType, payload)
	msg.Seq = h.seq
	h.broadcaster.BroadcastToTable(h.tableID, msg)
}

// sendTo stamps the next sequence number and delivers to one player only.
// Hole cards travel exclusively through this path.
func (h *TableHub) sendTo(userID uuid.UUID, msgType string, payload any) {
	h.seq++
	msg := domain.NewWSMessage(msgType, payload)
	msg.Seq = h.seq
	h.broadcaster.SendToPlayer(h.tableID, userID, msg)
}

func (h *TableHub) broadcastState() {
	snap := h.state.snapshot()
	h.broadcast(domain.MsgTableState, snap)
	if h.snapshots != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.snapshots.SaveTableState(ctx, h.tableID, snap); err != nil {
			h.logger.Warn("cache table state", "error", err)
		}
	}
}
