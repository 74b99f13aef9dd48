package poker

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/cards"
	"github.com/jokeoa/goigaming/domain"
)

// ShowdownEntry is one unfolded player reaching showdown.
type ShowdownEntry struct {
	PlayerID   uuid.UUID
	SeatNumber int
	HoleCards  []cards.Card
}

// Settle evaluates every entry against the board and distributes each pot to
// its best eligible hand(s). Exact rank ties split a pot evenly; when the
// split leaves a cent remainder, it goes to the winner seated closest after
// the dealer.
func Settle(entries []ShowdownEntry, community []cards.Card, pots []domain.Pot, dealerSeat int) (domain.HandResult, error) {
	ranks := make(map[uuid.UUID]HandRank, len(entries))
	seats := make(map[uuid.UUID]int, len(entries))
	for _, e := range entries {
		r, err := BestHand(e.HoleCards, community)
		if err != nil {
			return domain.HandResult{}, err
		}
		ranks[e.PlayerID] = r
		seats[e.PlayerID] = e.SeatNumber
	}

	payouts := map[uuid.UUID]decimal.Decimal{}
	for _, pot := range pots {
		winners := potWinners(pot.Eligible, ranks)
		if len(winners) == 0 {
			continue
		}
		splitPot(pot.Amount, winners, seats, dealerSeat, payouts)
	}

	var result domain.HandResult
	ordered := make([]uuid.UUID, 0, len(payouts))
	for id := range payouts {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return seatDistance(dealerSeat, seats[ordered[i]]) < seatDistance(dealerSeat, seats[ordered[j]])
	})
	for _, id := range ordered {
		result.Winners = append(result.Winners, domain.WinnerInfo{
			PlayerID: id,
			Amount:   payouts[id],
			HandName: ranks[id].Name(),
		})
	}
	return result, nil
}

// AwardUncontested pays the whole pot to the last unfolded player.
func AwardUncontested(playerID uuid.UUID, pot decimal.Decimal) domain.HandResult {
	return domain.HandResult{
		Winners: []domain.WinnerInfo{{PlayerID: playerID, Amount: pot}},
	}
}

// potWinners returns the eligible players whose ranks exactly tie for best.
func potWinners(eligible []uuid.UUID, ranks map[uuid.UUID]HandRank) []uuid.UUID {
	var best []uuid.UUID
	var bestRank HandRank
	for _, id := range eligible {
		r, ok := ranks[id]
		if !ok {
			continue
		}
		if len(best) == 0 {
			best = []uuid.UUID{id}
			bestRank = r
			continue
		}
		switch r.Compare(bestRank) {
		case 1:
			best = []uuid.UUID{id}
			bestRank = r
		case 0:
			best = append(best, id)
		}
	}
	return best
}

// splitPot divides amount evenly among winners at cent precision and gives
// any remainder to the winner closest after the dealer.
func splitPot(amount decimal.Decimal, winners []uuid.UUID, seats map[uuid.UUID]int, dealerSeat int, payouts map[uuid.UUID]decimal.Decimal) {
	n := int64(len(winners))
	share := amount.Div(decimal.NewFromInt(n)).RoundDown(2)
	remainder := amount.Sub(share.Mul(decimal.NewFromInt(n)))

	sorted := make([]uuid.UUID, len(winners))
	copy(sorted, winners)
	sort.Slice(sorted, func(i, j int) bool {
		return seatDistance(dealerSeat, seats[sorted[i]]) < seatDistance(dealerSeat, seats[sorted[j]])
	})

	for i, id := range sorted {
		won := share
		if i == 0 {
			won = won.Add(remainder)
		}
		payouts[id] = payouts[id].Add(won)
	}
}

// seatDistance measures clockwise distance from the dealer, so the small
// blind side ranks first. Seats are treated as positions on a ring of
// practical table size.
func seatDistance(dealerSeat, seat int) int {
	const ring = 64
	d := (seat - dealerSeat + ring) % ring
	if d == 0 {
		d = ring
	}
	return d
}
