package poker

import (
	"fmt"
	"sort"

	"github.com/jokeoa/goigaming/cards"
)

type HandCategory int

const (
	HighCard HandCategory = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = map[HandCategory]string{
	HighCard:      "High Card",
	OnePair:       "One Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (c HandCategory) String() string {
	return categoryNames[c]
}

// HandRank is a totally ordered hand strength. Category decides first;
// Tiebreak holds rank values in significance order and breaks ties within a
// category. Two hands with equal Category and Tiebreak split the pot exactly.
type HandRank struct {
	Category HandCategory
	Tiebreak []int
}

// Compare returns +1, 0 or -1 as r beats, ties or loses to other.
func (r HandRank) Compare(other HandRank) int {
	if r.Category != other.Category {
		if r.Category > other.Category {
			return 1
		}
		return -1
	}
	for i := range r.Tiebreak {
		if i >= len(other.Tiebreak) {
			break
		}
		if r.Tiebreak[i] != other.Tiebreak[i] {
			if r.Tiebreak[i] > other.Tiebreak[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Name renders the category for display, with the ace-high straight flush
// called out as a royal flush.
func (r HandRank) Name() string {
	if r.Category == StraightFlush && len(r.Tiebreak) > 0 && r.Tiebreak[0] == 14 {
		return "Royal Flush"
	}
	return r.Category.String()
}

// Evaluate ranks the best five-card hand from 5 to 7 cards. Input order is
// irrelevant and the slice is not mutated.
func Evaluate(cs []cards.Card) (HandRank, error) {
	if len(cs) < 5 || len(cs) > 7 {
		return HandRank{}, fmt.Errorf("evaluate: want 5 to 7 cards, got %d", len(cs))
	}
	seen := map[cards.Card]bool{}
	for _, c := range cs {
		if seen[c] {
			return HandRank{}, fmt.Errorf("evaluate: duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(cs) == 5 {
		return rank5(cs), nil
	}

	best := HandRank{Category: -1}
	pick := make([]cards.Card, 5)
	n := len(cs)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2] = cs[a], cs[b], cs[c]
						pick[3], pick[4] = cs[d], cs[e]
						if r := rank5(pick); r.Compare(best) > 0 {
							best = r
						}
					}
				}
			}
		}
	}
	return best, nil
}

// BestHand ranks a player's hole cards together with the board.
func BestHand(hole, community []cards.Card) (HandRank, error) {
	all := make([]cards.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)
	return Evaluate(all)
}

// rank5 classifies exactly five cards.
func rank5(cs []cards.Card) HandRank {
	values := make([]int, 5)
	flush := true
	for i, c := range cs {
		values[i] = c.Value()
		if c.Suit != cs[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straightHigh := straightHighCard(values)

	if flush && straightHigh > 0 {
		return HandRank{Category: StraightFlush, Tiebreak: []int{straightHigh}}
	}

	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	// Group values by multiplicity, higher counts first, higher ranks first
	// within a count. The grouped order is exactly the tiebreak order.
	type group struct{ value, count int }
	groups := make([]group, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, group{v, c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	tiebreak := make([]int, len(groups))
	for i, g := range groups {
		tiebreak[i] = g.value
	}

	switch {
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: tiebreak}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreak: tiebreak}
	case flush:
		return HandRank{Category: Flush, Tiebreak: values}
	case straightHigh > 0:
		return HandRank{Category: Straight, Tiebreak: []int{straightHigh}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: tiebreak}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreak: tiebreak}
	case groups[0].count == 2:
		return HandRank{Category: OnePair, Tiebreak: tiebreak}
	default:
		return HandRank{Category: HighCard, Tiebreak: values}
	}
}

// straightHighCard returns the high card of a straight formed by the given
// descending values, or 0 if they do not form one. The wheel counts as a
// five-high straight.
func straightHighCard(desc []int) int {
	for i := 1; i < 5; i++ {
		if desc[i] != desc[i-1]-1 {
			// A-5-4-3-2 sorts as 14,5,4,3,2.
			if i == 1 && desc[0] == 14 && desc[1] == 5 &&
				desc[2] == 4 && desc[3] == 3 && desc[4] == 2 {
				return 5
			}
			return 0
		}
	}
	return desc[0]
}
