package poker

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// Contribution is a player's total chips committed over the whole hand.
type Contribution struct {
	PlayerID uuid.UUID
	Amount   decimal.Decimal
	AllIn    bool
	Folded   bool
}

// BuildPots splits hand contributions into a main pot and side pots. Each
// all-in amount caps a tier; players who matched a tier are eligible for it.
// Folded players' chips stay in the pots they contributed to but folded
// players are never eligible.
func BuildPots(contribs []Contribution) []domain.Pot {
	levels := allInLevels(contribs)

	var pots []domain.Pot
	prev := decimal.Zero
	for _, level := range levels {
		if pot, ok := potBetween(contribs, prev, level); ok {
			pots = append(pots, pot)
		}
		prev = level
	}
	// Chips above the highest all-in level form the last pot.
	if pot, ok := potAbove(contribs, prev); ok {
		pots = append(pots, pot)
	}
	return pots
}

// allInLevels returns the distinct all-in contribution amounts, ascending.
func allInLevels(contribs []Contribution) []decimal.Decimal {
	var levels []decimal.Decimal
	for _, c := range contribs {
		if !c.AllIn || c.Folded || c.Amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		dup := false
		for _, l := range levels {
			if l.Equal(c.Amount) {
				dup = true
				break
			}
		}
		if !dup {
			levels = append(levels, c.Amount)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].LessThan(levels[j]) })
	return levels
}

// potBetween collects each player's chips between the floor and the ceiling.
func potBetween(contribs []Contribution, floor, ceiling decimal.Decimal) (domain.Pot, bool) {
	amount := decimal.Zero
	var eligible []uuid.UUID
	for _, c := range contribs {
		if c.Amount.LessThanOrEqual(floor) {
			continue
		}
		slice := decimal.Min(c.Amount, ceiling).Sub(floor)
		amount = amount.Add(slice)
		if !c.Folded && c.Amount.GreaterThanOrEqual(ceiling) {
			eligible = append(eligible, c.PlayerID)
		}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Pot{}, false
	}
	return domain.Pot{Amount: amount, Eligible: eligible}, true
}

// potAbove collects everything contributed past the last all-in level.
func potAbove(contribs []Contribution, floor decimal.Decimal) (domain.Pot, bool) {
	amount := decimal.Zero
	var eligible []uuid.UUID
	for _, c := range contribs {
		if c.Amount.LessThanOrEqual(floor) {
			continue
		}
		amount = amount.Add(c.Amount.Sub(floor))
		if !c.Folded {
			eligible = append(eligible, c.PlayerID)
		}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Pot{}, false
	}
	return domain.Pot{Amount: amount, Eligible: eligible}, true
}
