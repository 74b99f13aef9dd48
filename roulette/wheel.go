// Package roulette implements European single-zero roulette rounds with a
// commit-reveal fairness scheme and scheduled settlement.
package roulette

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns "red", "black" or "green" for a pocket.
func ColorOf(n int) string {
	switch {
	case n == 0:
		return "green"
	case redNumbers[n]:
		return "red"
	default:
		return "black"
	}
}

// multipliers are the winnings-to-stake ratios per bet type.
var multipliers = map[domain.RouletteBetType]int64{
	domain.BetStraight: 35,
	domain.BetSplit:    17,
	domain.BetStreet:   11,
	domain.BetCorner:   8,
	domain.BetLine:     5,
	domain.BetRed:      1,
	domain.BetBlack:    1,
	domain.BetOdd:      1,
	domain.BetEven:     1,
	domain.BetLow:      1,
	domain.BetHigh:     1,
	domain.BetDozen:    2,
	domain.BetColumn:   2,
}

// BetWins reports whether a bet covers the result. Zero loses every outside
// bet.
func BetWins(bet domain.RouletteBet, result int) bool {
	switch bet.BetType {
	case domain.BetStraight, domain.BetSplit, domain.BetStreet,
		domain.BetCorner, domain.BetLine:
		for _, n := range parseNumbers(bet.BetValue) {
			if n == result {
				return true
			}
		}
		return false
	case domain.BetRed:
		return ColorOf(result) == "red"
	case domain.BetBlack:
		return ColorOf(result) == "black"
	case domain.BetOdd:
		return result != 0 && result%2 == 1
	case domain.BetEven:
		return result != 0 && result%2 == 0
	case domain.BetLow:
		return result >= 1 && result <= 18
	case domain.BetHigh:
		return result >= 19 && result <= 36
	case domain.BetDozen:
		d, err := strconv.Atoi(bet.BetValue)
		return err == nil && result != 0 && (result-1)/12+1 == d
	case domain.BetColumn:
		c, err := strconv.Atoi(bet.BetValue)
		return err == nil && result != 0 && (result-1)%3+1 == c
	}
	return false
}

// PayoutFor is the total credited on a win: the stake plus winnings at the
// bet type's ratio. A $10 red win credits $20.
func PayoutFor(bet domain.RouletteBet) decimal.Decimal {
	mult, ok := multipliers[bet.BetType]
	if !ok {
		return decimal.Zero
	}
	return bet.Amount.Mul(decimal.NewFromInt(mult + 1))
}

func parseNumbers(value string) []int {
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
