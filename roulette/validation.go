package roulette

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jokeoa/goigaming/domain"
)

// ValidateBet checks type and value before a bet is accepted. Amount limits
// are checked against the table separately.
func ValidateBet(betType domain.RouletteBetType, betValue string) error {
	switch betType {
	case domain.BetStraight:
		return validateNumbers(betValue, 1)
	case domain.BetSplit:
		return validateSplit(betValue)
	case domain.BetStreet:
		return validateStreet(betValue)
	case domain.BetCorner:
		return validateCorner(betValue)
	case domain.BetLine:
		return validateLine(betValue)
	case domain.BetRed, domain.BetBlack, domain.BetOdd, domain.BetEven,
		domain.BetLow, domain.BetHigh:
		if betValue != "" {
			return domain.ErrInvalidBetValue
		}
		return nil
	case domain.BetDozen, domain.BetColumn:
		n, err := strconv.Atoi(betValue)
		if err != nil || n < 1 || n > 3 {
			return domain.ErrInvalidBetValue
		}
		return nil
	}
	return domain.ErrInvalidBetType
}

func validateNumbers(value string, count int) error {
	parts := strings.Split(value, ",")
	if len(parts) != count {
		return domain.ErrInvalidBetValue
	}
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 36 {
			return domain.ErrInvalidBetValue
		}
	}
	return nil
}

// validateStreet requires one full row of the grid: n, n+1, n+2 where n
// starts a row.
func validateStreet(value string) error {
	if err := validateNumbers(value, 3); err != nil {
		return err
	}
	nums := sortedNumbers(value)
	a := nums[0]
	if a%3 != 1 || nums[1] != a+1 || nums[2] != a+2 {
		return domain.ErrInvalidBetValue
	}
	return nil
}

// validateCorner requires four pockets meeting at one grid intersection:
// n, n+1, n+3, n+4 where n is not in the rightmost column.
func validateCorner(value string) error {
	if err := validateNumbers(value, 4); err != nil {
		return err
	}
	nums := sortedNumbers(value)
	a := nums[0]
	if a < 1 || a%3 == 0 || a+4 > 36 {
		return domain.ErrInvalidBetValue
	}
	if nums[1] != a+1 || nums[2] != a+3 || nums[3] != a+4 {
		return domain.ErrInvalidBetValue
	}
	return nil
}

// validateLine requires two adjacent full rows: n through n+5 where n starts
// a row.
func validateLine(value string) error {
	if err := validateNumbers(value, 6); err != nil {
		return err
	}
	nums := sortedNumbers(value)
	a := nums[0]
	if a%3 != 1 || a+5 > 36 {
		return domain.ErrInvalidBetValue
	}
	for i := 1; i < 6; i++ {
		if nums[i] != a+i {
			return domain.ErrInvalidBetValue
		}
	}
	return nil
}

func sortedNumbers(value string) []int {
	nums := parseNumbers(value)
	sort.Ints(nums)
	return nums
}

// validateSplit requires two distinct adjacent pockets. Adjacency on the
// betting grid means consecutive numbers in the same row or the same column.
func validateSplit(value string) error {
	if err := validateNumbers(value, 2); err != nil {
		return err
	}
	nums := parseNumbers(value)
	a, b := nums[0], nums[1]
	if a == b {
		return domain.ErrInvalidBetValue
	}
	if a > b {
		a, b = b, a
	}
	// Zero splits with 1, 2 and 3.
	if a == 0 {
		if b >= 1 && b <= 3 {
			return nil
		}
		return domain.ErrInvalidBetValue
	}
	switch b - a {
	case 1:
		// Same row: 1-2 ok, 3-4 crosses rows.
		if (a-1)/3 == (b-1)/3 {
			return nil
		}
	case 3:
		return nil
	}
	return domain.ErrInvalidBetValue
}
