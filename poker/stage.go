package poker

import (
	"fmt"

	"github.com/jokeoa/goigaming/domain"
)

var stageOrder = map[domain.GameStage]domain.GameStage{
	domain.StageWaiting:  domain.StagePreflop,
	domain.StagePreflop:  domain.StageFlop,
	domain.StageFlop:     domain.StageTurn,
	domain.StageTurn:     domain.StageRiver,
	domain.StageRiver:    domain.StageShowdown,
	domain.StageShowdown: domain.StageWaiting,
}

// NextStage returns the stage that follows s in a normal hand.
func NextStage(s domain.GameStage) domain.GameStage {
	return stageOrder[s]
}

// ValidTransition reports whether moving from one stage to another is legal.
// Any betting stage may jump straight to showdown when a fold ends the hand
// or everyone is all-in.
func ValidTransition(from, to domain.GameStage) bool {
	if stageOrder[from] == to {
		return true
	}
	switch from {
	case domain.StagePreflop, domain.StageFlop, domain.StageTurn:
		return to == domain.StageShowdown
	}
	return false
}

// AdvanceStage validates and performs a stage transition.
func AdvanceStage(from, to domain.GameStage) (domain.GameStage, error) {
	if !ValidTransition(from, to) {
		return from, fmt.Errorf("stage %s to %s: %w", from, to, domain.ErrInvalidAction)
	}
	return to, nil
}

// cardsForStage is how many community cards each stage deals.
func cardsForStage(s domain.GameStage) int {
	switch s {
	case domain.StageFlop:
		return 3
	case domain.StageTurn, domain.StageRiver:
		return 1
	}
	return 0
}
