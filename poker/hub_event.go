package poker

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jokeoa/goigaming/domain"
)

// hubEvent is a request delivered to the hub goroutine. Replies go back over
// the event's own channel so callers can block without touching hub state.
type hubEvent interface {
	isHubEvent()
}

type joinEvent struct {
	player domain.PokerPlayer
	reply  chan error
}

type leaveReply struct {
	stack decimal.Decimal
	err   error
}

type leaveEvent struct {
	userID uuid.UUID
	reply  chan leaveReply
}

type actionEvent struct {
	userID uuid.UUID
	action domain.ActionType
	amount decimal.Decimal
	reply  chan error
}

type sitInEvent struct {
	userID uuid.UUID
	reply  chan error
}

type stateEvent struct {
	reply chan domain.WSTableState
}

func (joinEvent) isHubEvent()   {}
func (leaveEvent) isHubEvent()  {}
func (actionEvent) isHubEvent() {}
func (sitInEvent) isHubEvent()  {}
func (stateEvent) isHubEvent()  {}
