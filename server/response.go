package server

import (
	"errors"
	"net/http"

	"github.com/jokeoa/goigaming/domain"
)

// Response is the envelope every REST endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func okResponse(data any) Response {
	return Response{Success: true, Data: data}
}

func errorResponse(err error) Response {
	return Response{Success: false, Error: rootMessage(err)}
}

// rootMessage strips the internal call-site prefixes so clients see only the
// terminal cause.
func rootMessage(err error) string {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err.Error()
		}
		err = unwrapped
	}
}

// statusFor maps domain errors onto HTTP status codes. Anything unrecognized
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, domain.ErrTableNotFound),
		errors.Is(err, domain.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrAlreadySeated),
		errors.Is(err, domain.ErrSeatTaken),
		errors.Is(err, domain.ErrTableFull),
		errors.Is(err, domain.ErrOptimisticLock),
		errors.Is(err, domain.ErrRoundAlreadySpun):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInsufficientChips):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBuyInTooSmall),
		errors.Is(err, domain.ErrBuyInTooLarge),
		errors.Is(err, domain.ErrInvalidBetType),
		errors.Is(err, domain.ErrInvalidBetValue),
		errors.Is(err, domain.ErrBetBelowMinimum),
		errors.Is(err, domain.ErrBetAboveMaximum),
		errors.Is(err, domain.ErrBetTooSmall),
		errors.Is(err, domain.ErrRaiseTooSmall):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrPlayerFolded),
		errors.Is(err, domain.ErrNotAtTable),
		errors.Is(err, domain.ErrTableNotWaiting),
		errors.Is(err, domain.ErrTableFrozen),
		errors.Is(err, domain.ErrHandInProgress),
		errors.Is(err, domain.ErrNoHandInPlay),
		errors.Is(err, domain.ErrBettingClosed),
		errors.Is(err, domain.ErrSeedNotRevealed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
