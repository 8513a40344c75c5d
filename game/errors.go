package game

import (
	"errors"
	"fmt"
)

// InvalidActionError rejects an illegal player intent. It is expected,
// user facing and never mutates state.
type InvalidActionError struct {
	Msg string
}

func (e InvalidActionError) Error() string {
	return e.Msg
}

// FundingError aborts a buy-in or rebuy before any seat or chip change.
type FundingError struct {
	PlayerID uint64
	Amount   int64
	Msg      string
}

func (e FundingError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("insufficient funds for player %d amount %d", e.PlayerID, e.Amount)
}

// IntegrityError indicates a broken engine invariant, such as an
// exhausted deck or a missing table. The operation aborts and the error
// is logged rather than swallowed.
type IntegrityError struct {
	Msg string
}

func (e IntegrityError) Error() string {
	return e.Msg
}

func IsValidationError(err error) bool {
	var invalid InvalidActionError
	return errors.As(err, &invalid)
}

func IsFundingError(err error) bool {
	var funding FundingError
	return errors.As(err, &funding)
}
