/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package arena

import "errors"

var (
	ErrNeedPlayers    = errors.New("need 2 valid players")
	ErrEmptyName      = errors.New("player name must not be empty")
	ErrNoSuchPlayer   = errors.New("no player at that position")
	ErrTooManyPlayers = errors.New("roster is full")
)

// ValidationError reports an action that was refused because its input or
// the current roster does not allow it. The arena is left unchanged.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(op string, err error) error {
	return &ValidationError{Op: op, Err: err}
}
