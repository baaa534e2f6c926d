package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. MalformedBoard is fatal to a generation attempt and is
// detected eagerly at Board construction; InvalidAction terminates only the
// search branch that issued it; ConveyorFull is a normal rejected-tap
// outcome inside search, not an error condition for callers of the solver.
var (
	ErrMalformedBoard = errors.New("malformed board")
	ErrInvalidAction  = errors.New("invalid action")
	ErrConveyorFull   = errors.New("conveyor full")
)

// MalformedBoardError carries the reason and offending cells of an
// invariant violation.
type MalformedBoardError struct {
	Reason string
	Cells  []Pos
}

func (e *MalformedBoardError) Error() string {
	if len(e.Cells) == 0 {
		return fmt.Sprintf("malformed board: %s", e.Reason)
	}
	return fmt.Sprintf("malformed board: %s (first at %d,%d)", e.Reason, e.Cells[0].X, e.Cells[0].Y)
}

func (e *MalformedBoardError) Unwrap() error { return ErrMalformedBoard }
