package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is the root of every "not allowed in this state" error.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotValidated is returned for play operations on a level that has
	// not passed Validate.
	ErrNotValidated = fmt.Errorf("%w: level is not validated", ErrInvalidOperation)

	// ErrOutOfBounds is returned for tile access outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrUnknownTile is returned when decoding a character that is not a tile.
	ErrUnknownTile = errors.New("unknown tile character")
)

// Validation failure codes, one per structural rule.
const (
	CodePlayerCount    = "PLAYER_COUNT"
	CodeOpenLevel      = "OPEN_LEVEL"
	CodeUnreachableBox = "UNREACHABLE_BOX"
	CodeBoxGoalCount   = "BOX_GOAL_COUNT"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
