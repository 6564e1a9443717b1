// Package engine implements the pushbox puzzle engine: the tile grid, level
// validation and the move/undo/redo state machine of a single level.
//
// A Level starts Unvalidated. Validate checks its structure and, on success,
// makes it Ready and records the reset baseline. Only a Ready level accepts
// moves; blocked moves and undo/redo with empty history are silent no-ops
// reported through the returned bool.
package engine

import (
	"strings"

	"github.com/vovakirdan/pushbox/internal/core"
)

// State is the lifecycle state of a level.
type State int

const (
	StateUnvalidated State = iota
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnvalidated:
		return "Unvalidated"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// ChangeFunc receives the new tile of every cell that changes.
type ChangeFunc func(x, y int, t Tile)

// Level is one puzzle: its grid, the pusher position and move history.
type Level struct {
	name string
	meta map[string]string
	grid *Grid

	state         State
	validationErr error

	player core.Coord

	// Reset baseline captured by the last successful Validate.
	initial       *Grid
	initialPlayer core.Coord

	history History
	pushes  int

	onChange ChangeFunc
}

// NewLevel creates an unvalidated level that owns grid.
func NewLevel(name string, grid *Grid) *Level {
	return &Level{
		name: name,
		grid: grid,
	}
}

// ParseLevel builds a level from character rows.
func ParseLevel(name string, rows []string) (*Level, error) {
	g, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	return NewLevel(name, g), nil
}

// Name returns the level name.
func (l *Level) Name() string {
	return l.name
}

// SetName renames the level.
func (l *Level) SetName(name string) {
	l.name = name
}

// Metadata returns a copy of the level's key/value annotations, such as
// Author. It is nil when there are none.
func (l *Level) Metadata() map[string]string {
	if len(l.meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(l.meta))
	for k, v := range l.meta {
		out[k] = v
	}
	return out
}

// SetMetadata sets one annotation. An empty value removes the key.
func (l *Level) SetMetadata(key, value string) {
	if value == "" {
		delete(l.meta, key)
		return
	}
	if l.meta == nil {
		l.meta = make(map[string]string)
	}
	l.meta[key] = value
}

// Width returns the number of columns.
func (l *Level) Width() int {
	return l.grid.W
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return l.grid.H
}

// Grid returns a copy of the current grid.
func (l *Level) Grid() *Grid {
	return l.grid.Clone()
}

// Rows returns the current grid encoded as character rows.
func (l *Level) Rows() []string {
	return l.grid.Rows()
}

// State returns the lifecycle state.
func (l *Level) State() State {
	return l.state
}

// IsValid reports whether the level passed its last validation.
func (l *Level) IsValid() bool {
	return l.state == StateReady
}

// ValidationErr returns why the last Validate failed, or nil.
func (l *Level) ValidationErr() error {
	return l.validationErr
}

// Player returns the pusher position. Only meaningful on a Ready level.
func (l *Level) Player() core.Coord {
	return l.player
}

// SetChangeFunc installs the tile-change sink. Pass nil to detach.
func (l *Level) SetChangeFunc(fn ChangeFunc) {
	l.onChange = fn
}

// Tile returns the tile at (x, y).
func (l *Level) Tile(x, y int) (Tile, error) {
	return l.grid.Get(x, y)
}

// SetTile overwrites one cell. It returns false for out-of-bounds
// coordinates. Changing a cell drops the level back to Unvalidated.
func (l *Level) SetTile(x, y int, t Tile) bool {
	old, err := l.grid.Get(x, y)
	if err != nil {
		return false
	}
	if old == t {
		return true
	}
	l.put(core.C(x, y), t)
	l.state = StateUnvalidated
	l.validationErr = nil
	return true
}

// Validate runs the structural checks of ValidateGrid. On success the level
// becomes Ready and the current grid becomes the reset baseline. Calling it
// again without changes yields the same result.
func (l *Level) Validate() bool {
	player, err := ValidateGrid(l.grid)
	if err != nil {
		l.state = StateUnvalidated
		l.validationErr = err
		return false
	}

	l.player = player
	l.initial = l.grid.Clone()
	l.initialPlayer = player
	l.state = StateReady
	l.validationErr = nil
	return true
}

// Move tries to step the pusher in direction d, pushing a box if one is in
// the way. It reports whether anything moved. A blocked move changes nothing
// and leaves no history entry.
func (l *Level) Move(d core.Dir) (bool, error) {
	if l.state != StateReady {
		return false, ErrNotValidated
	}

	to := l.player.Step(d)
	target := l.grid.At(to)
	if target.IsWall() {
		return false, nil
	}

	m := Move{Dir: d, From: l.player}
	if target.HasBox() {
		beyond := to.Step(d)
		bt := l.grid.At(beyond)
		if bt.IsWall() || bt.HasBox() {
			return false, nil
		}
		m.Pushed = true
		m.BoxFrom = to
		m.BoxTo = beyond
	}

	l.apply(m)
	l.history.Push(m)
	return true, nil
}

// MoveUp moves the pusher up.
func (l *Level) MoveUp() (bool, error) { return l.Move(core.DirUp) }

// MoveDown moves the pusher down.
func (l *Level) MoveDown() (bool, error) { return l.Move(core.DirDown) }

// MoveLeft moves the pusher left.
func (l *Level) MoveLeft() (bool, error) { return l.Move(core.DirLeft) }

// MoveRight moves the pusher right.
func (l *Level) MoveRight() (bool, error) { return l.Move(core.DirRight) }

// Undo reverts the most recent move and makes it available to Redo.
func (l *Level) Undo() (bool, error) {
	if l.state != StateReady {
		return false, ErrNotValidated
	}
	m, ok := l.history.popUndo()
	if !ok {
		return false, nil
	}
	l.revert(m)
	return true, nil
}

// Redo re-applies the most recently undone move.
func (l *Level) Redo() (bool, error) {
	if l.state != StateReady {
		return false, ErrNotValidated
	}
	m, ok := l.history.popRedo()
	if !ok {
		return false, nil
	}
	l.apply(m)
	return true, nil
}

// Reset restores the grid captured by the last successful Validate and
// discards all history.
func (l *Level) Reset() error {
	if l.state != StateReady {
		return ErrNotValidated
	}
	for y := 0; y < l.grid.H; y++ {
		for x := 0; x < l.grid.W; x++ {
			c := core.C(x, y)
			l.put(c, l.initial.At(c))
		}
	}
	l.player = l.initialPlayer
	l.history.Clear()
	l.pushes = 0
	return nil
}

// CanUndo reports whether Undo would do anything.
func (l *Level) CanUndo() bool {
	return l.history.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (l *Level) CanRedo() bool {
	return l.history.CanRedo()
}

// MoveCount returns the number of moves on the undo stack.
func (l *Level) MoveCount() int {
	return l.history.UndoCount()
}

// PushCount returns how many of those moves pushed a box.
func (l *Level) PushCount() int {
	return l.pushes
}

// History returns the played moves in LURD notation, lower-case for walks
// and upper-case for pushes.
func (l *Level) History() string {
	var sb strings.Builder
	for _, m := range l.history.Moves() {
		sb.WriteByte(m.Letter())
	}
	return sb.String()
}

// IsSolved reports whether the level has boxes and none of them is off a goal.
func (l *Level) IsSolved() bool {
	return l.grid.Count(Tile.HasBox) > 0 && l.grid.Count(func(t Tile) bool { return t == Box }) == 0
}

// apply performs m on the grid.
func (l *Level) apply(m Move) {
	to := m.To()
	l.put(m.From, l.grid.At(m.From).Ground())
	l.put(to, l.grid.At(to).Ground().WithPlayer())
	if m.Pushed {
		l.put(m.BoxTo, l.grid.At(m.BoxTo).Ground().WithBox())
		l.pushes++
	}
	l.player = to
}

// revert undoes m on the grid.
func (l *Level) revert(m Move) {
	to := m.To()
	if m.Pushed {
		l.put(m.BoxTo, l.grid.At(m.BoxTo).Ground())
		l.put(to, l.grid.At(to).Ground().WithBox())
		l.pushes--
	} else {
		l.put(to, l.grid.At(to).Ground())
	}
	l.put(m.From, l.grid.At(m.From).Ground().WithPlayer())
	l.player = m.From
}

// put stores t at c and emits a change if the cell differs.
func (l *Level) put(c core.Coord, t Tile) {
	if l.grid.At(c) == t {
		return
	}
	l.grid.Set(c.X, c.Y, t)
	if l.onChange != nil {
		l.onChange(c.X, c.Y, t)
	}
}
