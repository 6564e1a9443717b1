package engine

import "github.com/vovakirdan/pushbox/internal/core"

// Move records one atomic step of the pusher.
// A push also carries the box's positions so undo can restore it.
type Move struct {
	Dir     core.Dir
	From    core.Coord
	Pushed  bool
	BoxFrom core.Coord
	BoxTo   core.Coord
}

// To returns the pusher's position after the move.
func (m Move) To() core.Coord {
	return m.From.Step(m.Dir)
}

// Letter returns the LURD letter of the move.
func (m Move) Letter() byte {
	return m.Dir.Letter(m.Pushed)
}

// History holds the undo and redo stacks of a level.
type History struct {
	undoStack []Move
	redoStack []Move
}

// Push adds a move to the undo stack.
// Clears the redo stack.
func (h *History) Push(m Move) {
	h.undoStack = append(h.undoStack, m)
	h.redoStack = nil
}

// popUndo moves the latest move from the undo stack to the redo stack.
func (h *History) popUndo() (Move, bool) {
	if len(h.undoStack) == 0 {
		return Move{}, false
	}
	m := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, m)
	return m, true
}

// popRedo moves the latest undone move back onto the undo stack.
func (h *History) popRedo() (Move, bool) {
	if len(h.redoStack) == 0 {
		return Move{}, false
	}
	m := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, m)
	return m, true
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// CanUndo returns true if there is a move to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is a move to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of moves on the undo stack.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of moves on the redo stack.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// Moves returns a copy of the undo stack, oldest first.
func (h *History) Moves() []Move {
	out := make([]Move, len(h.undoStack))
	copy(out, h.undoStack)
	return out
}
