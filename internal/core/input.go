// Package core provides the small shared types of pushbox: grid coordinates,
// directions and the move-script actions the CLI feeds into a collection.
// It has no dependencies so the engine stays pure and testable.
package core

import "fmt"

// Action represents a semantic game action, abstracted from how it was entered.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionUndo
	ActionRedo
	ActionReset
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUndo:
		return "Undo"
	case ActionRedo:
		return "Redo"
	case ActionReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// Dir returns the direction of a movement action.
// ok is false for actions that do not move the pusher.
func (a Action) Dir() (d Dir, ok bool) {
	switch a {
	case ActionUp:
		return DirUp, true
	case ActionDown:
		return DirDown, true
	case ActionLeft:
		return DirLeft, true
	case ActionRight:
		return DirRight, true
	default:
		return 0, false
	}
}

// ParseScript decodes a move script into actions.
//
// Letters follow LURD notation (u, d, l, r in either case). In addition
// '-' undoes, '+' redoes and '!' resets the level. Whitespace is ignored.
func ParseScript(script string) ([]Action, error) {
	actions := make([]Action, 0, len(script))
	for i := 0; i < len(script); i++ {
		ch := script[i]
		var a Action
		switch ch {
		case 'u', 'U':
			a = ActionUp
		case 'd', 'D':
			a = ActionDown
		case 'l', 'L':
			a = ActionLeft
		case 'r', 'R':
			a = ActionRight
		case '-':
			a = ActionUndo
		case '+':
			a = ActionRedo
		case '!':
			a = ActionReset
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return nil, fmt.Errorf("invalid move %q at offset %d", ch, i)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
