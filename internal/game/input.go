package game

import "github.com/gdamore/tcell/v2"

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveN
	ActionMoveS
	ActionMoveE
	ActionMoveW
	ActionMoveNE
	ActionMoveNW
	ActionMoveSE
	ActionMoveSW
	ActionAttack
	ActionRestart
	ActionNextLevel
	ActionReload
	ActionQuit
)

// KeyToAction maps a tcell key event to a game action.
func KeyToAction(ev *tcell.EventKey) Action {
	return ActionFor(ev.Key(), ev.Rune())
}

// ActionFor maps a key and its rune to a game action.
func ActionFor(key tcell.Key, r rune) Action {
	// Named keys.
	switch key {
	case tcell.KeyUp:
		return ActionMoveN
	case tcell.KeyDown:
		return ActionMoveS
	case tcell.KeyRight:
		return ActionMoveE
	case tcell.KeyLeft:
		return ActionMoveW
	case tcell.KeyF5:
		return ActionReload
	case tcell.KeyEscape:
		return ActionQuit
	}
	if key != tcell.KeyRune {
		return ActionNone
	}

	// Rune keys.
	switch r {
	case 'k', 'K', 'w', 'W':
		return ActionMoveN
	case 'j', 'J', 's', 'S':
		return ActionMoveS
	case 'l', 'L', 'd', 'D':
		return ActionMoveE
	case 'h', 'H', 'a', 'A':
		return ActionMoveW
	case 'y', 'Y':
		return ActionMoveNW
	case 'u', 'U':
		return ActionMoveNE
	case 'b', 'B':
		return ActionMoveSW
	case 'n', 'N':
		return ActionMoveSE
	case ' ', 'f', 'F':
		return ActionAttack
	case 'r', 'R':
		return ActionRestart
	case '>':
		return ActionNextLevel
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// ActionToDelta converts a movement action to (dx, dy). Y grows downward.
func ActionToDelta(a Action) (int, int) {
	switch a {
	case ActionMoveN:
		return 0, -1
	case ActionMoveS:
		return 0, 1
	case ActionMoveE:
		return 1, 0
	case ActionMoveW:
		return -1, 0
	case ActionMoveNE:
		return 1, -1
	case ActionMoveNW:
		return -1, -1
	case ActionMoveSE:
		return 1, 1
	case ActionMoveSW:
		return -1, 1
	}
	return 0, 0
}

// IsMove reports whether a is one of the eight movement actions.
func (a Action) IsMove() bool {
	return a >= ActionMoveN && a <= ActionMoveSW
}
