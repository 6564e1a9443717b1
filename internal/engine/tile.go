package engine

import "fmt"

// Tile is the content of one grid cell.
type Tile uint8

const (
	Wall Tile = iota
	Floor
	Goal
	Box
	BoxOnGoal
	Player
	PlayerOnGoal
)

// NoTile is the sentinel character returned when a tile cannot be read.
const NoTile byte = 0

// String returns the tile kind name.
func (t Tile) String() string {
	switch t {
	case Wall:
		return "Wall"
	case Floor:
		return "Floor"
	case Goal:
		return "Goal"
	case Box:
		return "Box"
	case BoxOnGoal:
		return "BoxOnGoal"
	case Player:
		return "Player"
	case PlayerOnGoal:
		return "PlayerOnGoal"
	default:
		return fmt.Sprintf("Tile(%d)", uint8(t))
	}
}

// Char returns the wire character of the tile.
func (t Tile) Char() byte {
	switch t {
	case Wall:
		return '#'
	case Floor:
		return ' '
	case Goal:
		return '.'
	case Box:
		return '$'
	case BoxOnGoal:
		return '*'
	case Player:
		return '@'
	case PlayerOnGoal:
		return '+'
	default:
		return NoTile
	}
}

// ParseTile decodes a wire character. Floor accepts ' ', '_' and '-'.
func ParseTile(ch byte) (Tile, error) {
	switch ch {
	case '#':
		return Wall, nil
	case ' ', '_', '-':
		return Floor, nil
	case '.':
		return Goal, nil
	case '$':
		return Box, nil
	case '*':
		return BoxOnGoal, nil
	case '@':
		return Player, nil
	case '+':
		return PlayerOnGoal, nil
	default:
		return Floor, fmt.Errorf("%w: %q", ErrUnknownTile, ch)
	}
}

// IsTileChar reports whether ch is a valid tile character.
func IsTileChar(ch byte) bool {
	_, err := ParseTile(ch)
	return err == nil
}

// HasGoal reports whether a goal lies under the tile.
func (t Tile) HasGoal() bool {
	return t == Goal || t == BoxOnGoal || t == PlayerOnGoal
}

// HasBox reports whether the tile holds a box.
func (t Tile) HasBox() bool {
	return t == Box || t == BoxOnGoal
}

// HasPlayer reports whether the tile holds the pusher.
func (t Tile) HasPlayer() bool {
	return t == Player || t == PlayerOnGoal
}

// IsWall reports whether the tile is a wall.
func (t Tile) IsWall() bool {
	return t == Wall
}

// Ground returns the tile with any box or pusher removed.
func (t Tile) Ground() Tile {
	if t.HasGoal() {
		return Goal
	}
	if t == Wall {
		return Wall
	}
	return Floor
}

// WithBox returns the tile with a box placed on its ground.
func (t Tile) WithBox() Tile {
	if t.HasGoal() {
		return BoxOnGoal
	}
	return Box
}

// WithPlayer returns the tile with the pusher placed on its ground.
func (t Tile) WithPlayer() Tile {
	if t.HasGoal() {
		return PlayerOnGoal
	}
	return Player
}
