package engine

import (
	"fmt"

	"github.com/vovakirdan/pushbox/internal/core"
)

// ValidateGrid checks the structural legality of a level and returns the
// pusher position on success. Rules are checked in order and the first
// violation is returned as a ValidationError:
//
//  1. exactly one pusher
//  2. the pusher's area is closed off by walls
//  3. every box off a goal lies in the pusher's area and can be pushed to a goal
//  4. the number of boxes equals the number of goals
//
// A box that cannot move and is off a goal therefore fails rule 3 even when
// the counts of rule 4 also disagree.
func ValidateGrid(g *Grid) (core.Coord, error) {
	player, err := checkPlayerCount(g)
	if err != nil {
		return core.Coord{}, err
	}

	area, err := checkEnclosed(g, player)
	if err != nil {
		return core.Coord{}, err
	}

	if err := checkBoxes(g, area); err != nil {
		return core.Coord{}, err
	}

	if err := checkBoxGoalCount(g); err != nil {
		return core.Coord{}, err
	}

	return player, nil
}

// checkPlayerCount finds the single pusher.
func checkPlayerCount(g *Grid) (core.Coord, error) {
	players := g.Find(Tile.HasPlayer)
	if len(players) != 1 {
		return core.Coord{}, ValidationError{
			Code:    CodePlayerCount,
			Message: fmt.Sprintf("level has %d pushers, want exactly 1", len(players)),
		}
	}
	return players[0], nil
}

// checkEnclosed flood-fills the non-wall area around the pusher and fails if
// it touches the grid edge. Returns the area as a cell mask.
func checkEnclosed(g *Grid, start core.Coord) ([]bool, error) {
	area := make([]bool, len(g.Cells))
	area[g.index(start)] = true
	queue := []core.Coord{start}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if g.OnEdge(c) {
			return nil, ValidationError{
				Code:    CodeOpenLevel,
				Message: fmt.Sprintf("level is open at %v", c),
			}
		}

		for _, d := range core.Dirs {
			n := c.Step(d)
			if !g.InBounds(n) || area[g.index(n)] || g.At(n).IsWall() {
				continue
			}
			area[g.index(n)] = true
			queue = append(queue, n)
		}
	}

	return area, nil
}

// checkBoxes verifies that every box off a goal can, ignoring other boxes,
// be pushed onto some goal. Boxes outside the pusher's area can never move.
func checkBoxes(g *Grid, area []bool) error {
	for _, b := range g.Find(func(t Tile) bool { return t == Box }) {
		if !area[g.index(b)] {
			return ValidationError{
				Code:    CodeUnreachableBox,
				Message: fmt.Sprintf("box at %v is out of the pusher's reach and not on a goal", b),
			}
		}
		if !canReachGoal(g, area, b) {
			return ValidationError{
				Code:    CodeUnreachableBox,
				Message: fmt.Sprintf("box at %v cannot be pushed to any goal", b),
			}
		}
	}
	return nil
}

// canReachGoal searches the positions a box can be pushed to, treating only
// walls as obstacles. A push needs a free cell on both sides of the box.
func canReachGoal(g *Grid, area []bool, start core.Coord) bool {
	seen := make([]bool, len(g.Cells))
	seen[g.index(start)] = true
	queue := []core.Coord{start}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if g.At(c).HasGoal() {
			return true
		}

		for _, d := range core.Dirs {
			stand := c.Step(d.Opposite())
			dest := c.Step(d)
			if !g.InBounds(stand) || !area[g.index(stand)] {
				continue
			}
			if !g.InBounds(dest) || g.At(dest).IsWall() || seen[g.index(dest)] {
				continue
			}
			seen[g.index(dest)] = true
			queue = append(queue, dest)
		}
	}
	return false
}

// checkBoxGoalCount compares boxes (plain and on goal) with goals (plain,
// under a box and under the pusher).
func checkBoxGoalCount(g *Grid) error {
	boxes := g.Count(Tile.HasBox)
	goals := g.Count(Tile.HasGoal)
	if boxes != goals {
		return ValidationError{
			Code:    CodeBoxGoalCount,
			Message: fmt.Sprintf("level has %d boxes and %d goals", boxes, goals),
		}
	}
	return nil
}
