package engine

import (
	"fmt"

	"github.com/vovakirdan/pushbox/internal/core"
)

// Grid is the rectangular tile map of one level.
// Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	W     int
	H     int
	Cells []Tile
}

// NewGrid creates a grid of the given size filled with Floor.
func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, Cells: make([]Tile, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Floor
	}
	return g
}

// NewGridFromRows builds a grid from rows of tiles.
// Short rows are padded with Floor up to the widest row.
func NewGridFromRows(rows [][]Tile) *Grid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	g := NewGrid(width, len(rows))
	for y, row := range rows {
		copy(g.Cells[y*width:], row)
	}
	return g
}

// ParseRows decodes character rows into a grid, padding short rows with Floor.
func ParseRows(rows []string) (*Grid, error) {
	tiles := make([][]Tile, len(rows))
	for y, row := range rows {
		tiles[y] = make([]Tile, len(row))
		for x := 0; x < len(row); x++ {
			t, err := ParseTile(row[x])
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y+1, x+1, err)
			}
			tiles[y][x] = t
		}
	}
	return NewGridFromRows(tiles), nil
}

func (g *Grid) index(c core.Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid.
func (g *Grid) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// OnEdge returns true if the coordinate lies on the outermost ring of the grid.
func (g *Grid) OnEdge(c core.Coord) bool {
	return c.X == 0 || c.Y == 0 || c.X == g.W-1 || c.Y == g.H-1
}

// Get returns the tile at (x, y).
func (g *Grid) Get(x, y int) (Tile, error) {
	c := core.C(x, y)
	if !g.InBounds(c) {
		return Wall, fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfBounds, c, g.W, g.H)
	}
	return g.Cells[g.index(c)], nil
}

// At returns the tile at c, treating everything outside the grid as Wall.
func (g *Grid) At(c core.Coord) Tile {
	if !g.InBounds(c) {
		return Wall
	}
	return g.Cells[g.index(c)]
}

// Set stores a tile at (x, y). It returns false and leaves the grid untouched
// when the coordinate is out of bounds.
func (g *Grid) Set(x, y int, t Tile) bool {
	c := core.C(x, y)
	if !g.InBounds(c) {
		return false
	}
	g.Cells[g.index(c)] = t
	return true
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Tile, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{W: g.W, H: g.H, Cells: cells}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, t := range g.Cells {
		if t != other.Cells[i] {
			return false
		}
	}
	return true
}

// Count returns how many cells satisfy the predicate.
func (g *Grid) Count(match func(Tile) bool) int {
	n := 0
	for _, t := range g.Cells {
		if match(t) {
			n++
		}
	}
	return n
}

// Find returns the coordinates of all cells that satisfy the predicate,
// ordered by row then column.
func (g *Grid) Find(match func(Tile) bool) []core.Coord {
	var coords []core.Coord
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if match(g.Cells[y*g.W+x]) {
				coords = append(coords, core.C(x, y))
			}
		}
	}
	return coords
}

// Rows encodes the grid as one string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.H)
	buf := make([]byte, g.W)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			buf[x] = g.Cells[y*g.W+x].Char()
		}
		rows[y] = string(buf)
	}
	return rows
}

// String returns the grid as newline-separated rows.
func (g *Grid) String() string {
	var out []byte
	for y, row := range g.Rows() {
		if y > 0 {
			out = append(out, '\n')
		}
		out = append(out, row...)
	}
	return string(out)
}
