package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/pushbox/internal/core"
)

func TestParseRowsPadsShortRows(t *testing.T) {
	g, err := ParseRows([]string{"#####", "#@$.#", "###"})
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	if g.W != 5 || g.H != 3 {
		t.Fatalf("expected 5x3 grid, got %dx%d", g.W, g.H)
	}
	for _, x := range []int{3, 4} {
		tile, err := g.Get(x, 2)
		if err != nil {
			t.Fatalf("Get(%d,2) failed: %v", x, err)
		}
		if tile != Floor {
			t.Errorf("padded cell (%d,2) = %v, want Floor", x, tile)
		}
	}
}

func TestParseRowsRejectsUnknownCharacters(t *testing.T) {
	_, err := ParseRows([]string{"#####", "#@x.#", "#####"})
	if !errors.Is(err, ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
}

func TestGridGetOutOfBounds(t *testing.T) {
	g := NewGrid(3, 2)

	tests := []struct {
		x, y int
		ok   bool
	}{
		{0, 0, true},
		{2, 1, true},
		{3, 0, false},
		{0, 2, false},
		{-1, 0, false},
	}

	for _, tc := range tests {
		_, err := g.Get(tc.x, tc.y)
		if tc.ok && err != nil {
			t.Errorf("Get(%d,%d) unexpected error: %v", tc.x, tc.y, err)
		}
		if !tc.ok && !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Get(%d,%d) expected ErrOutOfBounds, got %v", tc.x, tc.y, err)
		}
	}
}

func TestGridSet(t *testing.T) {
	g := NewGrid(3, 3)

	if !g.Set(1, 1, Box) {
		t.Fatal("Set in bounds should succeed")
	}
	if tile, _ := g.Get(1, 1); tile != Box {
		t.Errorf("expected Box at (1,1), got %v", tile)
	}

	before := g.Clone()
	if g.Set(3, 1, Wall) {
		t.Error("Set out of bounds should fail")
	}
	if !g.Equal(before) {
		t.Error("failed Set must not mutate the grid")
	}
}

func TestGridRowsRoundTrip(t *testing.T) {
	rows := []string{"#######", "#.@ $*#", "#+    #", "#######"}
	g, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	got := g.Rows()
	for i := range rows {
		if got[i] != rows[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], rows[i])
		}
	}
}

func TestGridOnEdge(t *testing.T) {
	g := NewGrid(4, 3)
	if !g.OnEdge(core.C(0, 1)) || !g.OnEdge(core.C(3, 1)) || !g.OnEdge(core.C(2, 2)) {
		t.Error("border cells should be on the edge")
	}
	if g.OnEdge(core.C(1, 1)) {
		t.Error("(1,1) is interior")
	}
}

func TestTileCharRoundTrip(t *testing.T) {
	for _, tile := range []Tile{Wall, Floor, Goal, Box, BoxOnGoal, Player, PlayerOnGoal} {
		got, err := ParseTile(tile.Char())
		if err != nil {
			t.Fatalf("ParseTile(%q) failed: %v", tile.Char(), err)
		}
		if got != tile {
			t.Errorf("ParseTile(%q) = %v, want %v", tile.Char(), got, tile)
		}
	}

	for _, ch := range []byte{'_', '-'} {
		if got, _ := ParseTile(ch); got != Floor {
			t.Errorf("ParseTile(%q) = %v, want Floor", ch, got)
		}
	}
}
