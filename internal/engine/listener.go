package engine

// Listener receives tile changes of the active level.
//
// Notifications are delivered synchronously. A listener must not move, undo,
// reset or otherwise mutate the level or collection from inside OnSetTile.
// Listeners are compared by identity, so implement them on pointer types.
type Listener interface {
	OnSetTile(x, y int, tile byte)
}

// FuncListener adapts a function to the Listener interface.
type FuncListener struct {
	fn func(x, y int, tile byte)
}

// NewFuncListener wraps fn. Each call returns a distinct listener.
func NewFuncListener(fn func(x, y int, tile byte)) *FuncListener {
	return &FuncListener{fn: fn}
}

// OnSetTile implements Listener.
func (f *FuncListener) OnSetTile(x, y int, tile byte) {
	if f.fn != nil {
		f.fn(x, y, tile)
	}
}

// TileChange is one recorded notification.
type TileChange struct {
	X, Y int
	Tile byte
}

// Recorder is a Listener that keeps every notification it receives.
type Recorder struct {
	Changes []TileChange
}

// OnSetTile implements Listener.
func (r *Recorder) OnSetTile(x, y int, tile byte) {
	r.Changes = append(r.Changes, TileChange{X: x, Y: y, Tile: tile})
}

// Reset forgets all recorded changes.
func (r *Recorder) Reset() {
	r.Changes = nil
}
