// Package collection owns a named set of levels loaded from one file.
//
// A Collection is bound to a path when it is created. Initialise parses the
// file; Deinitialise writes every level back in its current state and drops
// them from memory. At most one level is active at a time, and all play and
// tile accessors act on it. Tile changes of the active level are relayed to
// every registered engine.Listener.
//
// A Collection is not safe for concurrent use.
package collection

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pushbox/internal/core"
	"github.com/vovakirdan/pushbox/internal/engine"
)

// Collection is a named, ordered set of levels backed by one file.
type Collection struct {
	path   string
	name   string
	levels []*engine.Level
	active *engine.Level

	compress bool
	parser   *Parser
	logger   *log.Logger

	listeners []engine.Listener
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCompression enables compressed output from the start.
func WithCompression(on bool) Option {
	return func(c *Collection) {
		c.compress = on
	}
}

// New creates an uninitialised collection bound to path.
func New(path string, opts ...Option) *Collection {
	c := &Collection{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = NewParser(c.logger)
	return c
}

// Path returns the bound file path.
func (c *Collection) Path() string {
	return c.path
}

// Initialise parses the bound file. On failure the collection keeps whatever
// it held before. On success any previous levels are replaced and no level
// is active.
func (c *Collection) Initialise() error {
	name, levels, err := c.parser.Parse(c.path)
	if err != nil {
		return err
	}

	for _, lvl := range c.levels {
		lvl.SetChangeFunc(nil)
	}
	for _, lvl := range levels {
		lvl.SetChangeFunc(c.relay)
	}

	c.name = name
	c.levels = levels
	c.active = nil

	c.logger.Info("collection loaded", "path", c.path, "name", name, "levels", len(levels))
	return nil
}

// IsInitialised reports whether levels are loaded.
func (c *Collection) IsInitialised() bool {
	return c.levels != nil
}

// Deinitialise writes all levels back to the bound file and unloads them.
// It does nothing on a collection that holds no levels. If writing fails
// the levels stay loaded.
func (c *Collection) Deinitialise() error {
	if !c.IsInitialised() {
		return nil
	}
	if err := c.Save(); err != nil {
		return err
	}

	for _, lvl := range c.levels {
		lvl.SetChangeFunc(nil)
	}
	c.levels = nil
	c.active = nil

	c.logger.Info("collection unloaded", "path", c.path)
	return nil
}

// Save writes all levels to the bound file without unloading them.
func (c *Collection) Save() error {
	if !c.IsInitialised() {
		return ErrNotInitialised
	}
	return c.parser.Save(c.name, c.path, c.levels, c.compress)
}

// SaveAs writes all levels to path. The collection stays bound to its
// original file.
func (c *Collection) SaveAs(path string) error {
	if !c.IsInitialised() {
		return ErrNotInitialised
	}
	return c.parser.Save(c.name, path, c.levels, c.compress)
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// SetName renames the collection. The name is written on the next save.
func (c *Collection) SetName(name string) {
	c.name = name
}

// EnableCompression makes future saves run-length encode level rows.
func (c *Collection) EnableCompression() {
	c.compress = true
}

// DisableCompression makes future saves write plain rows.
func (c *Collection) DisableCompression() {
	c.compress = false
}

// Compression reports whether saves are compressed.
func (c *Collection) Compression() bool {
	return c.compress
}

// SetFileFormat selects the export format by registry id. Formats that
// cannot be written are accepted; saving then falls back to DefaultFormat.
func (c *Collection) SetFileFormat(id string) error {
	return c.parser.SetFileFormat(id)
}

// FileFormat returns the selected export format id.
func (c *Collection) FileFormat() string {
	return c.parser.FileFormat()
}

// Len returns the number of loaded levels.
func (c *Collection) Len() int {
	return len(c.levels)
}

// LevelNames returns the level names in file order.
func (c *Collection) LevelNames() []string {
	names := make([]string, len(c.levels))
	for i, lvl := range c.levels {
		names[i] = lvl.Name()
	}
	return names
}

// StreamLevelNames writes one level name per line.
func (c *Collection) StreamLevelNames(w io.Writer) error {
	for _, lvl := range c.levels {
		if _, err := fmt.Fprintln(w, lvl.Name()); err != nil {
			return err
		}
	}
	return nil
}

// LevelInfo summarises one level.
type LevelInfo struct {
	Name   string
	Width  int
	Height int
	State  engine.State
}

// Levels returns a summary of every level in file order.
func (c *Collection) Levels() []LevelInfo {
	out := make([]LevelInfo, len(c.levels))
	for i, lvl := range c.levels {
		out[i] = LevelInfo{
			Name:   lvl.Name(),
			Width:  lvl.Width(),
			Height: lvl.Height(),
			State:  lvl.State(),
		}
	}
	return out
}

// SetActiveLevel activates the first level called name. It returns false
// and keeps the current selection when there is no such level.
func (c *Collection) SetActiveLevel(name string) bool {
	for _, lvl := range c.levels {
		if lvl.Name() == name {
			c.active = lvl
			c.logger.Debug("active level changed", "level", name)
			return true
		}
	}
	return false
}

// SetActiveLevelAt activates the level at index i in file order. It returns
// false and keeps the current selection when i is out of range.
func (c *Collection) SetActiveLevelAt(i int) bool {
	if i < 0 || i >= len(c.levels) {
		return false
	}
	c.active = c.levels[i]
	c.logger.Debug("active level changed", "level", c.active.Name(), "index", i)
	return true
}

// HasActiveLevel reports whether a level is active.
func (c *Collection) HasActiveLevel() bool {
	return c.active != nil
}

// ActiveLevelName returns the active level's name, or "" when none is.
func (c *Collection) ActiveLevelName() string {
	if c.active == nil {
		return ""
	}
	return c.active.Name()
}

func (c *Collection) activeLevel() (*engine.Level, error) {
	if c.active == nil {
		return nil, ErrNoActiveLevel
	}
	return c.active, nil
}

// TileData returns the active level's rows as tile characters.
func (c *Collection) TileData() ([]string, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return nil, err
	}
	return lvl.Rows(), nil
}

// StreamTileData writes the active level's rows, one per line.
func (c *Collection) StreamTileData(w io.Writer) error {
	rows, err := c.TileData()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Tile returns the character at (x, y) of the active level. On error it
// returns engine.NoTile.
func (c *Collection) Tile(x, y int) (byte, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return engine.NoTile, err
	}
	t, err := lvl.Tile(x, y)
	if err != nil {
		return engine.NoTile, err
	}
	return t.Char(), nil
}

// SetTile writes a tile character at (x, y) of the active level. It reports
// false for out-of-bounds coordinates. A change invalidates the level.
func (c *Collection) SetTile(x, y int, ch byte) (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	t, err := engine.ParseTile(ch)
	if err != nil {
		return false, err
	}
	return lvl.SetTile(x, y, t), nil
}

// SizeX returns the width of the active level.
func (c *Collection) SizeX() (int, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return 0, err
	}
	return lvl.Width(), nil
}

// SizeY returns the height of the active level.
func (c *Collection) SizeY() (int, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return 0, err
	}
	return lvl.Height(), nil
}

// ValidateLevel validates the active level. A false result with a nil error
// means the level is structurally invalid; ValidationErr tells why.
func (c *Collection) ValidateLevel() (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	ok := lvl.Validate()
	if !ok {
		c.logger.Debug("level failed validation", "level", lvl.Name(), "err", lvl.ValidationErr())
	}
	return ok, nil
}

// ValidationErr returns why the active level last failed validation.
func (c *Collection) ValidationErr() error {
	if c.active == nil {
		return nil
	}
	return c.active.ValidationErr()
}

// Move moves the pusher of the active level. Blocked moves report false.
func (c *Collection) Move(d core.Dir) (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	return lvl.Move(d)
}

// MoveUp moves the pusher up.
func (c *Collection) MoveUp() (bool, error) { return c.Move(core.DirUp) }

// MoveDown moves the pusher down.
func (c *Collection) MoveDown() (bool, error) { return c.Move(core.DirDown) }

// MoveLeft moves the pusher left.
func (c *Collection) MoveLeft() (bool, error) { return c.Move(core.DirLeft) }

// MoveRight moves the pusher right.
func (c *Collection) MoveRight() (bool, error) { return c.Move(core.DirRight) }

// Undo reverts the last move of the active level.
func (c *Collection) Undo() (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	return lvl.Undo()
}

// Redo re-applies the last undone move of the active level.
func (c *Collection) Redo() (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	return lvl.Redo()
}

// Reset restores the active level to its state after validation.
func (c *Collection) Reset() error {
	lvl, err := c.activeLevel()
	if err != nil {
		return err
	}
	return lvl.Reset()
}

// Apply runs one scripted action against the active level.
func (c *Collection) Apply(a core.Action) (bool, error) {
	if d, ok := a.Dir(); ok {
		return c.Move(d)
	}
	switch a {
	case core.ActionUndo:
		return c.Undo()
	case core.ActionRedo:
		return c.Redo()
	case core.ActionReset:
		if err := c.Reset(); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// Progress describes play on the active level.
type Progress struct {
	Moves   int
	Pushes  int
	History string
	Solved  bool
}

// Progress returns the move and push counts of the active level.
func (c *Collection) Progress() (Progress, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		Moves:   lvl.MoveCount(),
		Pushes:  lvl.PushCount(),
		History: lvl.History(),
		Solved:  lvl.IsSolved(),
	}, nil
}

// IsSolved reports whether every box of the active level rests on a goal.
func (c *Collection) IsSolved() (bool, error) {
	lvl, err := c.activeLevel()
	if err != nil {
		return false, err
	}
	return lvl.IsSolved(), nil
}

// AddLevelListener registers l. It returns false if l is already registered.
func (c *Collection) AddLevelListener(l engine.Listener) bool {
	if l == nil || slices.Contains(c.listeners, l) {
		return false
	}
	c.listeners = append(c.listeners, l)
	return true
}

// RemoveLevelListener unregisters l. It returns false if l was not registered.
func (c *Collection) RemoveLevelListener(l engine.Listener) bool {
	i := slices.Index(c.listeners, l)
	if i < 0 {
		return false
	}
	c.listeners = slices.Delete(c.listeners, i, i+1)
	return true
}

// relay forwards a level's tile change to a snapshot of the listeners, so
// listeners may be removed while a change is being delivered.
func (c *Collection) relay(x, y int, t engine.Tile) {
	ch := t.Char()
	for _, l := range slices.Clone(c.listeners) {
		l.OnSetTile(x, y, ch)
	}
}
