// Package sok implements the plain line-oriented collection format.
//
// A file is an optional collection name, followed by levels separated by
// blank lines. Each level is an optional name line and a block of board
// rows. Board rows may be run-length encoded, in which case '|' separates
// several rows written on one line. Lines starting with "::" are comments.
// "Key: value" lines directly after a board attach to that level; "Title"
// renames it.
//
//	Microban
//
//	Level 1
//	#####
//	#@$.#
//	#####
//	Author: someone
package sok

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/pushbox/internal/engine"
	"github.com/vovakirdan/pushbox/internal/formats/rle"
	"github.com/vovakirdan/pushbox/internal/registry"
)

// ID is the registry id of the format.
const ID = "sok"

// ErrNoLevels is returned when a file holds no board.
var ErrNoLevels = errors.New("sok: no levels found")

func init() {
	registry.Register(Format{})
}

// Format is the plain collection format. It reads and writes.
type Format struct{}

func (Format) ID() string           { return ID }
func (Format) Title() string        { return "Sokoban plain text" }
func (Format) Extensions() []string { return []string{".sok", ".txt"} }

// Sniff accepts text with at least one board line that is not markup.
func (Format) Sniff(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 || trimmed[0] == '<' {
		return false
	}
	for _, line := range splitLines(string(data)) {
		if isBoardLine(line) {
			return true
		}
	}
	return false
}

// Decode parses a whole file.
func (Format) Decode(data []byte) (registry.Document, error) {
	d := decoder{}
	for i, line := range splitLines(string(data)) {
		if err := d.line(line); err != nil {
			return registry.Document{}, fmt.Errorf("sok: line %d: %w", i+1, err)
		}
	}
	d.closeBoard()

	if len(d.doc.Levels) == 0 {
		return registry.Document{}, ErrNoLevels
	}
	for i := range d.doc.Levels {
		if d.doc.Levels[i].Name == "" {
			d.doc.Levels[i].Name = fmt.Sprintf("Level %d", i+1)
		}
	}
	return d.doc, nil
}

// Encode writes doc. With compress set, every row is run-length encoded
// and Floor is written as '-'.
func (Format) Encode(doc registry.Document, compress bool) ([]byte, error) {
	var buf bytes.Buffer

	if strings.ContainsAny(doc.Name, "\r\n") {
		return nil, fmt.Errorf("sok: collection name %q spans several lines", doc.Name)
	}
	switch {
	case doc.Name == "":
	case plainName(doc.Name):
		buf.WriteString(doc.Name)
		buf.WriteString("\n\n")
	default:
		fmt.Fprintf(&buf, "Collection: %s\n\n", doc.Name)
	}

	for _, lvl := range doc.Levels {
		if strings.ContainsAny(lvl.Name, "\r\n") {
			return nil, fmt.Errorf("sok: level name %q spans several lines", lvl.Name)
		}
		// Names that would read back as something else go in a Title line.
		titled := lvl.Name != "" && !plainName(lvl.Name)
		if lvl.Name != "" && !titled {
			buf.WriteString(lvl.Name)
			buf.WriteByte('\n')
		}
		for y, row := range lvl.Rows {
			for x := 0; x < len(row); x++ {
				if !engine.IsTileChar(row[x]) {
					return nil, fmt.Errorf("sok: level %q row %d col %d: invalid tile %q", lvl.Name, y, x, row[x])
				}
			}
			if compress {
				row = rle.Best(strings.Map(floorDash, row))
			}
			buf.WriteString(row)
			buf.WriteByte('\n')
		}

		if titled {
			fmt.Fprintf(&buf, "Title: %s\n", lvl.Name)
		}
		keys := make([]string, 0, len(lvl.Metadata))
		for k := range lvl.Metadata {
			if strings.EqualFold(k, "title") {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "%s: %s\n", k, lvl.Metadata[k])
		}

		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

type decodeState int

const (
	stateHeader decodeState = iota
	stateBoard
	stateTrailer
	stateGap
)

type decoder struct {
	doc   registry.Document
	state decodeState

	rows []string

	// Text lines seen since the last board, and whether a blank line
	// followed the most recent one.
	texts    []string
	textsGap bool
}

func (d *decoder) line(line string) error {
	if strings.HasPrefix(line, "::") {
		return nil
	}

	if line == "" {
		switch d.state {
		case stateBoard:
			d.closeBoard()
			d.state = stateGap
		case stateTrailer:
			d.state = stateGap
		default:
			if len(d.texts) > 0 {
				d.textsGap = true
			}
		}
		return nil
	}

	if isBoardLine(line) {
		if d.state != stateBoard {
			d.openBoard()
		}
		return d.addRows(line)
	}

	if d.state == stateBoard {
		d.closeBoard()
		d.state = stateTrailer
	}

	key, value, isPair := splitPair(line)
	if isPair && strings.EqualFold(key, "collection") && len(d.doc.Levels) == 0 {
		d.doc.Name = value
		return nil
	}
	if d.state == stateTrailer {
		if isPair {
			d.annotate(key, value)
			return nil
		}
		d.state = stateGap
	}

	d.texts = append(d.texts, strings.TrimSpace(line))
	d.textsGap = false
	return nil
}

// openBoard starts a new level, naming it from the text lines above.
func (d *decoder) openBoard() {
	name := ""
	if len(d.doc.Levels) == 0 && d.doc.Name == "" {
		switch {
		case len(d.texts) >= 2:
			d.doc.Name = d.texts[0]
			name = d.texts[len(d.texts)-1]
		case len(d.texts) == 1 && d.textsGap:
			d.doc.Name = d.texts[0]
		case len(d.texts) == 1:
			name = d.texts[0]
		}
	} else if len(d.texts) > 0 {
		name = d.texts[len(d.texts)-1]
	}

	d.doc.Levels = append(d.doc.Levels, registry.LevelData{Name: name})
	d.texts = d.texts[:0]
	d.textsGap = false
	d.rows = nil
	d.state = stateBoard
}

func (d *decoder) closeBoard() {
	if d.state != stateBoard {
		return
	}
	d.doc.Levels[len(d.doc.Levels)-1].Rows = d.rows
	d.rows = nil
}

func (d *decoder) addRows(line string) error {
	if !strings.ContainsAny(line, "0123456789()|") {
		d.rows = append(d.rows, line)
		return nil
	}
	expanded, err := rle.Decompress(line)
	if err != nil {
		return err
	}
	d.rows = append(d.rows, strings.Split(expanded, "|")...)
	return nil
}

func (d *decoder) annotate(key, value string) {
	lvl := &d.doc.Levels[len(d.doc.Levels)-1]
	if strings.EqualFold(key, "title") {
		lvl.Name = value
		return
	}
	if lvl.Metadata == nil {
		lvl.Metadata = make(map[string]string)
	}
	lvl.Metadata[key] = value
}

// isBoardLine reports whether line is a (possibly compressed) board row.
func isBoardLine(line string) bool {
	if !strings.Contains(line, "#") {
		return false
	}
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case engine.IsTileChar(ch):
		case ch >= '0' && ch <= '9':
		case ch == '(' || ch == ')' || ch == '|':
		default:
			return false
		}
	}
	return true
}

// plainName reports whether name can be written on its own line and read
// back unchanged as a name.
func plainName(name string) bool {
	if name != strings.TrimSpace(name) || strings.HasPrefix(name, "::") || isBoardLine(name) {
		return false
	}
	if _, _, isPair := splitPair(name); isPair {
		return false
	}
	return true
}

// splitPair splits "Key: value" where Key is a single word.
func splitPair(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func splitLines(s string) []string {
	s = strings.TrimPrefix(s, "\ufeff")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return lines
}

func floorDash(r rune) rune {
	if r == ' ' || r == '_' {
		return '-'
	}
	return r
}
