package collection

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pushbox/internal/engine"
	"github.com/vovakirdan/pushbox/internal/formats/sok"
	"github.com/vovakirdan/pushbox/internal/registry"
)

// DefaultFormat is the export format used unless another one is selected.
const DefaultFormat = sok.ID

// Parser reads collection files in any registered format and writes them in
// the selected export format.
type Parser struct {
	format string
	logger *log.Logger
}

// NewParser creates a parser exporting DefaultFormat. A nil logger discards
// output.
func NewParser(logger *log.Logger) *Parser {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Parser{format: DefaultFormat, logger: logger}
}

// SetFileFormat selects the export format for every future save.
func (p *Parser) SetFileFormat(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("collection: unknown file format %q", id)
	}
	p.format = id
	return nil
}

// FileFormat returns the selected export format.
func (p *Parser) FileFormat() string {
	return p.format
}

// Parse reads path and returns the collection name and its levels. The
// format is detected from the content, then from the extension. Rows of
// unequal width are padded with Floor. No level is validated.
func (p *Parser) Parse(path string) (string, []*engine.Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, &IOError{Op: "read", Path: path, Err: err}
	}

	f, err := registry.Detect(path, data)
	if err != nil {
		return "", nil, &ParseError{Path: path, Err: err}
	}

	doc, err := f.Decode(data)
	if err != nil {
		return "", nil, &ParseError{Path: path, Format: f.ID(), Err: err}
	}

	levels := make([]*engine.Level, 0, len(doc.Levels))
	for _, ld := range doc.Levels {
		if len(ld.Rows) == 0 {
			return "", nil, &ParseError{Path: path, Format: f.ID(), Err: fmt.Errorf("level %q has no rows", ld.Name)}
		}
		lvl, err := engine.ParseLevel(ld.Name, ld.Rows)
		if err != nil {
			return "", nil, &ParseError{Path: path, Format: f.ID(), Err: fmt.Errorf("level %q: %w", ld.Name, err)}
		}
		for k, v := range ld.Metadata {
			lvl.SetMetadata(k, v)
		}
		levels = append(levels, lvl)
	}

	p.logger.Debug("parsed collection", "path", path, "format", f.ID(), "levels", len(levels))
	return doc.Name, levels, nil
}

// Save writes levels in their current state to path. The file is replaced
// atomically: content goes to a temporary file in the same directory which
// is renamed over path only once it is complete.
func (p *Parser) Save(name, path string, levels []*engine.Level, compress bool) error {
	enc, id := p.encoder()

	doc := registry.Document{Name: name, Levels: make([]registry.LevelData, 0, len(levels))}
	for _, lvl := range levels {
		doc.Levels = append(doc.Levels, registry.LevelData{
			Name:     lvl.Name(),
			Rows:     lvl.Rows(),
			Metadata: lvl.Metadata(),
		})
	}

	data, err := enc.Encode(doc, compress)
	if err != nil {
		return fmt.Errorf("collection: encode %s: %w", id, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	p.logger.Debug("saved collection", "path", path, "format", id, "levels", len(levels), "compressed", compress)
	return nil
}

// encoder returns the selected format's encoder, falling back to
// DefaultFormat when the selection is read-only.
func (p *Parser) encoder() (registry.Encoder, string) {
	if f, err := registry.Lookup(p.format); err == nil {
		if enc, ok := f.(registry.Encoder); ok {
			return enc, p.format
		}
	}
	p.logger.Warn("export format cannot be written, falling back", "format", p.format, "fallback", DefaultFormat)
	return sok.Format{}, DefaultFormat
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	// Clean up temp file on failure
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
