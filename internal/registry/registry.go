// Package registry provides a global registry of collection file formats.
// Formats register themselves in init() functions, allowing the parser to
// discover them by id, by file extension or by sniffing file content without
// hardcoded dependencies.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Document is the format-neutral content of a collection file.
// Rows are kept as raw tile characters; decoding them is the parser's job.
type Document struct {
	Name   string
	Levels []LevelData
}

// LevelData is one level as read from a file.
type LevelData struct {
	Name     string
	Rows     []string
	Metadata map[string]string
}

// Format is a collection file format.
type Format interface {
	// ID returns a unique identifier for this format (e.g., "sok", "slc").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Extensions returns the lower-case file extensions, including the dot.
	Extensions() []string

	// Sniff reports whether data looks like this format.
	Sniff(data []byte) bool

	// Decode parses a whole collection file.
	Decode(data []byte) (Document, error)
}

// Encoder is implemented by formats that can also write collections.
type Encoder interface {
	Encode(doc Document, compress bool) ([]byte, error)
}

// FormatInfo contains metadata about a registered format.
type FormatInfo struct {
	ID       string
	Title    string
	Writable bool
}

var (
	formats = make(map[string]Format)
	order   []string
	mu      sync.RWMutex
)

// Register adds a format to the registry.
// Typically called from a format's init() function.
// Panics if a format with the same ID is already registered.
func Register(f Format) {
	mu.Lock()
	defer mu.Unlock()

	id := f.ID()
	if _, exists := formats[id]; exists {
		panic(fmt.Sprintf("registry: format %q already registered", id))
	}

	formats[id] = f
	order = append(order, id)
}

// List returns information about all registered formats, sorted by ID.
func List() []FormatInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]FormatInfo, 0, len(formats))
	for id, f := range formats {
		_, writable := f.(Encoder)
		result = append(result, FormatInfo{
			ID:       id,
			Title:    f.Title(),
			Writable: writable,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the format registered under id.
func Lookup(id string) (Format, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := formats[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown format %q", id)
	}
	return f, nil
}

// Exists checks if a format with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := formats[id]
	return ok
}

// Detect picks the format for a file. Content sniffing wins; the file
// extension is used when no format claims the content.
func Detect(path string, data []byte) (Format, error) {
	mu.RLock()
	defer mu.RUnlock()

	for _, id := range order {
		if f := formats[id]; f.Sniff(data) {
			return f, nil
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, id := range order {
		f := formats[id]
		for _, e := range f.Extensions() {
			if e == ext {
				return f, nil
			}
		}
	}

	return nil, fmt.Errorf("registry: no format recognises %s", filepath.Base(path))
}
