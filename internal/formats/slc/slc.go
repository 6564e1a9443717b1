// Package slc reads the tagged XML collection format. It is read-only.
package slc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/vovakirdan/pushbox/internal/registry"
)

// ID is the registry id of the format.
const ID = "slc"

// ErrNoLevels is returned when a file holds no <Level> element.
var ErrNoLevels = errors.New("slc: no levels found")

func init() {
	registry.Register(Format{})
}

type xmlFile struct {
	XMLName     xml.Name        `xml:"SokobanLevels"`
	Title       string          `xml:"Title"`
	Description string          `xml:"Description"`
	Email       string          `xml:"Email"`
	URL         string          `xml:"Url"`
	Collections []xmlCollection `xml:"LevelCollection"`
}

type xmlCollection struct {
	Copyright string     `xml:"Copyright,attr"`
	Levels    []xmlLevel `xml:"Level"`
}

type xmlLevel struct {
	ID        string   `xml:"Id,attr"`
	Width     int      `xml:"Width,attr"`
	Height    int      `xml:"Height,attr"`
	Copyright string   `xml:"Copyright,attr"`
	Rows      []string `xml:"L"`
}

// Format is the SLC collection format.
type Format struct{}

func (Format) ID() string           { return ID }
func (Format) Title() string        { return "SokobanLevels XML" }
func (Format) Extensions() []string { return []string{".slc", ".xml"} }

// Sniff accepts markup carrying a SokobanLevels root.
func (Format) Sniff(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '<' && bytes.Contains(data, []byte("<SokobanLevels"))
}

// Decode parses a whole file.
func (Format) Decode(data []byte) (registry.Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var f xmlFile
	if err := dec.Decode(&f); err != nil {
		return registry.Document{}, fmt.Errorf("slc: %w", err)
	}

	doc := registry.Document{Name: f.Title}
	for _, c := range f.Collections {
		for _, l := range c.Levels {
			if l.Height > 0 && len(l.Rows) != l.Height {
				return registry.Document{}, fmt.Errorf("slc: level %q: %d rows, Height says %d", l.ID, len(l.Rows), l.Height)
			}

			ld := registry.LevelData{Name: l.ID, Rows: l.Rows}
			copyright := l.Copyright
			if copyright == "" {
				copyright = c.Copyright
			}
			if copyright != "" {
				ld.Metadata = map[string]string{"Copyright": copyright}
			}
			doc.Levels = append(doc.Levels, ld)
		}
	}

	if len(doc.Levels) == 0 {
		return registry.Document{}, ErrNoLevels
	}
	for i := range doc.Levels {
		if doc.Levels[i].Name == "" {
			doc.Levels[i].Name = fmt.Sprintf("Level %d", i+1)
		}
	}
	return doc, nil
}

// charsetReader handles the non UTF-8 declarations common in the wild,
// such as ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
