package sok

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/pushbox/internal/formats/rle"
	"github.com/vovakirdan/pushbox/internal/registry"
)

func TestDecodeTestdata(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "mixed.sok"))
	if err != nil {
		t.Fatalf("failed to read testdata: %v", err)
	}

	doc, err := Format{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if doc.Name != "Mixed Bag" {
		t.Errorf("collection name = %q, want %q", doc.Name, "Mixed Bag")
	}

	want := []registry.LevelData{
		{Name: "Tiny", Rows: []string{"#####", "#@$.#", "#####"}},
		{
			Name:     "Second",
			Rows:     []string{"#######", "#.@ $ #", "#######"},
			Metadata: map[string]string{"Author": "Someone"},
		},
		{Name: "Packed", Rows: []string{"#######", "#+-$-.#", "#-$*--#", "#######"}},
	}
	if !reflect.DeepEqual(doc.Levels, want) {
		t.Errorf("levels = %#v\nwant %#v", doc.Levels, want)
	}
}

func TestDecodeNaming(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		collection string
		levels     []string
	}{
		{
			name:   "bare boards get default names",
			data:   "###\n#@#\n###\n\n###\n#@#\n###\n",
			levels: []string{"Level 1", "Level 2"},
		},
		{
			name:   "single line above board names the level",
			data:   "First\n###\n#@#\n###\n",
			levels: []string{"First"},
		},
		{
			name:       "single line followed by blank names the collection",
			data:       "Pack\n\n###\n#@#\n###\n",
			collection: "Pack",
			levels:     []string{"Level 1"},
		},
		{
			name:       "two header lines",
			data:       "Pack\n\nOne\n###\n#@#\n###\n\nTwo\n###\n#@#\n###\n",
			collection: "Pack",
			levels:     []string{"One", "Two"},
		},
		{
			name:   "text line right after a board names the next level",
			data:   "###\n#@#\n###\nNext\n###\n#@#\n###\n",
			levels: []string{"Level 1", "Next"},
		},
		{
			name:   "crlf line endings",
			data:   "A\r\n###\r\n#@#\r\n###\r\n",
			levels: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Format{}.Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if doc.Name != tt.collection {
				t.Errorf("collection = %q, want %q", doc.Name, tt.collection)
			}
			var got []string
			for _, l := range doc.Levels {
				got = append(got, l.Name)
			}
			if !reflect.DeepEqual(got, tt.levels) {
				t.Errorf("level names = %v, want %v", got, tt.levels)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := (Format{}).Decode([]byte("just some words\n\nand more\n")); !errors.Is(err, ErrNoLevels) {
		t.Errorf("expected ErrNoLevels, got %v", err)
	}
	if _, err := (Format{}).Decode([]byte("2(#@\n")); !errors.Is(err, rle.ErrSyntax) {
		t.Errorf("expected rle.ErrSyntax, got %v", err)
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{"Pack\n\n#####\n#@$.#\n#####\n", true},
		{"  5#|#@$.#|5#", true},
		{"<?xml version=\"1.0\"?>\n<SokobanLevels>#</SokobanLevels>", false},
		{"hello world\n", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := (Format{}).Sniff([]byte(tt.data)); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := registry.Document{
		Name: "Round Trip",
		Levels: []registry.LevelData{
			{Name: "A", Rows: []string{"#####", "#@$.#", "#####"}},
			{
				Name:     "B",
				Rows:     []string{"  ####", "###  #", "#.$@ #", "######"},
				Metadata: map[string]string{"Author": "x"},
			},
			{Name: "#1", Rows: []string{"#####", "#@*.#", "#$  #", "#####"}},
			{
				Name:     "# 12",
				Rows:     []string{"####", "#@.#", "#$ #", "####"},
				Metadata: map[string]string{"Author": "y"},
			},
			{Name: "Part: 2", Rows: []string{"####", "#@$.#", "#####"}},
			{Name: ":: not a comment", Rows: []string{"#####", "#.$@#", "#####"}},
		},
	}

	for _, compress := range []bool{false, true} {
		data, err := Format{}.Encode(doc, compress)
		if err != nil {
			t.Fatalf("Encode(compress=%v) failed: %v", compress, err)
		}

		back, err := Format{}.Decode(data)
		if err != nil {
			t.Fatalf("Decode(compress=%v) failed: %v\n%s", compress, err, data)
		}
		if back.Name != doc.Name || len(back.Levels) != len(doc.Levels) {
			t.Fatalf("compress=%v: got %q with %d levels", compress, back.Name, len(back.Levels))
		}

		for i, lvl := range back.Levels {
			orig := doc.Levels[i]
			if lvl.Name != orig.Name {
				t.Errorf("compress=%v level %d name = %q, want %q", compress, i, lvl.Name, orig.Name)
			}
			if !reflect.DeepEqual(lvl.Metadata, orig.Metadata) {
				t.Errorf("compress=%v level %d metadata = %v, want %v", compress, i, lvl.Metadata, orig.Metadata)
			}
			for y, row := range lvl.Rows {
				if normalise(row) != orig.Rows[y] {
					t.Errorf("compress=%v level %d row %d = %q, want %q", compress, i, y, row, orig.Rows[y])
				}
			}
		}
	}
}

func TestEncodeCompressed(t *testing.T) {
	doc := registry.Document{Levels: []registry.LevelData{
		{Name: "C", Rows: []string{"########", "#@$  . #", "########"}},
	}}

	data, err := Format{}.Encode(doc, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := "C\n8#\n#@$2-.-#\n8#\n\n"
	if string(data) != want {
		t.Errorf("Encode = %q, want %q", data, want)
	}
}

func TestEncodeCollectionName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Plain", "Plain\n\n"},
		{"#12", "Collection: #12\n\n"},
		{"Vol: 1", "Collection: Vol: 1\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := registry.Document{Name: tt.name, Levels: []registry.LevelData{
				{Name: "A", Rows: []string{"###", "#@#", "###"}},
			}}
			data, err := Format{}.Encode(doc, false)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.want) {
				t.Errorf("Encode = %q, want prefix %q", data, tt.want)
			}

			back, err := Format{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v\n%s", err, data)
			}
			if back.Name != tt.name || back.Levels[0].Name != "A" {
				t.Errorf("got collection %q level %q, want %q and %q", back.Name, back.Levels[0].Name, tt.name, "A")
			}
		})
	}
}

func TestEncodeRejectsMultilineNames(t *testing.T) {
	docs := []registry.Document{
		{Name: "two\nlines", Levels: []registry.LevelData{{Name: "A", Rows: []string{"###"}}}},
		{Levels: []registry.LevelData{{Name: "A\r\nB", Rows: []string{"###"}}}},
	}
	for _, doc := range docs {
		if _, err := (Format{}).Encode(doc, false); err == nil {
			t.Errorf("expected error for %+v", doc)
		}
	}
}

func TestEncodeRejectsBadTiles(t *testing.T) {
	doc := registry.Document{Levels: []registry.LevelData{{Name: "bad", Rows: []string{"#x#"}}}}
	if _, err := (Format{}).Encode(doc, false); err == nil {
		t.Error("expected error for invalid tile")
	}
}

func TestRegistered(t *testing.T) {
	f, err := registry.Lookup(ID)
	if err != nil {
		t.Fatalf("format not registered: %v", err)
	}
	if _, ok := f.(registry.Encoder); !ok {
		t.Error("sok format should be writable")
	}
}

// normalise maps the alternative Floor spellings back to a space.
func normalise(row string) string {
	b := []byte(row)
	for i, ch := range b {
		if ch == '-' || ch == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}
