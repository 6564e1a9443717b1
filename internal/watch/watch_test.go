package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.sok")
	if err := os.WriteFile(path, []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	// Changes to other files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.sok"), []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("##"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != w.Path() {
			t.Errorf("event for %q, want %q", got, w.Path())
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event after writing the watched file")
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.sok")
	if err := os.WriteFile(path, []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	// A save written in two chunks.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("###"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(Debounce / 4)
	if _, err := f.WriteString("\n#@#"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Events:
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "###\n#@#" {
			t.Errorf("event delivered before the last write, file = %q", data)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event after writing the watched file")
	}

	select {
	case <-w.Events:
		t.Error("a burst of writes should produce one event")
	case <-time.After(3 * Debounce):
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "levels.sok")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "levels.sok"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("Events should be closed")
	}
}
