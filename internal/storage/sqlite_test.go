package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.pushbox/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".pushbox", "test.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}

func TestSaveResultAssignsRunID(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveResult(Result{Collection: "Classic", Level: "Room", Moves: 3, Pushes: 2, Solved: true, History: "LdR"})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected an ID")
	}
	if _, err := uuid.Parse(saved.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", saved.RunID, err)
	}

	got, err := store.ResultByRunID(saved.RunID)
	if err != nil || got == nil {
		t.Fatalf("ResultByRunID() = %v, %v", got, err)
	}
	if got.Level != "Room" || got.Moves != 3 || got.Pushes != 2 || !got.Solved || got.History != "LdR" {
		t.Errorf("stored result = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	missing, err := store.ResultByRunID(uuid.NewString())
	if err != nil || missing != nil {
		t.Errorf("ResultByRunID(unknown) = %v, %v", missing, err)
	}

	if _, err := store.SaveResult(Result{RunID: saved.RunID, Collection: "Classic", Level: "Room"}); err == nil {
		t.Error("duplicate run id should be rejected")
	}
}

func TestBestResult(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []Result{
		{Collection: "Classic", Level: "Room", Moves: 9, Pushes: 2, Solved: true},
		{Collection: "Classic", Level: "Room", Moves: 2, Pushes: 1, Solved: false},
		{Collection: "Classic", Level: "Room", Moves: 5, Pushes: 3, Solved: true},
		{Collection: "Classic", Level: "Room", Moves: 5, Pushes: 2, Solved: true},
		{Collection: "Other", Level: "Room", Moves: 1, Pushes: 1, Solved: true},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	best, err := store.BestResult("Classic", "Room")
	if err != nil || best == nil {
		t.Fatalf("BestResult() = %v, %v", best, err)
	}
	if best.Moves != 5 || best.Pushes != 2 {
		t.Errorf("best = %d moves %d pushes, want 5/2", best.Moves, best.Pushes)
	}

	none, err := store.BestResult("Classic", "Unplayed")
	if err != nil || none != nil {
		t.Errorf("BestResult(unplayed) = %v, %v", none, err)
	}
}

func TestResultsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 25; i++ {
		if _, err := store.SaveResult(Result{Collection: "Classic", Level: "Room", Moves: i}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := store.Results("Classic", 0)
	if err != nil {
		t.Fatalf("Results() failed: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("default limit returned %d results, want 20", len(results))
	}
	if results[0].Moves != 25 || results[19].Moves != 6 {
		t.Errorf("order: first %d, last %d", results[0].Moves, results[19].Moves)
	}

	results, _ = store.Results("Classic", 5)
	if len(results) != 5 {
		t.Errorf("limit 5 returned %d", len(results))
	}
}

func TestCollectionStats(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []Result{
		{Collection: "Classic", Level: "Room", Moves: 9, Pushes: 4, Solved: true},
		{Collection: "Classic", Level: "Room", Moves: 7, Pushes: 5, Solved: true},
		{Collection: "Classic", Level: "Room", Moves: 1, Pushes: 0},
		{Collection: "Classic", Level: "Broken", Moves: 2},
		{Collection: "Other", Level: "Room", Moves: 1, Solved: true},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.CollectionStats("Classic")
	if err != nil {
		t.Fatalf("CollectionStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d levels, want 2", len(stats))
	}

	broken, room := stats[0], stats[1]
	if broken.Level != "Broken" || broken.Attempts != 1 || broken.Solves != 0 || broken.BestMoves != 0 {
		t.Errorf("Broken stats = %+v", broken)
	}
	if room.Attempts != 3 || room.Solves != 2 || room.BestMoves != 7 || room.BestPushes != 4 {
		t.Errorf("Room stats = %+v", room)
	}
	if room.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	names, err := store.Collections()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Classic" || names[1] != "Other" {
		t.Errorf("Collections() = %v", names)
	}
}

func TestClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{Collection: "Classic", Level: "Room", Solved: true})
	store.SaveResult(Result{Collection: "Other", Level: "Room", Solved: true})

	if err := store.ClearResults("Classic"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	results, _ := store.Results("Classic", 10)
	if len(results) != 0 {
		t.Errorf("expected no Classic results, got %d", len(results))
	}
	results, _ = store.Results("Other", 10)
	if len(results) != 1 {
		t.Errorf("Other results should be untouched, got %d", len(results))
	}
}
