// Package storage provides SQLite-based persistence for replay results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for replay results.
type Store struct {
	db *sql.DB
}

// Result is the outcome of one replayed move script.
type Result struct {
	ID         int64
	RunID      string
	Collection string
	Level      string
	Moves      int
	Pushes     int
	Solved     bool
	History    string // LURD notation
	CreatedAt  time.Time
}

// LevelStats aggregates the results recorded for one level.
type LevelStats struct {
	Level      string
	Attempts   int
	Solves     int
	BestMoves  int // 0 if never solved
	BestPushes int // fewest pushes among solves, 0 if never solved
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			collection TEXT NOT NULL,
			level TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			pushes INTEGER NOT NULL DEFAULT 0,
			solved INTEGER NOT NULL DEFAULT 0,
			history TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_level ON results(collection, level);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(collection, level, solved, moves, pushes);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveResult records r. A run id is generated when r has none.
// The stored result is returned with its ID and RunID filled in.
func (s *Store) SaveResult(r Result) (Result, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}

	res, err := s.db.Exec(
		`INSERT INTO results (run_id, collection, level, moves, pushes, solved, history)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Collection, r.Level, r.Moves, r.Pushes, r.Solved, r.History,
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save result: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return r, nil
}

const resultColumns = `id, run_id, collection, level, moves, pushes, solved, history, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var r Result
	var createdAt any
	err := sc.Scan(&r.ID, &r.RunID, &r.Collection, &r.Level, &r.Moves, &r.Pushes, &r.Solved, &r.History, &createdAt)
	if err != nil {
		return r, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// ResultByRunID retrieves a result by its run id. It returns nil if there
// is none.
func (s *Store) ResultByRunID(runID string) (*Result, error) {
	row := s.db.QueryRow(`SELECT `+resultColumns+` FROM results WHERE run_id = ?`, runID)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &r, nil
}

// BestResult returns the solve of a level with the fewest moves, then the
// fewest pushes. It returns nil if the level was never solved.
func (s *Store) BestResult(collection, level string) (*Result, error) {
	row := s.db.QueryRow(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE collection = ? AND level = ? AND solved = 1
		 ORDER BY moves ASC, pushes ASC, id ASC
		 LIMIT 1`,
		collection, level,
	)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best result: %w", err)
	}
	return &r, nil
}

// Results retrieves the most recent results for a collection, newest first.
func (s *Store) Results(collection string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE collection = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		collection, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// CollectionStats aggregates results per level of a collection, ordered by
// level name.
func (s *Store) CollectionStats(collection string) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level,
		        COUNT(*),
		        COALESCE(SUM(solved), 0),
		        COALESCE(MIN(CASE WHEN solved = 1 THEN moves END), 0),
		        COALESCE(MIN(CASE WHEN solved = 1 THEN pushes END), 0),
		        MAX(created_at)
		 FROM results
		 WHERE collection = ?
		 GROUP BY level
		 ORDER BY level`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get collection stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var ls LevelStats
		var lastPlayed any
		if err := rows.Scan(&ls.Level, &ls.Attempts, &ls.Solves, &ls.BestMoves, &ls.BestPushes, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, ls)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// Collections returns the names of all collections with recorded results.
func (s *Store) Collections() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT collection FROM results ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ClearResults deletes all results for the given collection.
func (s *Store) ClearResults(collection string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE collection = ?", collection)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// parseTime handles the datetime forms the driver returns: time.Time for
// typed columns, strings for aggregates.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
