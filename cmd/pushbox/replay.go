package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/collection"
	"github.com/vovakirdan/pushbox/internal/core"
	"github.com/vovakirdan/pushbox/internal/engine"
	"github.com/vovakirdan/pushbox/internal/storage"
)

var (
	flagSave   bool
	flagRecord bool
	flagTrace  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <collection> <level> <moves>",
	Short: "Apply a move script to a level",
	Long: `Validate a level, play a move script against it and print the final board.

Moves use LURD notation in either case: l/u/r/d step the pusher, pushing a
box if one is in the way. '-' undoes, '+' redoes and '!' resets the level.
Blocked moves are skipped.

Examples:
  pushbox replay microban.sok "Level 1" rrDDlu
  pushbox replay microban.sok "Level 1" "rr-+DD" --trace
  pushbox replay microban.sok "Level 1" rrDDlu --save --record`,
	Args: cobra.ExactArgs(3),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagSave, "save", false, "Write the resulting position back to the collection file")
	replayCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the result in the results database")
	replayCmd.Flags().BoolVar(&flagTrace, "trace", false, "Print every tile change")
}

func runReplay(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	actions, err := core.ParseScript(args[2])
	if err != nil {
		return err
	}

	c, err := openCollection(args[0])
	if err != nil {
		return err
	}

	if flagTrace {
		tracer := engine.NewFuncListener(func(x, y int, tile byte) {
			fmt.Fprintf(out, "  (%d,%d) -> %q\n", x, y, tile)
		})
		c.AddLevelListener(tracer)
		defer c.RemoveLevelListener(tracer)
	}

	p, err := replay(out, c, args[1], actions)
	if err != nil {
		return err
	}

	if flagSave {
		if err := c.Save(); err != nil {
			return err
		}
		logger.Info("progress saved", "path", c.Path())
	}

	if flagRecord {
		return record(out, c, args[1], p)
	}
	return nil
}

// replay validates level and applies actions, then prints the board and a
// summary line.
func replay(w io.Writer, c *collection.Collection, level string, actions []core.Action) (collection.Progress, error) {
	if !c.SetActiveLevel(level) {
		return collection.Progress{}, fmt.Errorf("no level named %q (have: %s)", level, strings.Join(c.LevelNames(), ", "))
	}

	ok, err := c.ValidateLevel()
	if err != nil {
		return collection.Progress{}, err
	}
	if !ok {
		return collection.Progress{}, fmt.Errorf("level %q is invalid: %w", level, c.ValidationErr())
	}

	skipped := 0
	for _, a := range actions {
		moved, err := c.Apply(a)
		if err != nil {
			return collection.Progress{}, err
		}
		if !moved {
			skipped++
		}
	}

	if err := c.StreamTileData(w); err != nil {
		return collection.Progress{}, err
	}

	p, err := c.Progress()
	if err != nil {
		return collection.Progress{}, err
	}

	fmt.Fprintf(w, "\nmoves %d  pushes %d  skipped %d  solved %v\n", p.Moves, p.Pushes, skipped, p.Solved)
	if p.History != "" {
		fmt.Fprintf(w, "history %s\n", p.History)
	}
	return p, nil
}

// record stores p and prints the run id and the best known solve.
func record(w io.Writer, c *collection.Collection, level string, p collection.Progress) error {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	saved, err := store.SaveResult(storage.Result{
		Collection: collectionKey(c),
		Level:      level,
		Moves:      p.Moves,
		Pushes:     p.Pushes,
		Solved:     p.Solved,
		History:    p.History,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "recorded run %s\n", saved.RunID)

	best, err := store.BestResult(saved.Collection, level)
	if err != nil {
		return err
	}
	if best != nil {
		fmt.Fprintf(w, "best solve %d moves, %d pushes\n", best.Moves, best.Pushes)
	}
	return nil
}

// collectionKey names a collection in the results database: its own name,
// or the file name when it has none.
func collectionKey(c *collection.Collection) string {
	if c.Name() != "" {
		return c.Name()
	}
	return filepath.Base(c.Path())
}
