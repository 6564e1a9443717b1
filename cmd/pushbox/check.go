package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/collection"
	"github.com/vovakirdan/pushbox/internal/watch"
)

var flagWatch bool

var checkCmd = &cobra.Command{
	Use:   "check <collection>",
	Short: "Validate every level of a collection",
	Long: `Validate every level of a collection and report the ones that fail,
with the rule they break. Exits with an error if any level is invalid.

With --watch the collection is checked again each time the file changes,
until interrupted.

Examples:
  pushbox check microban.sok
  pushbox check draft.sok --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-check whenever the file changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	c := collection.New(cfg.ResolveCollection(args[0]), collection.WithLogger(logger))

	if !flagWatch {
		if err := c.Initialise(); err != nil {
			return err
		}
		return checkCollection(out, c)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchCollection(ctx, out, c)
}

// checkCollection prints one line per invalid level and a summary. It
// returns an error if any level is invalid.
func checkCollection(w io.Writer, c *collection.Collection) error {
	reports, err := inspect(c)
	if err != nil {
		return err
	}

	invalid := 0
	for _, r := range reports {
		if r.Err == nil {
			continue
		}
		invalid++
		fmt.Fprintf(w, "FAIL  %s: %v\n", r.Name, r.Err)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d levels invalid", invalid, len(reports))
	}
	fmt.Fprintf(w, "ok    %d levels valid\n", len(reports))
	return nil
}

// watchCollection checks c now and after every change of its file until ctx
// is done. Load and check failures are reported but do not stop watching.
func watchCollection(ctx context.Context, w io.Writer, c *collection.Collection) error {
	watcher, err := watch.New(c.Path())
	if err != nil {
		return err
	}
	defer watcher.Close()

	recheck := func() {
		if err := c.Initialise(); err != nil {
			logger.Error("cannot load collection", "path", c.Path(), "error", err)
			return
		}
		if err := checkCollection(w, c); err != nil {
			logger.Warn("check failed", "error", err)
		}
	}

	recheck()
	logger.Info("watching for changes", "path", watcher.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logger.Debug("collection changed", "path", watcher.Path())
			recheck()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
