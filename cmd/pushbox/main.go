// pushbox loads, checks and replays push-block puzzle collections.
//
// Usage:
//
//	pushbox formats                          - List supported collection formats
//	pushbox levels <collection>              - List levels with size and validity
//	pushbox check <collection>               - Validate every level
//	pushbox replay <collection> <level> <moves>
//	                                         - Play a move script against a level
//	pushbox convert <in> <out>               - Rewrite a collection as plain text
//	pushbox stats [collection]               - Show recorded replay results
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.pushbox/config.yaml, ./configs/pushbox.yaml)
//	--log-level <level> - debug, info, warn or error
//	--db <path>         - Results database (default: ~/.pushbox/pushbox.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/collection"
	"github.com/vovakirdan/pushbox/internal/config"

	// Import formats to register them
	_ "github.com/vovakirdan/pushbox/internal/formats/slc"
	_ "github.com/vovakirdan/pushbox/internal/formats/sok"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagDBPath   string

	cfg    = config.Default()
	logger = newLogger(log.InfoLevel)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pushbox",
	Short: "pushbox - load, check and replay push-block puzzles",
	Long: `pushbox works with collections of push-block puzzles stored as plain
text (.sok) or tagged XML (.slc) files.

Available commands:
  formats  - Show supported collection formats
  levels   - List the levels of a collection
  check    - Validate every level of a collection
  replay   - Apply a move script to a level
  convert  - Rewrite a collection as plain text
  stats    - Show recorded replay results

Examples:
  pushbox levels microban.sok
  pushbox check microban.sok --watch
  pushbox replay microban.sok "Level 1" "rrDDlu" --record
  pushbox convert original.slc copy.sok --compress
  pushbox stats Microban`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database")

	// Add subcommands
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(statsCmd)
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		loaded.Storage.DBPath = flagDBPath
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	cfg = loaded
	logger = newLogger(cfg.LogLevel())
	return nil
}

func newLogger(level log.Level) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pushbox",
	})
	l.SetLevel(level)
	return l
}

// openCollection resolves and loads a collection with the configured
// export settings.
func openCollection(arg string) (*collection.Collection, error) {
	c := collection.New(cfg.ResolveCollection(arg),
		collection.WithLogger(logger),
		collection.WithCompression(cfg.Export.Compress),
	)
	if err := c.SetFileFormat(cfg.Export.Format); err != nil {
		return nil, err
	}
	if err := c.Initialise(); err != nil {
		return nil, err
	}
	return c, nil
}
