// Package config provides YAML-based configuration loading for pushbox.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// ExportFormats lists the export format ids accepted in configuration.
var ExportFormats = []string{"sok", "slc"}

// Config is the complete pushbox configuration.
type Config struct {
	// CollectionsDir is searched for collection files given by a relative
	// path that does not exist in the working directory.
	CollectionsDir string        `yaml:"collections_dir"`
	Export         ExportConfig  `yaml:"export"`
	Storage        StorageConfig `yaml:"storage"`
	Log            LogConfig     `yaml:"log"`
}

// ExportConfig controls how collections are written back.
type ExportConfig struct {
	Format   string `yaml:"format"`   // "sok" or "slc"; slc saves fall back to sok
	Compress bool   `yaml:"compress"` // run-length encode rows
}

// StorageConfig locates the replay results database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig sets the log verbosity.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(ExportFormats, c.Export.Format) {
		return fmt.Errorf("export.format %q is not one of %s", c.Export.Format, strings.Join(ExportFormats, ", "))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path must not be empty")
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it is invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ResolveCollection maps a collection argument to a file path. Paths that
// exist as given are used unchanged; relative paths that do not are looked
// up in CollectionsDir.
func (c Config) ResolveCollection(name string) string {
	name = expandHome(name)
	if filepath.IsAbs(name) || c.CollectionsDir == "" {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(expandHome(c.CollectionsDir), name)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
