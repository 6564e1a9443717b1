package config

import (
	_ "embed"
)

//go:embed defaults/pushbox.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CollectionsDir: "~/.pushbox/collections",
		Export: ExportConfig{
			Format:   "sok",
			Compress: false,
		},
		Storage: StorageConfig{
			DBPath: "~/.pushbox/pushbox.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
