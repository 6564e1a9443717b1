package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/registry"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported collection formats",
	Long:  `Shows every collection format pushbox can read, and which of them it can write.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		printFormats(cmd.OutOrStdout(), registry.List())
	},
}

func printFormats(w io.Writer, formats []registry.FormatInfo) {
	if len(formats) == 0 {
		fmt.Fprintln(w, "No formats available.")
		return
	}

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, f := range formats {
		if len(f.ID) > maxIDLen {
			maxIDLen = len(f.ID)
		}
	}

	fmt.Fprintf(w, "  %-*s  %-5s  %s\n", maxIDLen, "ID", "Write", "Title")
	fmt.Fprintf(w, "  %-*s  %-5s  %s\n", maxIDLen, "--", "-----", "-----")

	for _, f := range formats {
		write := "no"
		if f.Writable {
			write = "yes"
		}
		fmt.Fprintf(w, "  %-*s  %-5s  %s\n", maxIDLen, f.ID, write, f.Title)
	}
}
