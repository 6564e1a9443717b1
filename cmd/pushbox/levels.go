package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pushbox/internal/collection"
)

var levelsCmd = &cobra.Command{
	Use:   "levels <collection>",
	Short: "List the levels of a collection",
	Long: `List every level of a collection with its size and whether it passes
validation.

Examples:
  pushbox levels microban.sok
  pushbox levels original.slc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCollection(args[0])
		if err != nil {
			return err
		}
		reports, err := inspect(c)
		if err != nil {
			return err
		}
		printLevels(cmd.OutOrStdout(), c, reports)
		return nil
	},
}

// levelReport is the validation outcome of one level.
type levelReport struct {
	Name   string
	Width  int
	Height int
	Err    error // nil if the level is valid
}

// inspect validates every level of c in file order.
func inspect(c *collection.Collection) ([]levelReport, error) {
	reports := make([]levelReport, 0, c.Len())
	for i, info := range c.Levels() {
		if !c.SetActiveLevelAt(i) {
			return nil, fmt.Errorf("level %d (%q) disappeared", i+1, info.Name)
		}
		ok, err := c.ValidateLevel()
		if err != nil {
			return nil, err
		}
		r := levelReport{Name: info.Name, Width: info.Width, Height: info.Height}
		if !ok {
			r.Err = c.ValidationErr()
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func printLevels(w io.Writer, c *collection.Collection, reports []levelReport) {
	title := c.Name()
	if title == "" {
		title = c.Path()
	}
	fmt.Fprintf(w, "%s (%d levels)\n\n", title, len(reports))

	maxName := 4 // "Name" header
	for _, r := range reports {
		if len(r.Name) > maxName {
			maxName = len(r.Name)
		}
	}

	fmt.Fprintf(w, "  %-4s  %-*s  %-7s  %s\n", "#", maxName, "Name", "Size", "Status")
	fmt.Fprintf(w, "  %-4s  %-*s  %-7s  %s\n", "-", maxName, "----", "----", "------")
	for i, r := range reports {
		status := "ok"
		if r.Err != nil {
			status = "invalid"
		}
		size := fmt.Sprintf("%dx%d", r.Width, r.Height)
		fmt.Fprintf(w, "  %-4d  %-*s  %-7s  %s\n", i+1, maxName, r.Name, size, status)
	}
}
