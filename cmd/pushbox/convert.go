package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagCompress bool
	flagName     string
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Rewrite a collection as plain text",
	Long: `Read a collection in any supported format and write it as plain text.

The output replaces <out> atomically. With --compress rows are run-length
encoded, e.g. "####$$####$$" becomes "2(4#2$)".

Examples:
  pushbox convert original.slc copy.sok
  pushbox convert big.sok small.sok --compress
  pushbox convert draft.sok final.sok --name "My Pack"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCollection(args[0])
		if err != nil {
			return err
		}
		if flagCompress {
			c.EnableCompression()
		}
		if flagName != "" {
			c.SetName(flagName)
		}
		if err := c.SaveAs(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d levels to %s\n", c.Len(), args[1])
		return nil
	},
}

func init() {
	convertCmd.Flags().BoolVar(&flagCompress, "compress", false, "Run-length encode rows")
	convertCmd.Flags().StringVar(&flagName, "name", "", "Rename the collection")
}
