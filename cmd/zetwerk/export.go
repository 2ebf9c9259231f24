package main

import (
	"github.com/spf13/cobra"

	"github.com/mheijink/zetwerk"
)

var exportCmd = &cobra.Command{
	Use:   "export <snapshot> <package>",
	Short: "Write a snapshot as an interchange package",
	Long: `Export writes a layout snapshot as an IDML-style interchange
package: a zip archive with a design map, one XML part per story and one per
spread.

Examples:
  zetwerk export h2.polished.json h2.idml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := zetwerk.Open(args[0]).ExportIDML(args[1]); err != nil {
			return err
		}
		return writeSummary(cmd, map[string]any{
			"snapshot": args[0],
			"package":  args[1],
		})
	},
}
