package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mheijink/zetwerk"
)

var rebuildOut string

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [snapshot]",
	Short: "Isolate one chapter into a baseline snapshot",
	Long: `Rebuild opens a full-book layout snapshot, detects the configured
chapter's page range and body story, cuts the document down to that chapter,
repairs missing column frames from the layout profile, and extends pages while
the body story oversets.

Examples:
  zetwerk rebuild boek.layout.json --chapter 2 --profile profiel.json --out h2.layout.json
  zetwerk rebuild --manifest boek.manifest.json --chapter 2 --out h2.layout.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := resolveInput(args)
		if err != nil {
			return err
		}
		if in.profile == "" {
			return fmt.Errorf("rebuild requires --profile or a manifest profile entry")
		}
		if rebuildOut == "" {
			return fmt.Errorf("rebuild requires --out")
		}

		res, err := zetwerk.Open(in.snapshot).
			Chapter(viper.GetInt("chapter")).
			ProfileFile(in.profile).
			Rebuild()
		if err != nil {
			return err
		}
		if err := res.Doc.Save(rebuildOut); err != nil {
			return err
		}

		warnings := make([]string, len(res.Warnings))
		for i, w := range res.Warnings {
			warnings[i] = w.String()
		}
		return writeSummary(cmd, map[string]any{
			"chapter":  viper.GetInt("chapter"),
			"range":    res.Range.String(),
			"story":    res.StoryIndex,
			"words":    res.WordCount,
			"pages":    res.Doc.PageCount(),
			"out":      rebuildOut,
			"warnings": warnings,
		})
	},
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildOut, "out", "", "path for the baseline chapter snapshot")
}
