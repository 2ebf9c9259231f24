package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mheijink/zetwerk"
)

var polishOut string

var polishCmd = &cobra.Command{
	Use:   "polish [snapshot]",
	Short: "Apply the body-text rewrite rules to a chapter",
	Long: `Polish opens a chapter snapshot, locates the chapter's body story,
and applies the rewrite rules: heading inline-merge, justification policy,
spacing normalization, terminology, emphasis normalization, bullet repair and
micro-bullet merging. Only in-range, anchor-free paragraphs of the body story
are touched.

Examples:
  zetwerk polish h2.layout.json --chapter 2 --out h2.polished.json
  zetwerk polish h2.layout.json --chapter 2        # rewrites in place
  zetwerk polish --manifest boek.manifest.json --chapter 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := resolveInput(args)
		if err != nil {
			return err
		}
		res, err := zetwerk.Open(in.snapshot).
			Chapter(viper.GetInt("chapter")).
			Polish()
		if err != nil {
			return err
		}

		out := polishOut
		if out == "" {
			out = in.snapshot
		}
		if err := res.Doc.Save(out); err != nil {
			return err
		}

		return writeSummary(cmd, map[string]any{
			"chapter": viper.GetInt("chapter"),
			"range":   res.Range.String(),
			"story":   res.StoryIndex,
			"out":     out,
			"edits": map[string]int{
				"headings":    res.Stats.Headings,
				"justify":     res.Stats.Justified,
				"spacing":     res.Stats.Spacing,
				"terminology": res.Stats.Terminology,
				"emphasis":    res.Stats.Emphasis,
				"bullets":     res.Stats.Bullets,
				"merges":      res.Stats.Merged,
				"total":       res.Stats.Total(),
			},
		})
	},
}

func init() {
	polishCmd.Flags().StringVar(&polishOut, "out", "", "output snapshot path (default: rewrite input in place)")
}
