package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mheijink/zetwerk"
)

var figuresRenderDir string

var figuresCmd = &cobra.Command{
	Use:   "figures [snapshot]",
	Short: "Extract figure and caption records from a chapter",
	Long: `Figures enumerates caption paragraphs across all stories of the
chapter, pairs each with a placed image or native drawing, anchors it to the
nearest preceding body paragraph, and prints one record per figure. With
--render-dir, natively drawn figures are also exported as raster assets.

Examples:
  zetwerk figures h2.layout.json --chapter 2 -o json
  zetwerk figures --manifest boek.manifest.json --chapter 2 --render-dir assets/`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := resolveInput(args)
		if err != nil {
			return err
		}
		p := zetwerk.Open(in.snapshot).Chapter(viper.GetInt("chapter"))
		if figuresRenderDir != "" {
			p.RenderDir(figuresRenderDir)
		}

		figs, warns, err := p.Figures()
		if err != nil {
			return err
		}

		records := make([]map[string]any, len(figs))
		for i, f := range figs {
			rec := map[string]any{
				"label":   f.Label,
				"caption": f.Caption,
				"page":    f.Page,
			}
			switch {
			case f.Image.LinkPath != "":
				rec["image"] = f.Image.LinkPath
			case f.Image.Kind != "":
				rec["image"] = f.Image.Kind
			}
			if f.Image.Asset != "" {
				rec["asset"] = f.Image.Asset
			}
			if f.Anchor != nil {
				rec["anchor"] = map[string]any{
					"paragraph": f.Anchor.ParagraphIndex,
					"text":      f.Anchor.Text,
				}
			}
			records[i] = rec
		}

		warnings := make([]string, len(warns))
		for i, w := range warns {
			warnings[i] = w.String()
		}
		return writeSummary(cmd, map[string]any{
			"chapter":  viper.GetInt("chapter"),
			"figures":  records,
			"warnings": warnings,
		})
	},
}

func init() {
	figuresCmd.Flags().StringVar(&figuresRenderDir, "render-dir", "", "directory for rendered raster assets")
}
