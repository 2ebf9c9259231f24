package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mheijink/zetwerk"
)

var auditBaseline string

var auditCmd = &cobra.Command{
	Use:   "audit [snapshot]",
	Short: "Validate a chapter and write a report",
	Long: `Audit re-scans a chapter snapshot without mutating it, running the
full check set: link and font integrity, overflow, sentinel markers, heading
format, justification, whitespace, chapter-boundary leaks, column pairing,
soft hyphens, bullet orphans and justify gaps.

The report is written to the report directory before the pass/fail decision,
so a failing audit still leaves its diagnostics behind. The command exits
non-zero when the audit fails.

Examples:
  zetwerk audit h2.polished.json --chapter 2 --profile profiel.json --baseline h2.layout.json
  zetwerk audit --manifest boek.manifest.json --chapter 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := resolveInput(args)
		if err != nil {
			return err
		}
		p := zetwerk.Open(in.snapshot).
			Chapter(viper.GetInt("chapter")).
			ReportDir(viper.GetString("report-dir"))
		if in.profile != "" {
			p.ProfileFile(in.profile)
		}
		baseline := auditBaseline
		if baseline == "" {
			baseline = in.baseline
		}
		if baseline != "" {
			p.CompareBaseline(baseline)
		}

		rep, err := p.Audit()
		if rep == nil {
			return err
		}

		failures := make([]string, len(rep.Failures))
		for i, f := range rep.Failures {
			failures[i] = f.String()
		}
		summary := map[string]any{
			"chapter":  viper.GetInt("chapter"),
			"range":    rep.Range.String(),
			"checks":   rep.ChecksRun,
			"passed":   rep.Passed(),
			"failures": failures,
		}
		if serr := writeSummary(cmd, summary); serr != nil {
			return serr
		}
		return err
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditBaseline, "baseline", "", "baseline chapter snapshot to compare against")
}
