package zetwerk

import (
	"github.com/mheijink/zetwerk/audit"
	"github.com/mheijink/zetwerk/profile"
	"github.com/mheijink/zetwerk/rewrite"
)

// pipelineOptions holds configuration for a pipeline run.
type pipelineOptions struct {
	// Chapter number the run operates on, as printed in the book.
	chapter int

	// Layout profile, either given directly or loaded from profilePath on
	// first use.
	profile     *profile.Profile
	profilePath string

	// Snapshot of the pre-rewrite chapter, compared against during audits.
	baselinePath string

	// Output directories.
	reportDir string
	renderDir string

	// Stage configuration overrides.
	rewriteConfig    rewrite.Config
	hasRewriteConfig bool
	auditConfig      audit.Config
	hasAuditConfig   bool
}

// defaultOptions returns the default pipeline options.
func defaultOptions() pipelineOptions {
	return pipelineOptions{
		chapter: 1,
	}
}
