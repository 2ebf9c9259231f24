// Package audit re-scans a rewritten chapter document and reports rule
// violations without mutating anything.
//
// Checks accumulate failures into a Report; nothing is thrown mid-scan.
// Callers persist the report first and only then convert the failure list
// into an error, so diagnostic detail survives automated failures.
package audit

import (
	"fmt"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
	"github.com/mheijink/zetwerk/profile"
)

// Config toggles the individual checks and tunes their thresholds.
type Config struct {
	Links         bool
	Fonts         bool
	Overflow      bool
	Sentinels     bool
	Headings      bool
	LabelColon    bool
	Justification bool
	Whitespace    bool
	BoundaryLeak  bool
	ColumnPairs   bool
	SoftHyphens   bool
	BulletOrphans bool
	JustifyGaps   bool

	// SampleLimit caps how many individual heading violations are quoted
	// in the report.
	SampleLimit int

	// JustifyThreshold mirrors the rewrite policy: body paragraphs at or
	// above this normalized length must be justified with a ragged last
	// line.
	JustifyThreshold int

	ListStyleKeywords    []string
	HeadingStyleKeywords []string

	// CaptionExempt skips whitespace checks for caption-shaped paragraphs.
	CaptionExempt bool

	// LeakTolerance is the number of body words allowed on a next-chapter
	// opener page beyond the baseline's count.
	LeakTolerance int

	// ColumnTolerance is the horizontal slack, in points, when matching a
	// placed frame against a profile-recorded column.
	ColumnTolerance float64

	// Justify-gap estimation: average character width in points, the
	// largest acceptable inter-word gap, and the minimum fraction of the
	// column a line must span before its gap counts.
	AvgCharWidth float64
	MaxGapPoints float64
	MinSpanRatio float64

	// Bullet-orphan split: a lone bullet this far down its column (as a
	// fill fraction), with at least MinSiblings bullets starting this high
	// in the next column, is a split orphan.
	SingletonBottomRatio float64
	SiblingTopRatio      float64
	MinSiblings          int
}

// DefaultConfig returns the default audit configuration with every check
// enabled.
func DefaultConfig() Config {
	return Config{
		Links:         true,
		Fonts:         true,
		Overflow:      true,
		Sentinels:     true,
		Headings:      true,
		LabelColon:    true,
		Justification: true,
		Whitespace:    true,
		BoundaryLeak:  true,
		ColumnPairs:   true,
		SoftHyphens:   true,
		BulletOrphans: true,
		JustifyGaps:   true,

		SampleLimit:          12,
		JustifyThreshold:     80,
		ListStyleKeywords:    []string{"opsomming", "lijst", "bullet", "list"},
		HeadingStyleKeywords: chapter.DefaultRangeConfig().HeadingStyleKeywords,
		CaptionExempt:        true,
		LeakTolerance:        0,
		ColumnTolerance:      6.0,

		AvgCharWidth: 4.6,
		MaxGapPoints: 18.0,
		MinSpanRatio: 0.85,

		SingletonBottomRatio: 0.65,
		SiblingTopRatio:      0.40,
		MinSiblings:          3,
	}
}

// Auditor runs the configured checks.
type Auditor struct {
	config  Config
	profile *profile.Profile
}

// NewAuditor creates an auditor for the given layout profile with default
// configuration.
func NewAuditor(p *profile.Profile) *Auditor {
	return NewAuditorWithConfig(p, DefaultConfig())
}

// NewAuditorWithConfig creates an auditor with custom configuration.
func NewAuditorWithConfig(p *profile.Profile, config Config) *Auditor {
	return &Auditor{config: config, profile: p}
}

// Run scans the document and returns the accumulated report. baseline may be
// nil; when present it supplies the pre-rewrite word counts the boundary
// leak check tolerates. The scan itself never fails except on invalid input.
func (a *Auditor) Run(doc *model.Document, storyIndex int, r chapter.Range, baseline *model.Document) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("audit: nil document")
	}
	if storyIndex < 0 || storyIndex >= len(doc.Stories) {
		return nil, fmt.Errorf("audit: story index %d out of range", storyIndex)
	}
	doc.Reflow()
	if baseline != nil {
		baseline.Reflow()
	}

	rep := newReport(r)
	body := doc.Stories[storyIndex]

	if a.config.Links {
		a.checkLinks(doc, rep)
	}
	if a.config.Fonts {
		a.checkFonts(doc, rep)
	}
	if a.config.Overflow {
		a.checkOverflow(doc, rep)
	}
	if a.config.Sentinels {
		a.checkSentinels(doc, rep)
	}
	if a.config.Headings {
		a.checkHeadings(body, r, rep)
	}
	if a.config.LabelColon {
		a.checkLabelColon(body, r, rep)
	}
	if a.config.Justification {
		a.checkJustification(body, r, rep)
	}
	if a.config.Whitespace {
		a.checkWhitespace(body, r, rep)
	}
	if a.config.BoundaryLeak {
		a.checkBoundaryLeak(doc, body, r, baseline, storyIndex, rep)
	}
	if a.config.ColumnPairs {
		a.checkColumnPairs(doc, body, rep)
	}
	if a.config.SoftHyphens {
		a.checkSoftHyphens(body, r, rep)
	}
	if a.config.BulletOrphans {
		a.checkBulletOrphans(doc, body, r, rep)
	}
	if a.config.JustifyGaps {
		a.checkJustifyGaps(body, r, rep)
	}

	return rep, nil
}
