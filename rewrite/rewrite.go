// Package rewrite applies the body-text normalization rules to a chapter's
// body story: heading inline-merge, justification policy, spacing cleanup,
// terminology normalization, mixed-emphasis repair, isolated-bullet repair
// and micro-bullet-to-prose merging.
//
// Rules only ever touch the selected body story, only paragraphs whose start
// page lies inside the chapter range, and never paragraphs carrying an inline
// anchor marker. No rule introduces paragraph breaks; the micro-merge deletes
// paragraphs, which is the one designed pagination-changing edit.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// Config toggles and tunes the individual rules. Every rule can be switched
// off independently.
type Config struct {
	HeadingMerge bool
	Justify      bool
	Spacing      bool
	Terminology  bool
	Emphasis     bool
	BulletRepair bool
	MicroMerge   bool

	// JustifyThreshold is the normalized character length at or above which
	// a body paragraph is forced into last-line-ragged justification.
	JustifyThreshold int

	// ListStyleKeywords classify a paragraph style as list-like.
	ListStyleKeywords []string

	// HeadingStyleKeywords classify a paragraph style as a heading, which
	// excludes it from the micro-merge intro search.
	HeadingStyleKeywords []string

	// CaptionExempt skips spacing normalization for caption-pattern
	// paragraphs, whose double spacing may be intentional layout.
	CaptionExempt bool

	// RepairTable maps known-bad isolated-bullet fragments to corrected
	// full sentences.
	RepairTable map[string]string

	// MaxMergeItems caps the bullet run length eligible for micro-merging.
	MaxMergeItems int

	// MaxItemTokens caps the token count of a mergeable bullet item.
	MaxItemTokens int
}

// DefaultConfig returns the default rewrite configuration with every rule
// enabled.
func DefaultConfig() Config {
	return Config{
		HeadingMerge: true,
		Justify:      true,
		Spacing:      true,
		Terminology:  true,
		Emphasis:     true,
		BulletRepair: true,
		MicroMerge:   true,

		JustifyThreshold:     80,
		ListStyleKeywords:    []string{"opsomming", "lijst", "bullet", "list"},
		HeadingStyleKeywords: chapter.DefaultRangeConfig().HeadingStyleKeywords,
		CaptionExempt:        true,
		RepairTable:          defaultRepairTable(),
		MaxMergeItems:        4,
		MaxItemTokens:        8,
	}
}

// Stats counts the edits made by one rewrite pass.
type Stats struct {
	Headings    int
	Justified   int
	Spacing     int
	Terminology int
	Emphasis    int
	Bullets     int
	Merged      int
}

// Total returns the total number of edits.
func (s Stats) Total() int {
	return s.Headings + s.Justified + s.Spacing + s.Terminology + s.Emphasis + s.Bullets + s.Merged
}

// Engine applies the rewrite rules.
type Engine struct {
	config Config
}

// NewEngine creates an engine with default configuration.
func NewEngine() *Engine {
	return &Engine{config: DefaultConfig()}
}

// NewEngineWithConfig creates an engine with custom configuration.
func NewEngineWithConfig(config Config) *Engine {
	return &Engine{config: config}
}

// Apply runs the enabled rules over the body story's in-range paragraphs and
// returns edit counts. The document is reflowed after the pass so layout
// state reflects the edits.
func (e *Engine) Apply(doc *model.Document, storyIndex int, r chapter.Range) (*Stats, error) {
	if doc == nil {
		return nil, fmt.Errorf("rewrite: nil document")
	}
	if storyIndex < 0 || storyIndex >= len(doc.Stories) {
		return nil, fmt.Errorf("rewrite: story index %d out of range", storyIndex)
	}
	doc.Reflow()

	body := doc.Stories[storyIndex]
	stats := &Stats{}

	for _, p := range body.Paragraphs {
		if !e.inScope(p, r) {
			continue
		}
		// Text repairs run before the heading merge so the merge sees
		// final spacing when it bolds label spans.
		if e.config.Spacing {
			stats.Spacing += e.normalizeSpacing(p)
		}
		if e.config.Terminology {
			stats.Terminology += normalizeTerminology(p)
		}
		if e.config.HeadingMerge {
			stats.Headings += mergeHeadings(p)
		}
		if e.config.Justify {
			stats.Justified += e.applyJustify(p)
		}
		if e.config.Emphasis {
			stats.Emphasis += normalizeEmphasis(p)
		}
	}

	if e.config.BulletRepair {
		stats.Bullets += e.repairIsolatedBullets(body, r)
	}
	if e.config.MicroMerge {
		doc.Reflow()
		stats.Merged += e.mergeMicroBullets(body, r)
	}

	doc.Reflow()
	return stats, nil
}

// inScope reports whether a paragraph may be mutated: inside the chapter
// range and free of inline anchors.
func (e *Engine) inScope(p *model.Paragraph, r chapter.Range) bool {
	return r.Contains(p.StartPage()) && !p.HasAnchor()
}

func (e *Engine) isListStyle(name string) bool {
	return containsKeyword(name, e.config.ListStyleKeywords)
}

func (e *Engine) isHeadingStyle(name string) bool {
	return containsKeyword(name, e.config.HeadingStyleKeywords)
}

func containsKeyword(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// normalizedLen is the paragraph's character length with anchors stripped
// and whitespace collapsed.
func normalizedLen(p *model.Paragraph) int {
	text := strings.Map(func(r rune) rune {
		if r == model.AnchorMarker {
			return -1
		}
		return r
	}, p.Text)
	return len([]rune(strings.Join(strings.Fields(text), " ")))
}

// isLayer reports whether the paragraph carries one of the supplementary
// heading labels as a whole word.
func isLayer(p *model.Paragraph) bool {
	return labelWordRe.MatchString(p.Text)
}

