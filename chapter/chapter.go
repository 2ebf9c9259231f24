// Package chapter locates a chapter's page range inside a book document and
// selects its body story.
//
// Both values are derived per run rather than cached: page offsets shift as
// soon as pages are added or removed, so callers recompute after every
// structural edit.
package chapter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mheijink/zetwerk/model"
)

var (
	// ErrRangeNotFound is returned when no page carries the chapter's first
	// numbered section heading. Callers must not proceed with a zero range.
	ErrRangeNotFound = errors.New("chapter: range not found")

	// ErrNoBodyStory is returned when no story has any words inside the
	// chapter range.
	ErrNoBodyStory = errors.New("chapter: no body story in range")
)

// Range is the page-offset span of one chapter, inclusive on both ends.
type Range struct {
	Start int
	End   int
}

// Contains reports whether a page offset falls inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("pages %d-%d", r.Start, r.End)
}

// RangeConfig holds configuration for chapter range detection.
type RangeConfig struct {
	// HeadingStyleKeywords classify a paragraph style as a chapter-header
	// style when its lowercased name contains any of them.
	HeadingStyleKeywords []string
}

// DefaultRangeConfig returns the default range detection configuration.
func DefaultRangeConfig() RangeConfig {
	return RangeConfig{
		HeadingStyleKeywords: []string{
			"kop", "hoofdstuk", "header", "chapter", "heading",
		},
	}
}

// RangeDetector finds the page span of a numbered chapter.
type RangeDetector struct {
	config RangeConfig
}

// NewRangeDetector creates a detector with default configuration.
func NewRangeDetector() *RangeDetector {
	return &RangeDetector{config: DefaultRangeConfig()}
}

// NewRangeDetectorWithConfig creates a detector with custom configuration.
func NewRangeDetectorWithConfig(config RangeConfig) *RangeDetector {
	return &RangeDetector{config: config}
}

// Detect returns the page range of chapter n.
//
// Start is the page of the first line-anchored "n.1" section heading. End is
// the page before the first chapter-n+1 heading, preferring a match confirmed
// by a heading-classified paragraph style and falling back to a raw "n+1.1"
// text match; with neither present the chapter runs to the last page. A
// computed End before Start also resets End to the last page.
func (rd *RangeDetector) Detect(doc *model.Document, n int) (Range, error) {
	if doc == nil || doc.PageCount() == 0 {
		return Range{}, ErrRangeNotFound
	}
	doc.Reflow()

	startPat := SectionAnchor(n)
	start := -1
	for _, story := range doc.Stories {
		for _, p := range story.Paragraphs {
			if !startPat.MatchString(p.Text) {
				continue
			}
			if off := p.StartPage(); off >= 0 && (start < 0 || off < start) {
				start = off
			}
		}
	}
	if start < 0 {
		return Range{}, fmt.Errorf("%w: no %d.1 heading", ErrRangeNotFound, n)
	}

	last := doc.PageCount() - 1
	end := last

	if off, ok := rd.nextChapterHeading(doc, n+1, start); ok {
		end = off - 1
	} else if off, ok := firstMatchAtOrAfter(doc, SectionAnchor(n+1), start); ok {
		end = off - 1
	}

	if end < start {
		end = last
	}
	return Range{Start: start, End: end}, nil
}

// nextChapterHeading returns the earliest page at or after from carrying a
// heading-styled paragraph that opens with the next chapter's number.
func (rd *RangeDetector) nextChapterHeading(doc *model.Document, n, from int) (int, bool) {
	pat := ChapterAnchor(n)
	best := -1
	for _, story := range doc.Stories {
		for _, p := range story.Paragraphs {
			if !rd.IsHeadingStyle(p.StyleName) || !pat.MatchString(p.Text) {
				continue
			}
			if off := p.StartPage(); off >= from && (best < 0 || off < best) {
				best = off
			}
		}
	}
	return best, best >= 0
}

// IsHeadingStyle reports whether a paragraph style name is classified as a
// chapter-header style by the configured keyword list.
func (rd *RangeDetector) IsHeadingStyle(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range rd.config.HeadingStyleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func firstMatchAtOrAfter(doc *model.Document, pat *regexp.Regexp, from int) (int, bool) {
	best := -1
	for _, story := range doc.Stories {
		for _, p := range story.Paragraphs {
			if !pat.MatchString(p.Text) {
				continue
			}
			if off := p.StartPage(); off >= from && (best < 0 || off < best) {
				best = off
			}
		}
	}
	return best, best >= 0
}

// SectionAnchor matches "n.1" at the start of a line.
func SectionAnchor(n int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?im)^\s*%d\.1\b`, n))
}

// ChapterAnchor matches chapter n at the start of a line, with or without a
// section suffix.
func ChapterAnchor(n int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?im)^\s*%d(\.|\b)`, n))
}
