// Package baseline isolates one chapter of a book document into a standalone
// artifact that is safe to edit without bleeding into neighboring chapters.
//
// The builder cuts away pages outside the chapter (keeping its opener
// spread), truncates the body story at heading-confirmed boundaries, repairs
// missing body-column frames from the layout profile, and extends the
// document with profile-built pages until the body story no longer oversets.
package baseline

import (
	"fmt"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
	"github.com/mheijink/zetwerk/profile"
)

// BoundsTolerance is the maximum distance, in points, between a recorded
// frame position and a placed frame for the two to be considered the same
// column.
const BoundsTolerance = 6.0

// Config holds configuration for baseline building.
type Config struct {
	// MaxExtensionPages caps the overset extension loop.
	MaxExtensionPages int

	// Range overrides the detector's configuration.
	Range chapter.RangeConfig
}

// DefaultConfig returns the default baseline configuration.
func DefaultConfig() Config {
	return Config{
		MaxExtensionPages: 12,
		Range:             chapter.DefaultRangeConfig(),
	}
}

// Warning records a structural step that failed without aborting the build.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// Result is an isolated chapter baseline.
type Result struct {
	Doc        *model.Document
	Range      chapter.Range
	StoryIndex int
	WordCount  int
	Warnings   []Warning
}

// Builder produces chapter baselines.
type Builder struct {
	config   Config
	profile  *profile.Profile
	detector *chapter.RangeDetector
}

// NewBuilder creates a builder for the given layout profile with default
// configuration.
func NewBuilder(p *profile.Profile) *Builder {
	return NewBuilderWithConfig(p, DefaultConfig())
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(p *profile.Profile, config Config) *Builder {
	return &Builder{
		config:   config,
		profile:  p,
		detector: chapter.NewRangeDetectorWithConfig(config.Range),
	}
}

// Build isolates chapter n of doc into a new document. The source document is
// never mutated. Range or body-story detection failures are hard errors;
// individual structural repairs that fail are recorded as warnings instead.
func (b *Builder) Build(doc *model.Document, n int) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("baseline: nil document")
	}
	work := doc.Clone()

	r, err := b.detector.Detect(work, n)
	if err != nil {
		return nil, fmt.Errorf("baseline: chapter %d: %w", n, err)
	}
	sel, err := chapter.SelectBodyStory(work, r)
	if err != nil {
		return nil, fmt.Errorf("baseline: chapter %d: %w", n, err)
	}
	body := work.Stories[sel.StoryIndex]

	res := &Result{Doc: work, StoryIndex: sel.StoryIndex}

	startCut := b.openerCut(work, r.Start)
	nextCut := work.PageCount()
	if r.End+1 < work.PageCount() {
		nextCut = b.openerCut(work, r.End+1)
		if nextCut <= r.Start {
			// Never cut away the chapter's own heading page when the opener
			// scan reaches back into it.
			nextCut = r.End + 1
		}
	}

	b.truncateBody(body, n, res)

	work.RemovePagesFrom(nextCut)
	work.RemovePagesBefore(startCut)
	work.Reflow()

	b.repairColumns(work, body, res)
	b.extendWhileOverset(work, body, res)

	// Offsets shifted with the cuts; re-derive the range on the isolated
	// document so downstream stages see current offsets.
	if r2, err := b.detector.Detect(work, n); err == nil {
		res.Range = r2
	} else {
		res.Range = chapter.Range{Start: 0, End: work.PageCount() - 1}
		res.warn("range", "could not re-detect range after isolation: %v", err)
	}

	res.WordCount = body.WordCountInRange(res.Range.Start, res.Range.End)
	return res, nil
}

// openerCut returns the page offset to cut at for a chapter whose first
// heading sits at headingOff: the nearest preceding graphics-carrying opener
// page within the lookback window, or the heading page itself.
func (b *Builder) openerCut(doc *model.Document, headingOff int) int {
	lookback := b.profile.Lookback()
	for off := headingOff - 1; off >= 0 && off >= headingOff-lookback; off-- {
		page := doc.Page(off)
		if page == nil {
			break
		}
		if b.profile.IsOpenerMaster(page.Master) && page.HasGraphics() {
			return off
		}
	}
	return headingOff
}

// truncateBody cuts the body story at heading-confirmed chapter boundaries.
// A raw text match without a heading-classified style never triggers a cut.
func (b *Builder) truncateBody(body *model.Story, n int, res *Result) {
	nextPat := chapter.ChapterAnchor(n + 1)
	for i, p := range body.Paragraphs {
		if b.detector.IsHeadingStyle(p.StyleName) && nextPat.MatchString(p.Text) {
			body.TruncateAfter(i)
			break
		}
	}

	startPat := chapter.SectionAnchor(n)
	for i, p := range body.Paragraphs {
		if !startPat.MatchString(p.Text) {
			continue
		}
		if b.detector.IsHeadingStyle(p.StyleName) {
			body.TruncateBefore(i)
		} else {
			res.warn("truncate", "leading %d.1 match at paragraph %d lacks a heading style, not cutting", n, i)
		}
		break
	}
}

// repairColumns synthesizes missing body-column frames on body-master pages
// at profile-recorded bounds and threads them into the story chain.
func (b *Builder) repairColumns(doc *model.Document, body *model.Story, res *Result) {
	for off := 0; off < doc.PageCount(); off++ {
		page := doc.Page(off)
		if page.Master != b.profile.BodyMaster {
			continue
		}
		expected := b.profile.BodyFrames(page.Side)
		if len(expected) == 0 {
			continue
		}
		present := doc.FramesOnPage(off, body)

		for _, spec := range expected {
			if hasFrameNear(present, spec.Bounds) {
				continue
			}
			f := page.AddFrame(spec.Bounds, spec.Capacity)
			idx := threadIndexFor(doc, body, off, spec.Bounds)
			body.ThreadAt(idx, f)
			present = append(present, f)
			res.warn("repair", "page %d: synthesized missing column at x=%.0f", off, spec.Bounds.X)
		}
	}
	doc.Reflow()
}

// extendWhileOverset appends profile-built body pages until the story fits or
// the iteration cap is reached.
func (b *Builder) extendWhileOverset(doc *model.Document, body *model.Story, res *Result) {
	for i := 0; i < b.config.MaxExtensionPages && body.Overset(); i++ {
		side := model.SideForOffset(doc.PageCount())
		specs := b.profile.BodyFrames(side)
		if len(specs) == 0 {
			res.warn("extend", "no body frames recorded for %s pages, leaving story overset", side)
			return
		}

		page := model.NewPage(b.profile.PageWidth, b.profile.PageHeight)
		page.Side = side
		page.Master = b.profile.BodyMaster
		doc.AddPage(page)
		for _, spec := range specs {
			body.Thread(page.AddFrame(spec.Bounds, spec.Capacity))
		}
		doc.Reflow()
	}
	if body.Overset() {
		res.warn("extend", "story still overset after %d added pages", b.config.MaxExtensionPages)
	}
}

func (r *Result) warn(stage, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

func hasFrameNear(frames []*model.Frame, bounds model.BBox) bool {
	for _, f := range frames {
		if near(f.Bounds.X, bounds.X) && near(f.Bounds.Y, bounds.Y) {
			return true
		}
	}
	return false
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= BoundsTolerance
}

// threadIndexFor finds where in the story's frame chain a frame on page off
// at the given bounds belongs: after frames on earlier pages and after frames
// on the same page placed further left.
func threadIndexFor(doc *model.Document, story *model.Story, off int, bounds model.BBox) int {
	for i, f := range story.Frames {
		p := doc.PageOffset(f.Page())
		if p < 0 || p < off {
			continue
		}
		if p > off || f.Bounds.X > bounds.X {
			return i
		}
	}
	return len(story.Frames)
}
