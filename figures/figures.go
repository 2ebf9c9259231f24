// Package figures pairs captions with their figures. Captions are enumerated
// across every story of the document, deduplicated by label, matched to a
// placed image or native drawing near them, and anchored to the closest
// preceding body paragraph so downstream exports know where each figure
// belongs in the prose.
package figures

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
	"github.com/mheijink/zetwerk/render"
)

// Config tunes caption detection and the geometric pairing heuristics. The
// pairing scores are template-tuned weights, not exact geometry; tests should
// assert relative ordering between candidates rather than absolute scores.
type Config struct {
	// CaptionStyleKeywords mark caption-like paragraph styles by substring,
	// case-insensitive.
	CaptionStyleKeywords []string

	// LabelWords are the words that open a caption label, as in
	// "Afbeelding 2.1".
	LabelWords []string

	// PageWindow is how many pages around the caption's page are searched
	// for a matching image.
	PageWindow int

	// MaxCaptionGap is the largest vertical gap, in points, between an
	// image's bottom edge and the caption below it.
	MaxCaptionGap float64

	// MinOverlap is the horizontal overlap, in points, an image must share
	// with its caption.
	MinOverlap float64

	// PageDistPenalty is added to a candidate's score per page of distance
	// from the caption.
	PageDistPenalty float64

	// StyleScore and BodyScore weigh caption deduplication: a caption-like
	// style name and a non-empty body text each make a candidate better.
	StyleScore float64
	BodyScore  float64

	// CrossPagePenalty is added when a figure anchors to a paragraph on an
	// earlier page.
	CrossPagePenalty float64

	// RenderDir, when set, receives rendered raster assets for figures that
	// are native drawings or groups rather than placed image files.
	RenderDir string
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		CaptionStyleKeywords: []string{"bijschrift", "caption", "annotatie", "figuur"},
		LabelWords:           []string{"Afbeelding", "Figuur", "Tabel"},
		PageWindow:           1,
		MaxCaptionGap:        48.0,
		MinOverlap:           12.0,
		PageDistPenalty:      200.0,
		StyleScore:           2.0,
		BodyScore:            1.0,
		CrossPagePenalty:     500.0,
	}
}

// ImageRef identifies the visual matched to a caption: a linked image file,
// or a native page item with an optional rendered stand-in asset.
type ImageRef struct {
	LinkPath string
	Kind     string
	Page     int
	Bounds   model.BBox
	Asset    string
}

// Matched reports whether any visual was found for the caption.
func (ref ImageRef) Matched() bool {
	return ref.LinkPath != "" || ref.Kind != ""
}

// Anchor ties a figure to a body paragraph and records its textual
// neighborhood.
type Anchor struct {
	ParagraphIndex int
	Text           string
	Before         string
	After          string
}

// Figure is one extracted figure record.
type Figure struct {
	Label   string
	Caption string
	Page    int
	Image   ImageRef
	Anchor  *Anchor
}

// Warning records a per-figure problem that did not stop the extraction.
type Warning struct {
	Label   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Label, w.Message)
}

// Extractor runs the caption and figure extraction.
type Extractor struct {
	config   Config
	labelRe  *regexp.Regexp
	renderer *render.Renderer
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(DefaultConfig())
}

// NewExtractorWithConfig creates an extractor with custom configuration.
func NewExtractorWithConfig(config Config) *Extractor {
	words := make([]string, len(config.LabelWords))
	for i, w := range config.LabelWords {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`^\s*(` + strings.Join(words, "|") + `)\s+(\d+(?:\.\d+)*)\s*:?\s*`)
	return &Extractor{
		config:   config,
		labelRe:  re,
		renderer: render.NewRenderer(),
	}
}

// caption is one caption candidate before deduplication.
type caption struct {
	label string
	body  string
	page  int
	place paraPlace
	score float64
}

// Extract enumerates the chapter's figures. bodyIndex names the body story;
// its text frames are never treated as figure candidates and its paragraphs
// supply the anchors.
func (e *Extractor) Extract(doc *model.Document, bodyIndex int, r chapter.Range) ([]Figure, []Warning, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("figures: nil document")
	}
	if bodyIndex < 0 || bodyIndex >= len(doc.Stories) {
		return nil, nil, fmt.Errorf("figures: story index %d out of range", bodyIndex)
	}
	doc.Reflow()

	captions := e.collectCaptions(doc, r)
	body := doc.Stories[bodyIndex]
	bodyPlaces := storyPlaces(body)

	var figures []Figure
	var warnings []Warning
	for _, c := range captions {
		ref, item, ok := e.matchImage(doc, c)
		if !ok {
			warnings = append(warnings, Warning{Label: c.label, Message: "no image or page item matched"})
		}
		if ok && ref.LinkPath == "" && e.config.RenderDir != "" {
			asset := filepath.Join(e.config.RenderDir, slug(c.label)+".png")
			if err := e.renderMatched(item, asset); err != nil {
				warnings = append(warnings, Warning{Label: c.label, Message: "rendered asset export failed: " + err.Error()})
			} else {
				ref.Asset = asset
			}
		}

		at := c.place
		if ok {
			at = paraPlace{page: ref.Page, y: ref.Bounds.Y, bounds: ref.Bounds}
		}
		figures = append(figures, Figure{
			Label:   c.label,
			Caption: c.body,
			Page:    c.page,
			Image:   ref,
			Anchor:  e.anchorTo(body, bodyPlaces, at),
		})
	}
	return figures, warnings, nil
}

// collectCaptions gathers in-range caption paragraphs across all stories and
// deduplicates them by normalized label, keeping the best-scoring candidate.
func (e *Extractor) collectCaptions(doc *model.Document, r chapter.Range) []caption {
	best := make(map[string]caption)
	order := make(map[string]int)
	next := 0

	for _, story := range doc.Stories {
		places := storyPlaces(story)
		for pi, p := range story.Paragraphs {
			if !r.Contains(p.StartPage()) {
				continue
			}
			styled := containsKeyword(p.StyleName, e.config.CaptionStyleKeywords)
			m := e.labelRe.FindStringSubmatch(p.Text)
			if m == nil {
				// Style-only candidates without a parseable label cannot
				// be deduplicated or recorded.
				continue
			}
			if !styled && !strings.Contains(m[0], ":") && !styledLikeCaption(m[0]) {
				// A bare "Afbeelding 2.1" at a paragraph start in prose is
				// only a caption when its style says so or the label form
				// is explicit.
				continue
			}

			c := caption{
				label: m[1] + " " + m[2],
				body:  strings.TrimSpace(p.Text[len(m[0]):]),
				page:  p.StartPage(),
				place: places[pi],
			}
			if styled {
				c.score += e.config.StyleScore
			}
			if c.body != "" {
				c.score += e.config.BodyScore
			}

			key := normLabel(c.label)
			if cur, seen := best[key]; !seen {
				best[key] = c
				order[key] = next
				next++
			} else if c.score > cur.score {
				best[key] = c
			}
		}
	}

	out := make([]caption, 0, len(best))
	for key := range best {
		out = append(out, best[key])
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := normLabel(out[i].label), normLabel(out[j].label)
		if out[i].page != out[j].page {
			return out[i].page < out[j].page
		}
		return order[ki] < order[kj]
	})
	return out
}

// styledLikeCaption accepts the two-space caption layout form even without a
// caption style name.
func styledLikeCaption(prefix string) bool {
	return strings.Contains(prefix, "  ")
}

// normLabel folds a label for deduplication: NFC, lower case, collapsed
// whitespace.
func normLabel(label string) string {
	folded := strings.ToLower(norm.NFC.String(label))
	return strings.Join(strings.Fields(folded), " ")
}

func slug(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
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
