package model

import "strings"

// Characters with structural meaning inside paragraph text.
const (
	// LineBreak is a forced line break within a paragraph. Paragraph breaks
	// have no in-text representation; they exist only between Paragraph
	// values, and no rewrite operation may introduce one.
	LineBreak = '\n'

	// AnchorMarker marks an inline non-text anchor (an anchored figure or
	// cross-reference). Paragraphs containing one are protected from every
	// rewrite rule.
	AnchorMarker = '\uFFFC'

	// SoftHyphen is the invisible discretionary hyphen. It must never
	// survive into final chapter output.
	SoftHyphen = '\u00AD'
)

// Justification represents paragraph justification state.
type Justification int

const (
	JustifyUnknown Justification = iota
	JustifyLeft                  // ragged right
	JustifyCenter
	JustifyRight
	JustifyFull         // every line justified, including the last
	JustifyLastLineLeft // justified with a ragged last line
)

// String returns a human-readable representation of the justification mode.
func (j Justification) String() string {
	switch j {
	case JustifyLeft:
		return "left"
	case JustifyCenter:
		return "center"
	case JustifyRight:
		return "right"
	case JustifyFull:
		return "full"
	case JustifyLastLineLeft:
		return "last-line-left"
	default:
		return "unknown"
	}
}

// CharStyle is the per-character formatting state tracked by the pipeline.
// SyntheticBold is the renderer-faked bold flag that can disagree with the
// character style's own weight.
type CharStyle struct {
	Bold          bool
	SyntheticBold bool
	StyleName     string
}

// StyleRun applies one CharStyle to Len consecutive runes of paragraph text.
type StyleRun struct {
	Len   int
	Style CharStyle
}

// Char pairs a single rune with its effective character style. Rules that
// edit text and formatting together operate on []Char and write the result
// back with SetChars.
type Char struct {
	R     rune
	Style CharStyle
}

// Paragraph is the unit of formatting and the unit the rewrite rules operate
// on. Text holds the raw content with embedded forced line breaks; Runs hold
// character styling. A paragraph whose runs cover fewer runes than Text
// extends its last run to the end; a paragraph with no runs has the zero
// style throughout.
type Paragraph struct {
	Text      string
	StyleName string
	Justify   Justification
	Runs      []StyleRun

	// HasSingleWord reports whether the backing format exposes a separate
	// justification mode for single-word lines. When false, writes to
	// SingleWord are silently ignored, mirroring hosts that lack the
	// property.
	HasSingleWord bool
	SingleWord    Justification

	// startPage is the page offset the paragraph starts on, computed by
	// Document.Reflow. -1 means overset or not yet laid out.
	startPage int
}

// NewParagraph creates a paragraph with the given text and a single style
// run covering all of it.
func NewParagraph(text, styleName string) *Paragraph {
	return &Paragraph{
		Text:      text,
		StyleName: styleName,
		Justify:   JustifyLeft,
		Runs:      []StyleRun{{Len: len([]rune(text)), Style: CharStyle{}}},
		startPage: -1,
	}
}

// RuneLen returns the length of the paragraph text in runes.
func (p *Paragraph) RuneLen() int {
	return len([]rune(p.Text))
}

// StartPage returns the 0-based page offset the paragraph starts on, or -1
// if the paragraph is overset or the document has not been reflowed.
func (p *Paragraph) StartPage() int {
	if p == nil {
		return -1
	}
	return p.startPage
}

// HasAnchor reports whether the paragraph contains an inline anchor marker.
func (p *Paragraph) HasAnchor() bool {
	if p == nil {
		return false
	}
	return strings.ContainsRune(p.Text, AnchorMarker)
}

// WordCount returns the number of whitespace-separated words, ignoring
// anchor markers.
func (p *Paragraph) WordCount() int {
	if p == nil {
		return 0
	}
	clean := strings.Map(func(r rune) rune {
		if r == AnchorMarker {
			return ' '
		}
		return r
	}, p.Text)
	return len(strings.Fields(clean))
}

// Chars expands the paragraph into per-rune characters with their effective
// styles. Runs shorter than the text extend their last style; surplus run
// length is ignored.
func (p *Paragraph) Chars() []Char {
	runes := []rune(p.Text)
	chars := make([]Char, len(runes))

	var style CharStyle
	run := 0
	remaining := 0
	if len(p.Runs) > 0 {
		style = p.Runs[0].Style
		remaining = p.Runs[0].Len
	}

	for i, r := range runes {
		for remaining <= 0 && run+1 < len(p.Runs) {
			run++
			style = p.Runs[run].Style
			remaining = p.Runs[run].Len
		}
		chars[i] = Char{R: r, Style: style}
		remaining--
	}
	return chars
}

// SetChars replaces the paragraph text and style runs from per-rune
// characters, compacting adjacent identical styles into single runs.
func (p *Paragraph) SetChars(chars []Char) {
	var sb strings.Builder
	var runs []StyleRun

	for _, c := range chars {
		sb.WriteRune(c.R)
		if n := len(runs); n > 0 && runs[n-1].Style == c.Style {
			runs[n-1].Len++
		} else {
			runs = append(runs, StyleRun{Len: 1, Style: c.Style})
		}
	}

	p.Text = sb.String()
	p.Runs = runs
}

// StyleAt returns the effective character style at the given rune offset.
func (p *Paragraph) StyleAt(offset int) CharStyle {
	chars := p.Chars()
	if offset < 0 || offset >= len(chars) {
		return CharStyle{}
	}
	return chars[offset].Style
}

// ApplyStyle applies a character style to the rune range [start, end).
// Out-of-range bounds are clamped.
func (p *Paragraph) ApplyStyle(start, end int, style CharStyle) {
	chars := p.Chars()
	if start < 0 {
		start = 0
	}
	if end > len(chars) {
		end = len(chars)
	}
	for i := start; i < end; i++ {
		chars[i].Style = style
	}
	p.SetChars(chars)
}

// SetSingleWord sets the single-word-line justification mode when the
// backing format supports it, and reports whether the write took effect.
func (p *Paragraph) SetSingleWord(j Justification) bool {
	if !p.HasSingleWord {
		return false
	}
	p.SingleWord = j
	return true
}

// Clone returns a deep copy of the paragraph.
func (p *Paragraph) Clone() *Paragraph {
	cp := *p
	cp.Runs = make([]StyleRun, len(p.Runs))
	copy(cp.Runs, p.Runs)
	return &cp
}

// Equal reports whether two paragraphs have identical text, formatting and
// style runs. Layout-derived state is ignored.
func (p *Paragraph) Equal(other *Paragraph) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Text != other.Text || p.StyleName != other.StyleName ||
		p.Justify != other.Justify ||
		p.HasSingleWord != other.HasSingleWord ||
		(p.HasSingleWord && p.SingleWord != other.SingleWord) {
		return false
	}
	if len(p.Runs) != len(other.Runs) {
		return false
	}
	for i := range p.Runs {
		if p.Runs[i] != other.Runs[i] {
			return false
		}
	}
	return true
}
