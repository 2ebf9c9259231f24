package audit

import (
	"regexp"
	"strings"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// sentinelTokens are intermediate markers from the upstream content
// generation stage. None may survive into layout output.
var sentinelTokens = []string{
	"<<BOLD_START>>", "<<BOLD_END>>", "<<MICRO_TITLE>>", "<<MICRO_TITLE_END>>",
}

var (
	labelLineRe   = regexp.MustCompile(`(?m)^(In de praktijk|Verdieping)\b`)
	labelColonRe  = regexp.MustCompile(`(?m)^(In de praktijk|Verdieping):`)
	labelWordRe   = regexp.MustCompile(`\b(In de praktijk|Verdieping)\b`)
	doubleSpaceRe = regexp.MustCompile(`  +`)
	spacePunctRe  = regexp.MustCompile(` [,.;:!?]`)
	noSpaceRe     = regexp.MustCompile(`[;,:]\p{L}`)
	captionRe     = regexp.MustCompile(`^(Afbeelding|Figuur|Tabel)\s+\d+(\.\d+)*\s{2,}`)
)

func (a *Auditor) checkLinks(doc *model.Document, rep *Report) {
	rep.ran("links")
	for _, l := range doc.Links {
		if l.Status != model.LinkOK {
			rep.fail("links", "asset %s is %s", l.Path, l.Status)
		}
	}
}

func (a *Auditor) checkFonts(doc *model.Document, rep *Report) {
	rep.ran("fonts")
	for _, f := range doc.Fonts {
		if !f.Available {
			rep.fail("fonts", "font %q is not available", f.Name)
		} else if f.Substituted {
			rep.fail("fonts", "font %q is substituted", f.Name)
		}
	}
}

func (a *Auditor) checkOverflow(doc *model.Document, rep *Report) {
	rep.ran("overflow")
	for i, s := range doc.Stories {
		if s.Overset() {
			rep.fail("overflow", "story %d oversets its frame chain", i)
		}
	}
}

func (a *Auditor) checkSentinels(doc *model.Document, rep *Report) {
	rep.ran("sentinels")
	for si, s := range doc.Stories {
		for pi, p := range s.Paragraphs {
			for _, token := range sentinelTokens {
				if n := strings.Count(p.Text, token); n > 0 {
					rep.fail("sentinels", "story %d paragraph %d: %d leftover %s", si, pi, n, token)
				}
			}
		}
	}
}

// checkHeadings verifies the strict inline heading format for every label
// occurrence in the body story's chapter range: exactly one blank line
// before the label, a fully bold label, and non-bold inline text after it.
func (a *Auditor) checkHeadings(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("headings")
	violations := 0
	sampled := 0

	for _, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) {
			continue
		}
		for _, loc := range labelLineRe.FindAllStringIndex(p.Text, -1) {
			for _, msg := range headingViolations(p, loc[0], loc[1]) {
				violations++
				if sampled < a.config.SampleLimit {
					rep.fail("headings", "%s: %q", msg, sampleLine(p.Text, loc[0]))
					sampled++
				}
			}
		}
	}
	if violations > sampled {
		rep.note("headings: %d further violations not sampled", violations-sampled)
	}
}

// headingViolations returns the format violations for one label occurrence
// at byte range [start,end) of the paragraph text.
func headingViolations(p *model.Paragraph, start, end int) []string {
	var msgs []string
	text := p.Text

	if start > 0 {
		breaks := 0
		for i := start - 1; i >= 0 && text[i] == '\n'; i-- {
			breaks++
		}
		if breaks != 2 {
			msgs = append(msgs, "label not preceded by exactly one blank line")
		}
	}

	labelStart := runeIndex(text, start)
	labelEnd := runeIndex(text, end)
	if end < len(text) && text[end] == ':' {
		labelEnd++
	}
	for i := labelStart; i < labelEnd; i++ {
		if !p.StyleAt(i).Bold {
			msgs = append(msgs, "label not fully bold")
			break
		}
	}

	rest := text[end:]
	rest = strings.TrimPrefix(rest, ":")
	lineEnd := strings.IndexByte(rest, '\n')
	if lineEnd < 0 {
		lineEnd = len(rest)
	}
	inline := strings.TrimSpace(rest[:lineEnd])
	if inline == "" {
		msgs = append(msgs, "label has no inline text")
	} else {
		firstOff := labelEnd + leadingSpaces(rest[:lineEnd])
		if p.StyleAt(firstOff).Bold {
			msgs = append(msgs, "inline text after label is bold")
		}
	}
	return msgs
}

// checkLabelColon flags line-starting label words that lack a colon, a known
// historical bug pattern distinct from the strict format check.
func (a *Auditor) checkLabelColon(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("label-colon")
	for _, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) {
			continue
		}
		withColon := len(labelColonRe.FindAllString(p.Text, -1))
		total := len(labelLineRe.FindAllString(p.Text, -1))
		if total > withColon {
			rep.fail("label-colon", "%d label line(s) without colon: %q", total-withColon, sampleLine(p.Text, 0))
		}
	}
}

func (a *Auditor) checkJustification(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("justification")
	for i, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) {
			continue
		}
		exempt := containsKeyword(p.StyleName, a.config.HeadingStyleKeywords) ||
			containsKeyword(p.StyleName, a.config.ListStyleKeywords) ||
			hasLabel(p.Text)

		if !exempt {
			if p.Justify == model.JustifyFull {
				rep.fail("justification", "paragraph %d is fully justified", i)
			} else if normalizedRuneLen(p) >= a.config.JustifyThreshold && p.Justify != model.JustifyLastLineLeft {
				rep.fail("justification", "paragraph %d: body text must justify with a ragged last line", i)
			}
		}
		if p.HasSingleWord && p.SingleWord != model.JustifyLeft {
			rep.fail("justification", "paragraph %d: single-word lines must be ragged left", i)
		}
	}
}

func (a *Auditor) checkWhitespace(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("whitespace")
	for i, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) {
			continue
		}
		if a.config.CaptionExempt && captionRe.MatchString(p.Text) {
			continue
		}
		if doubleSpaceRe.MatchString(p.Text) {
			rep.fail("whitespace", "paragraph %d contains double spaces", i)
		}
		if spacePunctRe.MatchString(p.Text) {
			rep.fail("whitespace", "paragraph %d has a space before punctuation", i)
		}
		if noSpaceRe.MatchString(p.Text) {
			rep.fail("whitespace", "paragraph %d misses a space after punctuation", i)
		}
	}
}

// checkBoundaryLeak fails when body-story words sit on a page recognized as
// a next-chapter opener. A baseline document, when given, tolerates counts
// that already existed before the rewrite.
func (a *Auditor) checkBoundaryLeak(doc *model.Document, body *model.Story, r chapter.Range, baseline *model.Document, storyIndex int, rep *Report) {
	rep.ran("boundary-leak")
	if a.profile == nil {
		rep.note("boundary-leak: no layout profile, check skipped")
		return
	}
	for off := 0; off < doc.PageCount(); off++ {
		if off <= r.Start {
			continue
		}
		page := doc.Page(off)
		if !a.profile.IsOpenerMaster(page.Master) || !page.HasGraphics() {
			continue
		}
		words := body.WordCountInRange(off, off)
		allowed := a.config.LeakTolerance
		if baseline != nil && storyIndex < len(baseline.Stories) {
			allowed += baseline.Stories[storyIndex].WordCountInRange(off, off)
		}
		if words > allowed {
			rep.fail("boundary-leak", "page %d is an opener page but carries %d body words (allowed %d)", off, words, allowed)
		}
	}
}

// checkColumnPairs verifies that body-master pages carry their full set of
// profile-recorded columns, failing on pages where only part of the pair is
// present.
func (a *Auditor) checkColumnPairs(doc *model.Document, body *model.Story, rep *Report) {
	rep.ran("column-pairs")
	if a.profile == nil {
		rep.note("column-pairs: no layout profile, check skipped")
		return
	}
	for off := 0; off < doc.PageCount(); off++ {
		page := doc.Page(off)
		if page.Master != a.profile.BodyMaster {
			continue
		}
		expected := a.profile.BodyFrames(page.Side)
		if len(expected) < 2 {
			continue
		}
		present := doc.FramesOnPage(off, body)

		matched := 0
		for _, spec := range expected {
			for _, f := range present {
				if diff(f.Bounds.X, spec.Bounds.X) <= a.config.ColumnTolerance {
					matched++
					break
				}
			}
		}
		if matched > 0 && matched < len(expected) {
			rep.fail("column-pairs", "page %d has %d of %d body columns", off, matched, len(expected))
		}
	}
}

func (a *Auditor) checkSoftHyphens(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("soft-hyphens")
	total := 0
	for _, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) {
			continue
		}
		total += strings.Count(p.Text, string(model.SoftHyphen))
	}
	if total > 0 {
		rep.fail("soft-hyphens", "%d soft hyphen(s) remain in the chapter text", total)
	}
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

// hasLabel matches labels as whole words, so compounds like
// "Verdiepingsstof" stay ordinary body text.
func hasLabel(text string) bool {
	return labelWordRe.MatchString(text)
}

func normalizedRuneLen(p *model.Paragraph) int {
	clean := strings.Map(func(r rune) rune {
		if r == model.AnchorMarker {
			return -1
		}
		return r
	}, p.Text)
	return len([]rune(strings.Join(strings.Fields(clean), " ")))
}

func runeIndex(s string, byteOff int) int {
	return len([]rune(s[:byteOff]))
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return n
}

// sampleLine quotes the line containing byte offset off, truncated for the
// report.
func sampleLine(text string, off int) string {
	start := strings.LastIndexByte(text[:off], '\n') + 1
	end := strings.IndexByte(text[off:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += off
	}
	line := text[start:end]
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return line
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
