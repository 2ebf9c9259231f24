package rewrite

import (
	"strings"
	"unicode"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// introSuffixes mark a paragraph as a list introduction when it ends with
// one of them. A bare trailing colon qualifies on its own.
var introSuffixes = []string{"zoals:", "namelijk:"}

// isListIntro reports whether a paragraph's text reads as a list
// introduction.
func isListIntro(text string) bool {
	trimmed := strings.TrimRight(text, " \t")
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, s := range introSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// mergeMicroBullets folds short bullet runs into their introducing
// paragraph as an inline conjunction clause.
//
// A run qualifies when it holds 2 to MaxMergeItems consecutive bullet
// paragraphs, directly follows a non-bullet, non-heading paragraph that
// reads as a list introduction, and every item is short, single-sentence
// and colon-free. A run touching an anchored paragraph is skipped whole
// rather than partially merged. Returns the number of merged runs.
func (e *Engine) mergeMicroBullets(body *model.Story, r chapter.Range) int {
	merged := 0

	for i := 0; i < len(body.Paragraphs); i++ {
		intro := body.Paragraphs[i]
		if !e.inScope(intro, r) || e.isBulletLike(intro) ||
			e.isHeadingStyle(intro.StyleName) || !isListIntro(intro.Text) {
			continue
		}

		run, tainted := e.collectRun(body.Paragraphs, i+1, r)
		if tainted || len(run) < 2 || len(run) > e.config.MaxMergeItems {
			continue
		}

		items := make([]string, 0, len(run))
		ok := true
		for _, p := range run {
			item, fits := e.mergeableItem(p)
			if !fits {
				ok = false
				break
			}
			items = append(items, item)
		}
		if !ok {
			continue
		}

		appendClause(intro, " "+joinDutch(items)+".")
		for j := i + len(run); j > i; j-- {
			body.RemoveParagraph(j)
		}
		merged++
	}
	return merged
}

// appendClause adds the merged clause to the intro paragraph, dropping
// trailing whitespace first. The clause takes the style of the intro's last
// character so existing emphasis stays put.
func appendClause(intro *model.Paragraph, clause string) {
	chars := intro.Chars()
	for len(chars) > 0 {
		if r := chars[len(chars)-1].R; r != ' ' && r != '\t' {
			break
		}
		chars = chars[:len(chars)-1]
	}
	var style model.CharStyle
	if len(chars) > 0 {
		style = chars[len(chars)-1].Style
	}
	for _, r := range clause {
		chars = append(chars, model.Char{R: r, Style: style})
	}
	intro.SetChars(chars)
}

// collectRun gathers the consecutive bullet paragraphs starting at index
// from. The run is tainted when any of its paragraphs carries an anchor or
// leaves the chapter range.
func (e *Engine) collectRun(paras []*model.Paragraph, from int, r chapter.Range) ([]*model.Paragraph, bool) {
	var run []*model.Paragraph
	for i := from; i < len(paras) && e.isBulletLike(paras[i]); i++ {
		if paras[i].HasAnchor() || !r.Contains(paras[i].StartPage()) {
			return run, true
		}
		run = append(run, paras[i])
	}
	return run, false
}

// mergeableItem strips the bullet marker and reports whether the remaining
// text is a short, single-sentence, colon-free item ready for inlining.
func (e *Engine) mergeableItem(p *model.Paragraph) (string, bool) {
	text := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(p.Text, ""))
	text = strings.TrimRight(text, ".;")
	if text == "" || strings.ContainsAny(text, ":\n") {
		return "", false
	}
	if strings.ContainsAny(text, ".!?") {
		return "", false
	}
	if len(strings.Fields(text)) > e.config.MaxItemTokens {
		return "", false
	}
	return lowerLeading(text), true
}

// joinDutch joins items per the Dutch conjunction rule: "a en b" for two,
// "a, b en c" for three or more.
func joinDutch(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	head := strings.Join(items[:len(items)-1], ", ")
	return head + " en " + items[len(items)-1]
}

// lowerLeading lowers a leading uppercase letter unless the word is fully
// uppercase, which reads as an acronym.
func lowerLeading(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}
	if len(runes) >= 2 && unicode.IsUpper(runes[1]) {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
