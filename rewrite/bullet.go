package rewrite

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// bulletRunes are the glyphs that mark a paragraph as a visual bullet item.
var bulletRunes = map[rune]bool{
	'•': true, '◦': true, '▪': true, '‣': true, '·': true, '–': true, '*': true,
}

var bulletPrefixRe = regexp.MustCompile(`^[\s]*([•◦▪‣·–*]|-)\s*`)

var titleCaser = cases.Title(language.Dutch, cases.NoLower)

// defaultRepairTable maps known-bad isolated-bullet fragments, as they occur
// in the source material, to corrected full sentences.
func defaultRepairTable() map[string]string {
	return map[string]string{
		"en de zorgvrager":          "Ook de zorgvrager speelt hierbij een rol.",
		"of een combinatie hiervan": "Een combinatie hiervan komt ook voor.",
		"bij twijfel overleggen":    "Overleg bij twijfel altijd met een collega.",
	}
}

// isBulletLike reports whether a paragraph reads as a bullet item: a
// list-classified style, a leading bullet glyph or hyphen, or a bullet glyph
// within the first few characters.
func (e *Engine) isBulletLike(p *model.Paragraph) bool {
	if e.isListStyle(p.StyleName) {
		return true
	}
	text := strings.TrimLeft(p.Text, " \t")
	if strings.HasPrefix(text, "- ") {
		return true
	}
	for i, r := range []rune(text) {
		if i >= 4 {
			break
		}
		if bulletRunes[r] {
			return true
		}
	}
	return false
}

// repairIsolatedBullets finds bullet paragraphs with no bullet siblings and
// demotes them to prose: the predecessor's paragraph style, the bullet glyph
// stripped, and the text either replaced from the repair table or given a
// leading capital. Returns the number of repaired paragraphs.
func (e *Engine) repairIsolatedBullets(body *model.Story, r chapter.Range) int {
	repaired := 0
	paras := body.Paragraphs

	for i, p := range paras {
		if !e.inScope(p, r) || !e.isBulletLike(p) {
			continue
		}
		if i > 0 && r.Contains(paras[i-1].StartPage()) && e.isBulletLike(paras[i-1]) {
			continue
		}
		if i+1 < len(paras) && r.Contains(paras[i+1].StartPage()) && e.isBulletLike(paras[i+1]) {
			continue
		}

		changed := false
		if i > 0 && p.StyleName != paras[i-1].StyleName {
			p.StyleName = paras[i-1].StyleName
			changed = true
		}

		chars := p.Chars()
		if m := bulletPrefixRe.FindStringIndex(p.Text); m != nil {
			chars = chars[runeOffsets(p.Text)[m[1]]:]
		}
		stripped := charText(chars)
		if replacement, ok := e.config.RepairTable[strings.TrimSpace(stripped)]; ok {
			var style model.CharStyle
			if len(chars) > 0 {
				style = chars[0].Style
			}
			chars = chars[:0]
			for _, r := range replacement {
				chars = append(chars, model.Char{R: r, Style: style})
			}
		} else {
			chars = recase(chars, capitalizeLeading(stripped))
		}
		if charText(chars) != p.Text {
			p.SetChars(chars)
			changed = true
		}
		if changed {
			repaired++
		}
	}
	return repaired
}

// recase overwrites the runes of chars with text while keeping per-character
// styles. When the recased text changes length the first character's style is
// carried across the whole result.
func recase(chars []model.Char, text string) []model.Char {
	runes := []rune(text)
	out := make([]model.Char, len(runes))
	if len(runes) != len(chars) {
		var style model.CharStyle
		if len(chars) > 0 {
			style = chars[0].Style
		}
		for i, r := range runes {
			out[i] = model.Char{R: r, Style: style}
		}
		return out
	}
	for i := range chars {
		out[i] = model.Char{R: runes[i], Style: chars[i].Style}
	}
	return out
}

// capitalizeLeading upper-cases a leading lowercase letter using Dutch
// casing, so the IJ digraph capitalizes as a unit.
func capitalizeLeading(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsLower(runes[0]) {
		return s
	}
	end := len(runes)
	for i, r := range runes {
		if unicode.IsSpace(r) {
			end = i
			break
		}
	}
	return titleCaser.String(string(runes[:end])) + string(runes[end:])
}
