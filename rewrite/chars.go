package rewrite

import (
	"regexp"

	"github.com/mheijink/zetwerk/model"
)

// charOut is one piece of a charRule replacement: a kept submatch, or a
// literal rune inserted with a neighboring character's style.
type charOut struct {
	group int
	lit   rune
}

func grp(n int) charOut  { return charOut{group: n} }
func lit(r rune) charOut { return charOut{group: -1, lit: r} }

// charRule is a regexp substitution over styled characters instead of plain
// text. Runes kept from the input keep their styles, so a text repair never
// disturbs emphasis elsewhere in the paragraph.
type charRule struct {
	re  *regexp.Regexp
	out []charOut
}

// apply rewrites every match of the rule in chars. Inserted literals take the
// style of the preceding output character, falling back to the character
// after the match.
func (rule charRule) apply(chars []model.Char) []model.Char {
	text := charText(chars)
	matches := rule.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return chars
	}

	runeAt := runeOffsets(text)
	out := make([]model.Char, 0, len(chars))
	prev := 0
	for _, m := range matches {
		start, end := runeAt[m[0]], runeAt[m[1]]
		out = append(out, chars[prev:start]...)
		for _, part := range rule.out {
			if part.group < 0 {
				out = append(out, model.Char{R: part.lit, Style: neighborStyle(out, chars, end)})
				continue
			}
			gs, ge := m[2*part.group], m[2*part.group+1]
			if gs < 0 {
				continue
			}
			out = append(out, chars[runeAt[gs]:runeAt[ge]]...)
		}
		prev = end
	}
	out = append(out, chars[prev:]...)
	return out
}

func charText(chars []model.Char) string {
	runes := make([]rune, len(chars))
	for i, c := range chars {
		runes[i] = c.R
	}
	return string(runes)
}

// runeOffsets maps the byte offset of each rune start in text to its rune
// index. Regexp match boundaries always fall on rune starts.
func runeOffsets(text string) []int {
	offs := make([]int, len(text)+1)
	n := 0
	for i := range text {
		offs[i] = n
		n++
	}
	offs[len(text)] = n
	return offs
}

func neighborStyle(out, src []model.Char, next int) model.CharStyle {
	if len(out) > 0 {
		return out[len(out)-1].Style
	}
	if next < len(src) {
		return src[next].Style
	}
	return model.CharStyle{}
}
