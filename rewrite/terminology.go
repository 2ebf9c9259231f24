package rewrite

import (
	"regexp"
	"unicode"

	"github.com/mheijink/zetwerk/model"
)

// termRule replaces one outdated term, plural forms before singular so the
// singular pattern never clips a plural.
type termRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var termRules = []termRule{
	{regexp.MustCompile(`(?i)\bcliënten\b`), "zorgvragers"},
	{regexp.MustCompile(`(?i)\bclienten\b`), "zorgvragers"},
	{regexp.MustCompile(`(?i)\bclients\b`), "zorgvragers"},
	{regexp.MustCompile(`(?i)\bcliënt\b`), "zorgvrager"},
	{regexp.MustCompile(`(?i)\bclient\b`), "zorgvrager"},
	{regexp.MustCompile(`(?i)\bverpleegkundigen\b`), "zorgprofessionals"},
	{regexp.MustCompile(`(?i)\bverpleegkundige\b`), "zorgprofessional"},
}

// normalizeTerminology rewrites outdated care terminology to the book
// series' required terms, preserving a leading capital. The replacement word
// takes the style of the word it replaces; the rest of the paragraph keeps
// its styles. Returns 1 when the paragraph changed.
func normalizeTerminology(p *model.Paragraph) int {
	chars := p.Chars()
	for _, rule := range termRules {
		chars = replaceTerm(chars, rule)
	}

	if charText(chars) == p.Text {
		return 0
	}
	p.SetChars(chars)
	return 1
}

// replaceTerm substitutes every match of the rule in chars, styling the
// replacement like the first replaced character.
func replaceTerm(chars []model.Char, rule termRule) []model.Char {
	text := charText(chars)
	matches := rule.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return chars
	}

	runeAt := runeOffsets(text)
	out := make([]model.Char, 0, len(chars))
	prev := 0
	for _, m := range matches {
		start, end := runeAt[m[0]], runeAt[m[1]]
		out = append(out, chars[prev:start]...)

		repl := rule.replacement
		if unicode.IsUpper(chars[start].R) {
			repl = capitalizeTerm(repl)
		}
		style := chars[start].Style
		for _, r := range repl {
			out = append(out, model.Char{R: r, Style: style})
		}
		prev = end
	}
	out = append(out, chars[prev:]...)
	return out
}

func capitalizeTerm(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
