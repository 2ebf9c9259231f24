package rewrite

import (
	"regexp"

	"github.com/mheijink/zetwerk/model"
)

// spacingRules repair the common spacing anomalies: collapsed double spaces,
// spaces before punctuation, missing spaces at sentence boundaries and after
// punctuation, and parenthesis spacing. They run once in a fixed order, not
// to a true fixed point.
var spacingRules = []charRule{
	{regexp.MustCompile(`( ) +`), []charOut{grp(1)}},
	{regexp.MustCompile(` +([,.;:!?])`), []charOut{grp(1)}},
	{regexp.MustCompile(`([;,:])(\p{L})`), []charOut{grp(1), lit(' '), grp(2)}},
	{regexp.MustCompile(`(\p{Ll})([.!?])(\p{Lu})`), []charOut{grp(1), grp(2), lit(' '), grp(3)}},
	{regexp.MustCompile(`(\p{L})(\()`), []charOut{grp(1), lit(' '), grp(2)}},
	{regexp.MustCompile(`(\() +`), []charOut{grp(1)}},
	{regexp.MustCompile(` +(\))`), []charOut{grp(1)}},
	{regexp.MustCompile(`( ) +`), []charOut{grp(1)}},
}

// captionRe matches the narrow caption shape exempt from spacing
// normalization: a known caption label, a number, then 2+ spaces.
var captionRe = regexp.MustCompile(`^(Afbeelding|Figuur|Tabel)\s+\d+(\.\d+)*\s{2,}`)

// normalizeSpacing repairs spacing anomalies in a paragraph. The edits are
// character-level, so emphasis on untouched runes survives. Caption-shaped
// paragraphs are exempt when configured. Returns 1 when the paragraph
// changed.
func (e *Engine) normalizeSpacing(p *model.Paragraph) int {
	if e.config.CaptionExempt && captionRe.MatchString(p.Text) {
		return 0
	}

	chars := p.Chars()
	for _, rule := range spacingRules {
		chars = rule.apply(chars)
	}

	if charText(chars) == p.Text {
		return 0
	}
	p.SetChars(chars)
	return 1
}
