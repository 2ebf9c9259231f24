package rewrite

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mheijink/zetwerk/model"
)

// labelAlt alternates the two supplementary-content heading labels the
// inline heading format applies to.
const labelAlt = `(In de praktijk|Verdieping)`

// labelWordRe matches a label as a whole word, so compounds like
// "Verdiepingsstof" never classify as labels.
var labelWordRe = regexp.MustCompile(`\b` + labelAlt + `\b`)

// headingRules normalize the inline heading format. A label only counts as a
// heading when it opens a block: the paragraph start or a blank line. A label
// word starting an ordinary wrapped line of prose is left alone.
var headingRules = []charRule{
	// Label on its own line at a block start, optionally already carrying a
	// colon: merge with the following line.
	{
		regexp.MustCompile(`(^|\n\n)` + labelAlt + `[ \t]*:?[ \t]*\n+[ \t]*(\S)`),
		[]charOut{grp(1), grp(2), lit(':'), lit(' '), grp(3)},
	},
	// Label at a blank-line start with inline text but no colon yet.
	{
		regexp.MustCompile(`(\n\n)` + labelAlt + `[ \t]+([^:\s])`),
		[]charOut{grp(1), grp(2), lit(':'), lit(' '), grp(3)},
	},
	// Colon spacing: no space before, exactly one after.
	{
		regexp.MustCompile(`(?m)^` + labelAlt + `[ \t]*:[ \t]*`),
		[]charOut{grp(1), lit(':'), lit(' ')},
	},
	// Exactly one blank line before a finished label line.
	{
		regexp.MustCompile(`\n+(` + labelAlt + `: )`),
		[]charOut{lit('\n'), lit('\n'), grp(1)},
	},
}

// A finished label line, for locating the bold span.
var headingLineRe = regexp.MustCompile(`(?m)^((?:In de praktijk|Verdieping):)`)

// mergeHeadings applies the inline heading format to a paragraph: label and
// following break merged into "label: ", colon ensured, exactly one blank
// line before the label, label bold and the inline text after it not bold.
// Returns 1 when the paragraph changed.
func mergeHeadings(p *model.Paragraph) int {
	before := p.Clone()

	chars := p.Chars()
	for _, rule := range headingRules {
		chars = rule.apply(chars)
	}
	if charText(chars) != p.Text {
		p.SetChars(chars)
	}
	boldLabels(p)

	if p.Equal(before) {
		return 0
	}
	return 1
}

// boldLabels bolds each label-plus-colon span and clears bold from the rest
// of its line.
func boldLabels(p *model.Paragraph) {
	for _, loc := range headingLineRe.FindAllStringIndex(p.Text, -1) {
		labelStart := runeOffset(p.Text, loc[0])
		labelEnd := runeOffset(p.Text, loc[1])
		p.ApplyStyle(labelStart, labelEnd, model.CharStyle{Bold: true})

		lineEnd := len([]rune(p.Text))
		if nl := strings.IndexByte(p.Text[loc[1]:], model.LineBreak); nl >= 0 {
			lineEnd = runeOffset(p.Text, loc[1]+nl)
		}
		if labelEnd < lineEnd {
			p.ApplyStyle(labelEnd, lineEnd, model.CharStyle{})
		}
	}
}

func runeOffset(s string, byteOff int) int {
	return utf8.RuneCountInString(s[:byteOff])
}
