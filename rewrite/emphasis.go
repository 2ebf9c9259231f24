package rewrite

import (
	"sort"
	"unicode"

	"github.com/mheijink/zetwerk/model"
)

// wordStyleKey groups characters by the style facets the emphasis rule votes
// over. Synthetic bold is tallied separately.
type wordStyleKey struct {
	bold  bool
	style string
}

// normalizeEmphasis repairs mixed emphasis inside words. For every word of
// two or more characters whose characters disagree on bold state, synthetic
// bold or character style, the majority style wins and is applied across the
// whole word. A tie resolves to the non-bold variant. Returns 1 when the
// paragraph changed.
func normalizeEmphasis(p *model.Paragraph) int {
	if len(p.Runs) < 2 {
		return 0
	}

	chars := p.Chars()
	changed := false

	start := -1
	for i := 0; i <= len(chars); i++ {
		atEnd := i == len(chars)
		isSpace := !atEnd && unicode.IsSpace(chars[i].R)

		if !atEnd && !isSpace {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= 2 {
			if normalizeWord(chars[start:i]) {
				changed = true
			}
		}
		start = -1
	}

	if !changed {
		return 0
	}
	p.SetChars(chars)
	return 1
}

// normalizeWord applies the majority style across one word's characters.
func normalizeWord(word []model.Char) bool {
	uniform := true
	for i := 1; i < len(word); i++ {
		if word[i].Style != word[0].Style {
			uniform = false
			break
		}
	}
	if uniform {
		return false
	}

	counts := make(map[wordStyleKey]int)
	synthetic := 0
	for _, c := range word {
		counts[wordStyleKey{bold: c.Style.Bold, style: c.Style.StyleName}]++
		if c.Style.SyntheticBold {
			synthetic++
		}
	}

	keys := make([]wordStyleKey, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		// Ties resolve away from bold, then by style name for stability.
		if keys[i].bold != keys[j].bold {
			return !keys[i].bold
		}
		return keys[i].style < keys[j].style
	})
	winner := keys[0]

	style := model.CharStyle{
		Bold:          winner.bold,
		SyntheticBold: synthetic*2 > len(word),
		StyleName:     winner.style,
	}
	for i := range word {
		word[i].Style = style
	}
	return true
}
