package audit

import (
	"strings"
	"unicode/utf8"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// paraPos places one paragraph inside the story's frame chain: which frame
// it starts in and how far down that frame, as a fill fraction.
type paraPos struct {
	frame int
	ratio float64
}

// fillPositions walks the frame chain the same way reflow does and records
// each paragraph's start frame and start fraction. Overset paragraphs get
// frame -1.
func fillPositions(s *model.Story) []paraPos {
	positions := make([]paraPos, len(s.Paragraphs))

	frame := 0
	consumed := 0
	capacity := 0
	if len(s.Frames) > 0 {
		capacity = s.Frames[0].EffectiveCapacity()
	}

	for i, p := range s.Paragraphs {
		positions[i] = paraPos{frame: -1}
		need := p.RuneLen() + 1

		if frame >= len(s.Frames) {
			continue
		}
		for consumed >= capacity {
			frame++
			if frame >= len(s.Frames) {
				break
			}
			consumed = 0
			capacity = s.Frames[frame].EffectiveCapacity()
		}
		if frame >= len(s.Frames) {
			continue
		}

		ratio := 0.0
		if capacity > 0 {
			ratio = float64(consumed) / float64(capacity)
		}
		positions[i] = paraPos{frame: frame, ratio: ratio}

		for need > 0 {
			room := capacity - consumed
			if need <= room {
				consumed += need
				need = 0
				break
			}
			need -= room
			consumed = capacity
			if frame+1 >= len(s.Frames) {
				break
			}
			frame++
			consumed = 0
			capacity = s.Frames[frame].EffectiveCapacity()
		}
	}
	return positions
}

var bulletMarkers = "•◦▪‣·–*"

func isListItem(p *model.Paragraph, listKeywords []string) bool {
	if containsKeyword(p.StyleName, listKeywords) {
		return true
	}
	trimmed := strings.TrimLeft(p.Text, " \t")
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return strings.ContainsRune(bulletMarkers, r)
}

// checkBulletOrphans flags a list whose first item sits alone at the bottom
// of a column while the rest of the list starts the next column.
func (a *Auditor) checkBulletOrphans(doc *model.Document, body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("bullet-orphans")
	positions := fillPositions(body)

	for i, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) || !isListItem(p, a.config.ListStyleKeywords) {
			continue
		}
		pos := positions[i]
		if pos.frame < 0 || pos.ratio < a.config.SingletonBottomRatio {
			continue
		}
		// Only the first item of its group can be an orphan.
		if i > 0 && isListItem(body.Paragraphs[i-1], a.config.ListStyleKeywords) && positions[i-1].frame == pos.frame {
			continue
		}

		siblings := 0
		for j := i + 1; j < len(body.Paragraphs); j++ {
			if !isListItem(body.Paragraphs[j], a.config.ListStyleKeywords) {
				break
			}
			next := positions[j]
			if next.frame != pos.frame+1 || next.ratio > a.config.SiblingTopRatio {
				break
			}
			siblings++
		}
		if siblings >= a.config.MinSiblings {
			rep.fail("bullet-orphans", "list item %q is split from its %d siblings across a column break",
				sampleLine(p.Text, 0), siblings)
		}
	}
}

// checkJustifyGaps estimates inter-word gaps on justified label lines. The
// model carries no glyph positions, so the estimate distributes a line's
// unfilled width, at the configured average character width, over its word
// gaps. Lines already spanning most of the column are skipped.
func (a *Auditor) checkJustifyGaps(body *model.Story, r chapter.Range, rep *Report) {
	rep.ran("justify-gaps")
	if a.config.AvgCharWidth <= 0 {
		rep.note("justify-gaps: no character width configured, check skipped")
		return
	}
	positions := fillPositions(body)

	for i, p := range body.Paragraphs {
		if !r.Contains(p.StartPage()) || !hasLabel(p.Text) {
			continue
		}
		if p.Justify != model.JustifyFull && p.Justify != model.JustifyLastLineLeft {
			continue
		}

		width := a.frameWidth(body, positions[i].frame)
		charsPerLine := int(width / a.config.AvgCharWidth)
		if charsPerLine <= 0 {
			continue
		}

		segments := wrapLines(p.Text, charsPerLine)
		for si, seg := range segments {
			if p.Justify == model.JustifyLastLineLeft && si == len(segments)-1 {
				continue
			}
			lower := strings.ToLower(seg)
			if !strings.Contains(lower, "praktijk:") && !strings.Contains(lower, "verdieping:") {
				continue
			}
			words := strings.Fields(seg)
			if len(words) < 2 {
				continue
			}
			segLen := utf8.RuneCountInString(seg)
			if float64(segLen)/float64(charsPerLine) >= a.config.MinSpanRatio {
				continue
			}
			gap := float64(charsPerLine-segLen) * a.config.AvgCharWidth / float64(len(words)-1)
			if gap > a.config.MaxGapPoints {
				rep.fail("justify-gaps", "label line %q stretches to an estimated %.1fpt word gap", seg, gap)
			}
		}
	}
}

func (a *Auditor) frameWidth(body *model.Story, frame int) float64 {
	if frame >= 0 && frame < len(body.Frames) {
		return body.Frames[frame].Bounds.Width
	}
	if len(body.Frames) > 0 {
		return body.Frames[0].Bounds.Width
	}
	return 0
}

// wrapLines splits text at forced breaks and greedily wraps each hard line
// to the given rune limit.
func wrapLines(text string, limit int) []string {
	var out []string
	for _, hard := range strings.Split(text, "\n") {
		words := strings.Fields(hard)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= limit {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return out
}
