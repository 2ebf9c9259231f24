package rewrite

import "github.com/mheijink/zetwerk/model"

// applyJustify enforces the justification policy on one paragraph.
//
// Layer paragraphs (carrying a heading label) and list-like paragraphs get
// ragged-right alignment; stretching a justified line around an inline label
// is not representable, so the whole paragraph goes ragged. Plain body
// paragraphs lose full justification in favor of a ragged last line, and any
// body paragraph at or above the length threshold is forced into that mode.
// Single-word-line justification is set to ragged-left on every processed
// paragraph, tolerating absence of the property. Returns 1 when the
// paragraph changed.
func (e *Engine) applyJustify(p *model.Paragraph) int {
	changed := false

	switch {
	case isLayer(p) || e.isListStyle(p.StyleName):
		if p.Justify != model.JustifyLeft {
			p.Justify = model.JustifyLeft
			changed = true
		}
	default:
		if p.Justify == model.JustifyFull {
			p.Justify = model.JustifyLastLineLeft
			changed = true
		}
		if normalizedLen(p) >= e.config.JustifyThreshold && p.Justify != model.JustifyLastLineLeft {
			p.Justify = model.JustifyLastLineLeft
			changed = true
		}
	}

	if p.HasSingleWord && p.SingleWord != model.JustifyLeft {
		if p.SetSingleWord(model.JustifyLeft) {
			changed = true
		}
	}

	if changed {
		return 1
	}
	return 0
}
