package figures

import (
	"math"

	"github.com/mheijink/zetwerk/model"
)

// paraPlace is a paragraph's estimated position: its start page, the bounds
// of the frame it starts in, and an estimated top Y from the frame's fill
// level at that point.
type paraPlace struct {
	page   int
	y      float64
	bounds model.BBox
}

// storyPlaces estimates every paragraph's position by filling the story's
// frame chain the way reflow does.
func storyPlaces(s *model.Story) []paraPlace {
	places := make([]paraPlace, len(s.Paragraphs))

	frame := 0
	consumed := 0
	capacity := 0
	if len(s.Frames) > 0 {
		capacity = s.Frames[0].EffectiveCapacity()
	}

	for i, p := range s.Paragraphs {
		places[i] = paraPlace{page: -1}
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

		f := s.Frames[frame]
		ratio := 0.0
		if capacity > 0 {
			ratio = float64(consumed) / float64(capacity)
		}
		places[i] = paraPlace{
			page:   p.StartPage(),
			y:      f.Bounds.Y + ratio*f.Bounds.Height,
			bounds: f.Bounds,
		}

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
	return places
}

// matchImage finds the visual for a caption: first a linked image whose
// bottom edge sits above the caption within the gap and overlap tolerances,
// then the nearest eligible native page item.
func (e *Extractor) matchImage(doc *model.Document, c caption) (ImageRef, *model.PageItem, bool) {
	if item, page, ok := e.matchLinked(doc, c); ok {
		return ImageRef{
			LinkPath: item.Link.Path,
			Page:     page,
			Bounds:   item.Bounds,
		}, item, true
	}
	if item, page, ok := e.matchNative(doc, c); ok {
		ref := ImageRef{
			Kind:   item.Kind.String(),
			Page:   page,
			Bounds: item.Bounds,
		}
		if item.Label != "" {
			ref.Kind += " " + item.Label
		}
		return ref, item, true
	}
	return ImageRef{}, nil, false
}

// matchLinked scores externally linked images near the caption. Lower scores
// win; candidates violating the gap or overlap tolerances are rejected.
func (e *Extractor) matchLinked(doc *model.Document, c caption) (*model.PageItem, int, bool) {
	var best *model.PageItem
	bestPage := -1
	bestScore := math.Inf(1)

	e.eachItemNear(doc, c.page, func(item *model.PageItem, page int) {
		if item.Kind != model.ItemImage || item.Link == nil {
			return
		}
		score, ok := e.scoreLinked(item.Bounds, page, c)
		if ok && score < bestScore {
			best, bestPage, bestScore = item, page, score
		}
	})
	return best, bestPage, best != nil
}

func (e *Extractor) scoreLinked(b model.BBox, page int, c caption) (float64, bool) {
	score := float64(pageDist(page, c.page)) * e.config.PageDistPenalty

	if page == c.page {
		gap := c.place.y - b.Bottom()
		if gap < 0 || gap > e.config.MaxCaptionGap {
			return 0, false
		}
		if b.HorizontalOverlap(c.place.bounds) < e.config.MinOverlap {
			return 0, false
		}
		return score + gap, true
	}

	// Off-page candidates carry the page penalty and compete on vertical
	// distance only; the caption's column geometry means nothing there.
	return score + math.Abs(c.place.y-b.Bottom()), true
}

// matchNative falls back to the nearest non-text page item by center
// distance. Text frames, and with them every body-story frame, are never
// candidates.
func (e *Extractor) matchNative(doc *model.Document, c caption) (*model.PageItem, int, bool) {
	var best *model.PageItem
	bestPage := -1
	bestScore := math.Inf(1)
	captionCenter := model.Point{X: c.place.bounds.Center().X, Y: c.place.y}

	e.eachItemNear(doc, c.page, func(item *model.PageItem, page int) {
		switch item.Kind {
		case model.ItemTextFrame:
			return
		case model.ItemImage:
			if item.Link != nil {
				return
			}
		case model.ItemGroup:
			if groupIsTextOnly(item) {
				return
			}
		}
		score := float64(pageDist(page, c.page))*e.config.PageDistPenalty +
			item.Bounds.Center().Distance(captionCenter)
		if score < bestScore {
			best, bestPage, bestScore = item, page, score
		}
	})
	return best, bestPage, best != nil
}

// groupIsTextOnly reports whether a group holds nothing but text frames.
func groupIsTextOnly(group *model.PageItem) bool {
	textOnly := true
	group.Walk(func(it *model.PageItem) {
		if it.Kind != model.ItemGroup && it.Kind != model.ItemTextFrame {
			textOnly = false
		}
	})
	return textOnly
}

// eachItemNear visits the top-level items of every page within the
// configured window of the caption's page.
func (e *Extractor) eachItemNear(doc *model.Document, page int, fn func(*model.PageItem, int)) {
	for off := page - e.config.PageWindow; off <= page+e.config.PageWindow; off++ {
		p := doc.Page(off)
		if p == nil {
			continue
		}
		for _, item := range p.Items {
			fn(item, off)
		}
	}
}

func pageDist(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// renderMatched exports a native or grouped visual as a raster asset.
func (e *Extractor) renderMatched(item *model.PageItem, path string) error {
	return e.renderer.Export(item, path)
}

// anchorTo finds the nearest preceding body paragraph for a figure at the
// given place. Same-page paragraphs whose top sits above the figure win;
// otherwise the closest same-page paragraph, then the last paragraph of the
// nearest earlier page under the cross-page penalty.
func (e *Extractor) anchorTo(body *model.Story, places []paraPlace, at paraPlace) *Anchor {
	best := -1
	bestScore := math.Inf(1)

	for i := range body.Paragraphs {
		pl := places[i]
		if pl.page < 0 || pl.page > at.page {
			continue
		}
		var score float64
		switch {
		case pl.page == at.page && pl.y <= at.y:
			score = at.y - pl.y
		case pl.page == at.page:
			score = (pl.y - at.y) + 100
		default:
			score = float64(at.page-pl.page)*e.config.CrossPagePenalty - pl.y
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil
	}

	a := &Anchor{ParagraphIndex: best, Text: body.Paragraphs[best].Text}
	if best > 0 {
		a.Before = body.Paragraphs[best-1].Text
	}
	if best+1 < len(body.Paragraphs) {
		a.After = body.Paragraphs[best+1].Text
	}
	return a
}
