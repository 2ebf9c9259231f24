package model

// PageSide identifies which side of a spread a page sits on.
type PageSide int

const (
	SideUnknown PageSide = iota
	SideLeft
	SideRight
)

// String returns a human-readable representation of the page side.
func (s PageSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// SideForOffset returns the conventional side for a 0-based page offset in a
// facing-pages document: the first page is a right page.
func SideForOffset(offset int) PageSide {
	if offset%2 == 0 {
		return SideRight
	}
	return SideLeft
}

// Page is a single page: a side, an applied master template, and the items
// placed on it. The page's offset is its index in Document.Pages.
type Page struct {
	Side   PageSide
	Master string
	Width  float64
	Height float64
	Items  []*PageItem
}

// NewPage creates an empty page with the given dimensions.
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
		Items:  make([]*PageItem, 0),
	}
}

// AddItem places an item on the page. Text-frame items attach their frame to
// the page, including frames nested inside groups.
func (p *Page) AddItem(item *PageItem) {
	p.Items = append(p.Items, item)
	item.Walk(func(it *PageItem) {
		if it.Kind == ItemTextFrame && it.Frame != nil {
			it.Frame.page = p
		}
	})
}

// AddFrame is a convenience that places a new text frame on the page and
// returns it. The frame is not yet threaded into any story.
func (p *Page) AddFrame(bounds BBox, capacity int) *Frame {
	f := NewFrame(bounds, capacity)
	p.AddItem(&PageItem{Kind: ItemTextFrame, Bounds: bounds, Frame: f})
	return f
}

// Frames returns the text frames placed directly on the page, in item order.
func (p *Page) Frames() []*Frame {
	var frames []*Frame
	for _, item := range p.Items {
		if item.Kind == ItemTextFrame && item.Frame != nil {
			frames = append(frames, item.Frame)
		}
	}
	return frames
}

// HasGraphics reports whether the page carries any placed image or native
// drawing, directly or inside a group.
func (p *Page) HasGraphics() bool {
	found := false
	for _, item := range p.Items {
		item.Walk(func(it *PageItem) {
			if it.Kind == ItemImage || it.Kind.IsNativeDrawing() {
				found = true
			}
		})
	}
	return found
}

// ItemsInRegion returns items whose bounds intersect the given box.
func (p *Page) ItemsInRegion(bbox BBox) []*PageItem {
	var items []*PageItem
	for _, item := range p.Items {
		if bbox.Intersects(item.Bounds) {
			items = append(items, item)
		}
	}
	return items
}

// allFrames returns every text frame on the page, nested frames included,
// depth-first in item order.
func (p *Page) allFrames() []*Frame {
	var frames []*Frame
	for _, item := range p.Items {
		item.Walk(func(it *PageItem) {
			if it.Kind == ItemTextFrame && it.Frame != nil {
				frames = append(frames, it.Frame)
			}
		})
	}
	return frames
}

// removeFrameItem detaches the page item holding the given frame, if any.
func (p *Page) removeFrameItem(f *Frame) {
	for i, item := range p.Items {
		if item.Kind == ItemTextFrame && item.Frame == f {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			f.page = nil
			return
		}
	}
}
