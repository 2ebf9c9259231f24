package model

import "time"

// Metadata contains document-level information.
type Metadata struct {
	Title    string
	Book     string
	Template string
	Created  time.Time
	Modified time.Time
	Custom   map[string]string
}

// Document represents a complete layout document: an ordered sequence of
// pages, a set of independent stories, and the external assets and fonts the
// layout references.
type Document struct {
	Metadata Metadata
	Pages    []*Page
	Stories  []*Story
	Links    []*Link
	Fonts    []Font
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{Custom: make(map[string]string)},
		Pages:    make([]*Page, 0),
		Stories:  make([]*Story, 0),
	}
}

// PageCount returns the total number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns the page at the given 0-based offset, or nil.
func (d *Document) Page(offset int) *Page {
	if offset < 0 || offset >= len(d.Pages) {
		return nil
	}
	return d.Pages[offset]
}

// PageOffset returns the 0-based offset of a page, or -1 if the page does
// not belong to this document.
func (d *Document) PageOffset(p *Page) int {
	for i, page := range d.Pages {
		if page == p {
			return i
		}
	}
	return -1
}

// AddPage appends a page and returns it.
func (d *Document) AddPage(p *Page) *Page {
	if p.Side == SideUnknown {
		p.Side = SideForOffset(len(d.Pages))
	}
	d.Pages = append(d.Pages, p)
	return p
}

// AddStory registers a story and returns its index.
func (d *Document) AddStory(s *Story) int {
	d.Stories = append(d.Stories, s)
	return len(d.Stories) - 1
}

// AddLink registers an external asset reference and returns it.
func (d *Document) AddLink(path string, status LinkStatus) *Link {
	l := &Link{Path: path, Status: status}
	d.Links = append(d.Links, l)
	return l
}

// RemovePage deletes the page at the given offset, unthreading any of its
// frames from their stories. Callers deleting multiple pages should work
// back-to-front so offsets stay stable during mutation.
func (d *Document) RemovePage(offset int) {
	page := d.Page(offset)
	if page == nil {
		return
	}
	for _, frame := range page.allFrames() {
		for _, story := range d.Stories {
			story.Unthread(frame)
		}
	}
	d.Pages = append(d.Pages[:offset], d.Pages[offset+1:]...)
}

// RemovePagesFrom deletes all pages at or after the given offset.
func (d *Document) RemovePagesFrom(offset int) {
	for i := len(d.Pages) - 1; i >= offset && i >= 0; i-- {
		d.RemovePage(i)
	}
}

// RemovePagesBefore deletes all pages before the given offset.
func (d *Document) RemovePagesBefore(offset int) {
	if offset > len(d.Pages) {
		offset = len(d.Pages)
	}
	for i := offset - 1; i >= 0; i-- {
		d.RemovePage(i)
	}
}

// Reflow lays out every story across its frame chain, assigning start pages
// to paragraphs and recomputing overset state. Must be called after any
// structural edit before layout-derived values are read.
func (d *Document) Reflow() {
	for _, s := range d.Stories {
		s.reflow(d)
	}
}

// StoryIndex returns the index of a story, or -1.
func (d *Document) StoryIndex(s *Story) int {
	for i, story := range d.Stories {
		if story == s {
			return i
		}
	}
	return -1
}

// FramesOnPage returns, for each story, the frames it threads through the
// page at the given offset.
func (d *Document) FramesOnPage(offset int, story *Story) []*Frame {
	page := d.Page(offset)
	if page == nil || story == nil {
		return nil
	}
	var frames []*Frame
	for _, f := range story.Frames {
		if f.Page() == page {
			frames = append(frames, f)
		}
	}
	return frames
}

// Clone returns a deep copy of the document. Stories, frames, pages, items
// and links are all duplicated; the copy can be mutated freely without
// touching the original.
func (d *Document) Clone() *Document {
	cp := NewDocument()
	cp.Metadata = d.Metadata
	if d.Metadata.Custom != nil {
		cp.Metadata.Custom = make(map[string]string, len(d.Metadata.Custom))
		for k, v := range d.Metadata.Custom {
			cp.Metadata.Custom[k] = v
		}
	}
	cp.Fonts = append([]Font(nil), d.Fonts...)

	linkMap := make(map[*Link]*Link, len(d.Links))
	for _, l := range d.Links {
		nl := &Link{Path: l.Path, Status: l.Status}
		linkMap[l] = nl
		cp.Links = append(cp.Links, nl)
	}

	frameMap := make(map[*Frame]*Frame)
	var cloneItem func(*PageItem) *PageItem
	cloneItem = func(it *PageItem) *PageItem {
		ni := &PageItem{Kind: it.Kind, Bounds: it.Bounds, ZOrder: it.ZOrder, Label: it.Label}
		if it.Frame != nil {
			nf := &Frame{Bounds: it.Frame.Bounds, Capacity: it.Frame.Capacity}
			frameMap[it.Frame] = nf
			ni.Frame = nf
		}
		if it.Link != nil {
			ni.Link = linkMap[it.Link]
		}
		for _, child := range it.Children {
			ni.Children = append(ni.Children, cloneItem(child))
		}
		return ni
	}

	for _, page := range d.Pages {
		np := NewPage(page.Width, page.Height)
		np.Side = page.Side
		np.Master = page.Master
		for _, item := range page.Items {
			np.AddItem(cloneItem(item))
		}
		cp.Pages = append(cp.Pages, np)
	}

	for _, story := range d.Stories {
		ns := NewStory()
		for _, p := range story.Paragraphs {
			ns.Paragraphs = append(ns.Paragraphs, p.Clone())
		}
		for _, f := range story.Frames {
			if nf, ok := frameMap[f]; ok {
				ns.Frames = append(ns.Frames, nf)
			}
		}
		cp.Stories = append(cp.Stories, ns)
	}

	return cp
}
