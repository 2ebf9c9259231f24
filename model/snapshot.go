package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// SnapshotVersion identifies the layout snapshot format written by this
// package.
const SnapshotVersion = 2

// Layout snapshots are the on-disk working-copy format: a JSON rendering of
// the full document graph. Frames get sequential IDs during encoding so
// story thread chains can reference them; links are referenced by index.

type snapshotJSON struct {
	Version  int            `json:"version"`
	Metadata metadataJSON   `json:"metadata"`
	Fonts    []fontJSON     `json:"fonts,omitempty"`
	Links    []linkJSON     `json:"links,omitempty"`
	Pages    []pageJSON     `json:"pages"`
	Stories  []storyJSON    `json:"stories"`
}

type metadataJSON struct {
	Title    string            `json:"title,omitempty"`
	Book     string            `json:"book,omitempty"`
	Template string            `json:"template,omitempty"`
	Created  time.Time         `json:"created,omitempty"`
	Modified time.Time         `json:"modified,omitempty"`
	Custom   map[string]string `json:"custom,omitempty"`
}

type fontJSON struct {
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	Substituted bool   `json:"substituted,omitempty"`
}

type linkJSON struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

type pageJSON struct {
	Side   string     `json:"side"`
	Master string     `json:"master,omitempty"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Items  []itemJSON `json:"items,omitempty"`
}

type itemJSON struct {
	Kind     string     `json:"kind"`
	Bounds   bboxJSON   `json:"bounds"`
	ZOrder   int        `json:"z,omitempty"`
	Label    string     `json:"label,omitempty"`
	FrameID  int        `json:"frame,omitempty"`
	Capacity int        `json:"capacity,omitempty"`
	LinkRef  *int       `json:"link,omitempty"`
	Children []itemJSON `json:"children,omitempty"`
}

type bboxJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type storyJSON struct {
	Paragraphs []paragraphJSON `json:"paragraphs"`
	Thread     []int           `json:"thread,omitempty"`
}

type paragraphJSON struct {
	Text       string    `json:"text"`
	Style      string    `json:"style,omitempty"`
	Justify    string    `json:"justify,omitempty"`
	Runs       []runJSON `json:"runs,omitempty"`
	SingleWord string    `json:"singleWord,omitempty"`
}

type runJSON struct {
	Len       int    `json:"len"`
	Bold      bool   `json:"bold,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Style     string `json:"style,omitempty"`
}

var justifyNames = map[Justification]string{
	JustifyLeft:         "left",
	JustifyCenter:       "center",
	JustifyRight:        "right",
	JustifyFull:         "full",
	JustifyLastLineLeft: "last-line-left",
}

var justifyValues = map[string]Justification{
	"left":           JustifyLeft,
	"center":         JustifyCenter,
	"right":          JustifyRight,
	"full":           JustifyFull,
	"last-line-left": JustifyLastLineLeft,
}

var itemKindNames = map[PageItemKind]string{
	ItemTextFrame: "textframe",
	ItemImage:     "image",
	ItemGroup:     "group",
	ItemLine:      "line",
	ItemPolygon:   "polygon",
	ItemOval:      "oval",
	ItemRectangle: "rectangle",
}

var itemKindValues = func() map[string]PageItemKind {
	m := make(map[string]PageItemKind, len(itemKindNames))
	for k, v := range itemKindNames {
		m[v] = k
	}
	return m
}()

// Encode writes the document as a layout snapshot to w.
func (d *Document) Encode(w io.Writer) error {
	snap := snapshotJSON{
		Version: SnapshotVersion,
		Metadata: metadataJSON{
			Title:    d.Metadata.Title,
			Book:     d.Metadata.Book,
			Template: d.Metadata.Template,
			Created:  d.Metadata.Created,
			Modified: d.Metadata.Modified,
			Custom:   d.Metadata.Custom,
		},
	}

	for _, f := range d.Fonts {
		snap.Fonts = append(snap.Fonts, fontJSON{Name: f.Name, Available: f.Available, Substituted: f.Substituted})
	}

	linkIndex := make(map[*Link]int, len(d.Links))
	for i, l := range d.Links {
		linkIndex[l] = i
		snap.Links = append(snap.Links, linkJSON{Path: l.Path, Status: l.Status.String()})
	}

	frameIDs := make(map[*Frame]int)
	nextFrame := 1

	var encodeItem func(it *PageItem) itemJSON
	encodeItem = func(it *PageItem) itemJSON {
		ij := itemJSON{
			Kind:   itemKindNames[it.Kind],
			Bounds: bboxJSON{X: it.Bounds.X, Y: it.Bounds.Y, W: it.Bounds.Width, H: it.Bounds.Height},
			ZOrder: it.ZOrder,
			Label:  it.Label,
		}
		if it.Frame != nil {
			frameIDs[it.Frame] = nextFrame
			ij.FrameID = nextFrame
			ij.Capacity = it.Frame.Capacity
			nextFrame++
		}
		if it.Link != nil {
			if idx, ok := linkIndex[it.Link]; ok {
				ij.LinkRef = &idx
			}
		}
		for _, child := range it.Children {
			ij.Children = append(ij.Children, encodeItem(child))
		}
		return ij
	}

	for _, page := range d.Pages {
		pj := pageJSON{
			Side:   page.Side.String(),
			Master: page.Master,
			Width:  page.Width,
			Height: page.Height,
		}
		for _, item := range page.Items {
			pj.Items = append(pj.Items, encodeItem(item))
		}
		snap.Pages = append(snap.Pages, pj)
	}

	for _, story := range d.Stories {
		sj := storyJSON{}
		for _, p := range story.Paragraphs {
			pj := paragraphJSON{
				Text:    p.Text,
				Style:   p.StyleName,
				Justify: justifyNames[p.Justify],
			}
			if p.HasSingleWord {
				pj.SingleWord = justifyNames[p.SingleWord]
			}
			for _, r := range p.Runs {
				pj.Runs = append(pj.Runs, runJSON{
					Len:       r.Len,
					Bold:      r.Style.Bold,
					Synthetic: r.Style.SyntheticBold,
					Style:     r.Style.StyleName,
				})
			}
			sj.Paragraphs = append(sj.Paragraphs, pj)
		}
		for _, f := range story.Frames {
			id, ok := frameIDs[f]
			if !ok {
				return fmt.Errorf("model: story threads a frame not placed on any page")
			}
			sj.Thread = append(sj.Thread, id)
		}
		snap.Stories = append(snap.Stories, sj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Decode reads a layout snapshot from r and reconstructs the document graph.
func Decode(r io.Reader) (*Document, error) {
	var snap snapshotJSON
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("model: decoding snapshot: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("model: snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion)
	}

	doc := NewDocument()
	doc.Metadata = Metadata{
		Title:    snap.Metadata.Title,
		Book:     snap.Metadata.Book,
		Template: snap.Metadata.Template,
		Created:  snap.Metadata.Created,
		Modified: snap.Metadata.Modified,
		Custom:   snap.Metadata.Custom,
	}
	if doc.Metadata.Custom == nil {
		doc.Metadata.Custom = make(map[string]string)
	}

	for _, f := range snap.Fonts {
		doc.Fonts = append(doc.Fonts, Font{Name: f.Name, Available: f.Available, Substituted: f.Substituted})
	}

	for _, l := range snap.Links {
		status := LinkOK
		switch l.Status {
		case "missing":
			status = LinkMissing
		case "out-of-date":
			status = LinkOutOfDate
		}
		doc.Links = append(doc.Links, &Link{Path: l.Path, Status: status})
	}

	frames := make(map[int]*Frame)

	var decodeItem func(ij itemJSON) (*PageItem, error)
	decodeItem = func(ij itemJSON) (*PageItem, error) {
		kind, ok := itemKindValues[ij.Kind]
		if !ok {
			return nil, fmt.Errorf("model: unknown page item kind %q", ij.Kind)
		}
		it := &PageItem{
			Kind:   kind,
			Bounds: BBox{X: ij.Bounds.X, Y: ij.Bounds.Y, Width: ij.Bounds.W, Height: ij.Bounds.H},
			ZOrder: ij.ZOrder,
			Label:  ij.Label,
		}
		if kind == ItemTextFrame {
			f := NewFrame(it.Bounds, ij.Capacity)
			if ij.FrameID > 0 {
				frames[ij.FrameID] = f
			}
			it.Frame = f
		}
		if ij.LinkRef != nil {
			idx := *ij.LinkRef
			if idx < 0 || idx >= len(doc.Links) {
				return nil, fmt.Errorf("model: item references link %d of %d", idx, len(doc.Links))
			}
			it.Link = doc.Links[idx]
		}
		for _, child := range ij.Children {
			ci, err := decodeItem(child)
			if err != nil {
				return nil, err
			}
			it.Children = append(it.Children, ci)
		}
		return it, nil
	}

	for i, pj := range snap.Pages {
		page := NewPage(pj.Width, pj.Height)
		page.Master = pj.Master
		switch pj.Side {
		case "left":
			page.Side = SideLeft
		case "right":
			page.Side = SideRight
		default:
			page.Side = SideForOffset(i)
		}
		for _, ij := range pj.Items {
			item, err := decodeItem(ij)
			if err != nil {
				return nil, err
			}
			page.AddItem(item)
		}
		doc.Pages = append(doc.Pages, page)
	}

	for _, sj := range snap.Stories {
		story := NewStory()
		for _, pj := range sj.Paragraphs {
			p := &Paragraph{
				Text:      pj.Text,
				StyleName: pj.Style,
				Justify:   justifyValues[pj.Justify],
				startPage: -1,
			}
			if pj.Justify == "" {
				p.Justify = JustifyLeft
			}
			if pj.SingleWord != "" {
				p.HasSingleWord = true
				p.SingleWord = justifyValues[pj.SingleWord]
			}
			for _, rj := range pj.Runs {
				p.Runs = append(p.Runs, StyleRun{
					Len: rj.Len,
					Style: CharStyle{
						Bold:          rj.Bold,
						SyntheticBold: rj.Synthetic,
						StyleName:     rj.Style,
					},
				})
			}
			story.Paragraphs = append(story.Paragraphs, p)
		}
		for _, id := range sj.Thread {
			f, ok := frames[id]
			if !ok {
				return nil, fmt.Errorf("model: story thread references unknown frame %d", id)
			}
			story.Frames = append(story.Frames, f)
		}
		doc.Stories = append(doc.Stories, story)
	}

	doc.Reflow()
	return doc, nil
}

// Save writes the document to path as a layout snapshot.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("model: saving snapshot: %w", err)
	}
	if err := d.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a layout snapshot from path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: opening snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
