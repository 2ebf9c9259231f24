package model

// PageItemKind is a closed enumeration of the page item kinds the pipeline
// understands. Classification happens once, when a document is constructed
// or loaded, instead of being rediscovered at every call site.
type PageItemKind int

const (
	ItemUnknown PageItemKind = iota
	ItemTextFrame
	ItemImage
	ItemGroup
	ItemLine
	ItemPolygon
	ItemOval
	ItemRectangle
)

// String returns a human-readable representation of the item kind.
func (k PageItemKind) String() string {
	switch k {
	case ItemTextFrame:
		return "textframe"
	case ItemImage:
		return "image"
	case ItemGroup:
		return "group"
	case ItemLine:
		return "line"
	case ItemPolygon:
		return "polygon"
	case ItemOval:
		return "oval"
	case ItemRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// IsNativeDrawing reports whether the kind is a drawn shape rather than a
// text frame or a placed external image.
func (k PageItemKind) IsNativeDrawing() bool {
	switch k {
	case ItemLine, ItemPolygon, ItemOval, ItemRectangle:
		return true
	default:
		return false
	}
}

// PageItem is a geometric object placed on a page. Exactly one of the
// kind-specific fields is populated: Frame for text frames, Link for placed
// images, Children for groups. Native drawings carry geometry only.
type PageItem struct {
	Kind   PageItemKind
	Bounds BBox
	ZOrder int
	Label  string

	Frame    *Frame
	Link     *Link
	Children []*PageItem
}

// Walk visits the item and all nested children depth-first.
func (it *PageItem) Walk(fn func(*PageItem)) {
	if it == nil {
		return
	}
	fn(it)
	for _, child := range it.Children {
		child.Walk(fn)
	}
}

// LinkStatus describes the state of an external asset reference.
type LinkStatus int

const (
	LinkOK LinkStatus = iota
	LinkMissing
	LinkOutOfDate
)

// String returns a human-readable representation of the link status.
func (s LinkStatus) String() string {
	switch s {
	case LinkOK:
		return "ok"
	case LinkMissing:
		return "missing"
	case LinkOutOfDate:
		return "out-of-date"
	default:
		return "unknown"
	}
}

// Link is an external asset reference (a placed image file).
type Link struct {
	Path   string
	Status LinkStatus
}

// Font is a typeface the document uses. Substituted fonts render with a
// stand-in and count as integrity failures during auditing.
type Font struct {
	Name        string
	Available   bool
	Substituted bool
}
