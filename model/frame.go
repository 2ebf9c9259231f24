package model

// DefaultCharDensity is the estimated number of body-text runes per square
// point of frame area, used when a frame has no explicit capacity. Derived
// from a 9.5pt/12.5pt two-column body template.
const DefaultCharDensity = 0.022

// Frame is a geometric container that renders a slice of a story's text.
// Frames belong to exactly one page and, when threaded, to exactly one
// story; thread order is the frame's position in Story.Frames.
type Frame struct {
	Bounds BBox

	// Capacity is the number of runes the frame can hold. Zero means
	// derive it from the frame area with DefaultCharDensity.
	Capacity int

	page *Page
}

// NewFrame creates a frame with explicit bounds and capacity.
func NewFrame(bounds BBox, capacity int) *Frame {
	return &Frame{Bounds: bounds, Capacity: capacity}
}

// Page returns the page the frame is placed on, or nil if detached.
func (f *Frame) Page() *Page {
	if f == nil {
		return nil
	}
	return f.page
}

// EffectiveCapacity returns the frame's rune capacity, deriving it from the
// frame area when no explicit capacity is set.
func (f *Frame) EffectiveCapacity() int {
	if f.Capacity > 0 {
		return f.Capacity
	}
	return int(f.Bounds.Area() * DefaultCharDensity)
}
