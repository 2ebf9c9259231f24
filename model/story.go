package model

import "strings"

// Story is one continuous text flow: an ordered sequence of paragraphs
// rendered across a chain of threaded frames. Frames appear in thread order.
type Story struct {
	Paragraphs []*Paragraph
	Frames     []*Frame

	overset bool
	laidOut bool
}

// NewStory creates an empty story.
func NewStory() *Story {
	return &Story{}
}

// Append adds paragraphs to the end of the story.
func (s *Story) Append(paras ...*Paragraph) {
	s.Paragraphs = append(s.Paragraphs, paras...)
	s.laidOut = false
}

// Thread appends a frame to the end of the story's frame chain.
func (s *Story) Thread(f *Frame) {
	s.Frames = append(s.Frames, f)
	s.laidOut = false
}

// ThreadAt inserts a frame into the chain at the given position, clamping
// out-of-range positions to the nearest end.
func (s *Story) ThreadAt(index int, f *Frame) {
	if index < 0 {
		index = 0
	}
	if index > len(s.Frames) {
		index = len(s.Frames)
	}
	s.Frames = append(s.Frames[:index], append([]*Frame{f}, s.Frames[index:]...)...)
	s.laidOut = false
}

// Unthread removes a frame from the chain. The surrounding frames join up,
// matching how threading survives frame deletion.
func (s *Story) Unthread(f *Frame) {
	for i, frame := range s.Frames {
		if frame == f {
			s.Frames = append(s.Frames[:i], s.Frames[i+1:]...)
			s.laidOut = false
			return
		}
	}
}

// LastFrame returns the final frame in the thread chain, or nil.
func (s *Story) LastFrame() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// Overset reports whether the story's text exceeds the combined capacity of
// its threaded frames. Valid after a Reflow.
func (s *Story) Overset() bool {
	return s.overset
}

// Text returns the story's full text with paragraph breaks rendered as
// newlines (forced line breaks are newlines already; callers that care about
// the distinction walk Paragraphs directly).
func (s *Story) Text() string {
	parts := make([]string, len(s.Paragraphs))
	for i, p := range s.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

// WordCount returns the total word count across all paragraphs.
func (s *Story) WordCount() int {
	total := 0
	for _, p := range s.Paragraphs {
		total += p.WordCount()
	}
	return total
}

// WordCountInRange returns the word count of paragraphs whose start page
// offset falls within [startOff, endOff]. Requires a prior Reflow.
func (s *Story) WordCountInRange(startOff, endOff int) int {
	total := 0
	for _, p := range s.Paragraphs {
		if off := p.StartPage(); off >= startOff && off <= endOff {
			total += p.WordCount()
		}
	}
	return total
}

// ParagraphsInRange returns the paragraphs whose start page offset falls
// within [startOff, endOff], in story order. Requires a prior Reflow.
func (s *Story) ParagraphsInRange(startOff, endOff int) []*Paragraph {
	var out []*Paragraph
	for _, p := range s.Paragraphs {
		if off := p.StartPage(); off >= startOff && off <= endOff {
			out = append(out, p)
		}
	}
	return out
}

// TruncateAfter removes all paragraphs from index on (inclusive).
func (s *Story) TruncateAfter(index int) {
	if index < 0 || index >= len(s.Paragraphs) {
		return
	}
	s.Paragraphs = s.Paragraphs[:index]
	s.laidOut = false
}

// TruncateBefore removes all paragraphs before index (exclusive).
func (s *Story) TruncateBefore(index int) {
	if index <= 0 || index > len(s.Paragraphs) {
		return
	}
	s.Paragraphs = s.Paragraphs[index:]
	s.laidOut = false
}

// RemoveParagraph removes the paragraph at index.
func (s *Story) RemoveParagraph(index int) {
	if index < 0 || index >= len(s.Paragraphs) {
		return
	}
	s.Paragraphs = append(s.Paragraphs[:index], s.Paragraphs[index+1:]...)
	s.laidOut = false
}

// reflow assigns a start page to every paragraph by filling the frame chain
// in thread order. Each paragraph consumes its rune length plus one
// separator. Paragraphs that begin beyond the combined capacity are overset
// and keep startPage -1.
func (s *Story) reflow(doc *Document) {
	for _, p := range s.Paragraphs {
		p.startPage = -1
	}
	s.overset = false

	frame := 0
	var remaining int
	if len(s.Frames) > 0 {
		remaining = s.Frames[0].EffectiveCapacity()
	}

	for _, p := range s.Paragraphs {
		need := p.RuneLen() + 1

		if frame >= len(s.Frames) {
			s.overset = true
			continue
		}

		// Advance past exhausted frames so the paragraph starts in the
		// first frame with room for at least one rune.
		for remaining <= 0 {
			frame++
			if frame >= len(s.Frames) {
				break
			}
			remaining = s.Frames[frame].EffectiveCapacity()
		}
		if frame >= len(s.Frames) {
			s.overset = true
			continue
		}

		p.startPage = doc.PageOffset(s.Frames[frame].Page())

		// Consume capacity across as many frames as the paragraph spans.
		for need > 0 {
			if need <= remaining {
				remaining -= need
				need = 0
				break
			}
			need -= remaining
			remaining = 0
			if frame+1 >= len(s.Frames) {
				break
			}
			frame++
			remaining = s.Frames[frame].EffectiveCapacity()
		}
		if need > 0 {
			s.overset = true
		}
	}

	s.laidOut = true
}
