package model

import (
	"bytes"
	"testing"
)

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)

	if b.Left() != 10 || b.Right() != 110 {
		t.Errorf("horizontal edges = %f, %f, want 10, 110", b.Left(), b.Right())
	}
	if b.Top() != 20 || b.Bottom() != 70 {
		t.Errorf("vertical edges = %f, %f, want 20, 70", b.Top(), b.Bottom())
	}
	if c := b.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Center() = %+v, want {60 45}", c)
	}
}

func TestBBoxVerticalGap(t *testing.T) {
	upper := NewBBox(0, 0, 50, 30)
	lower := NewBBox(0, 40, 50, 30)

	if gap := upper.VerticalGap(lower); gap != 10 {
		t.Errorf("VerticalGap = %f, want 10", gap)
	}
	if gap := lower.VerticalGap(upper); gap >= 0 {
		t.Errorf("reversed VerticalGap = %f, want negative", gap)
	}
}

func TestBBoxHorizontalOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want float64
	}{
		{"overlapping", NewBBox(0, 0, 50, 10), NewBBox(30, 0, 50, 10), 20},
		{"disjoint", NewBBox(0, 0, 20, 10), NewBBox(50, 0, 20, 10), -30},
		{"contained", NewBBox(0, 0, 100, 10), NewBBox(20, 0, 30, 10), 30},
	}

	for _, tt := range tests {
		if got := tt.a.HorizontalOverlap(tt.b); got != tt.want {
			t.Errorf("%s: HorizontalOverlap = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestParagraphCharsRoundTrip(t *testing.T) {
	p := NewParagraph("Vet en plat", "Basis")
	p.Runs = []StyleRun{
		{Len: 3, Style: CharStyle{Bold: true}},
		{Len: 8, Style: CharStyle{}},
	}

	chars := p.Chars()
	if len(chars) != 11 {
		t.Fatalf("Chars() length = %d, want 11", len(chars))
	}
	if !chars[0].Style.Bold || !chars[2].Style.Bold {
		t.Error("expected first three chars bold")
	}
	if chars[3].Style.Bold {
		t.Error("expected fourth char not bold")
	}

	p.SetChars(chars)
	if p.Text != "Vet en plat" {
		t.Errorf("text after round trip = %q", p.Text)
	}
	if len(p.Runs) != 2 || p.Runs[0].Len != 3 || p.Runs[1].Len != 8 {
		t.Errorf("runs after round trip = %+v", p.Runs)
	}
}

func TestParagraphRunsShorterThanText(t *testing.T) {
	p := &Paragraph{
		Text: "abcdef",
		Runs: []StyleRun{{Len: 2, Style: CharStyle{Bold: true}}},
	}

	chars := p.Chars()
	if len(chars) != 6 {
		t.Fatalf("Chars() length = %d, want 6", len(chars))
	}
	for i := 2; i < 6; i++ {
		if !chars[i].Style.Bold {
			t.Errorf("char %d: expected last run style to extend", i)
		}
	}
}

func TestParagraphApplyStyle(t *testing.T) {
	p := NewParagraph("In de praktijk: tekst", "Basis")
	p.ApplyStyle(0, 15, CharStyle{Bold: true})

	if !p.StyleAt(0).Bold || !p.StyleAt(14).Bold {
		t.Error("label range should be bold")
	}
	if p.StyleAt(15).Bold {
		t.Error("text after label should not be bold")
	}
}

func TestParagraphAnchorAndWordCount(t *testing.T) {
	p := NewParagraph("Zie ￼ afbeelding twee", "Basis")

	if !p.HasAnchor() {
		t.Error("expected anchor detected")
	}
	if got := p.WordCount(); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
}

func TestSetSingleWordUnsupported(t *testing.T) {
	p := NewParagraph("woord", "Basis")
	if p.SetSingleWord(JustifyLeft) {
		t.Error("write should report no effect when unsupported")
	}

	p.HasSingleWord = true
	p.SingleWord = JustifyFull
	if !p.SetSingleWord(JustifyLeft) || p.SingleWord != JustifyLeft {
		t.Error("write should take effect when supported")
	}
}

// buildTwoPageDoc builds a document with one story threaded across a frame
// on each of two pages, each frame holding capacity runes.
func buildTwoPageDoc(capacity int) (*Document, *Story) {
	doc := NewDocument()
	p1 := doc.AddPage(NewPage(420, 595))
	p2 := doc.AddPage(NewPage(420, 595))

	story := NewStory()
	story.Thread(p1.AddFrame(NewBBox(30, 30, 170, 530), capacity))
	story.Thread(p2.AddFrame(NewBBox(30, 30, 170, 530), capacity))
	doc.AddStory(story)
	return doc, story
}

func TestReflowAssignsStartPages(t *testing.T) {
	doc, story := buildTwoPageDoc(20)
	story.Append(
		NewParagraph("123456789012345", "Basis"), // 16 with separator, page 0
		NewParagraph("1234567890", "Basis"),      // starts on page 1
	)
	doc.Reflow()

	if got := story.Paragraphs[0].StartPage(); got != 0 {
		t.Errorf("paragraph 0 start page = %d, want 0", got)
	}
	if got := story.Paragraphs[1].StartPage(); got != 1 {
		t.Errorf("paragraph 1 start page = %d, want 1", got)
	}
	if story.Overset() {
		t.Error("story should not be overset")
	}
}

func TestReflowOverset(t *testing.T) {
	doc, story := buildTwoPageDoc(10)
	story.Append(
		NewParagraph("1234567890123456789", "Basis"),
		NewParagraph("overflowing paragraph text", "Basis"),
	)
	doc.Reflow()

	if !story.Overset() {
		t.Error("story should be overset")
	}
	if got := story.Paragraphs[1].StartPage(); got != -1 {
		t.Errorf("overset paragraph start page = %d, want -1", got)
	}
}

func TestRemovePageUnthreadsFrames(t *testing.T) {
	doc, story := buildTwoPageDoc(100)
	story.Append(NewParagraph("tekst", "Basis"))

	doc.RemovePage(1)
	doc.Reflow()

	if len(story.Frames) != 1 {
		t.Fatalf("frames after removal = %d, want 1", len(story.Frames))
	}
	if doc.PageCount() != 1 {
		t.Errorf("page count = %d, want 1", doc.PageCount())
	}
}

func TestGroupNestedFrameAttachesToPage(t *testing.T) {
	doc := NewDocument()
	page := doc.AddPage(NewPage(420, 595))

	f := NewFrame(NewBBox(30, 40, 170, 500), 100)
	page.AddItem(&PageItem{
		Kind:   ItemGroup,
		Bounds: NewBBox(20, 30, 190, 520),
		Children: []*PageItem{
			{Kind: ItemTextFrame, Bounds: f.Bounds, Frame: f},
		},
	})

	story := NewStory()
	story.Thread(f)
	story.Append(NewParagraph("Tekst in een gegroepeerd kader.", "Basis"))
	doc.AddStory(story)
	doc.Reflow()

	if got := story.Paragraphs[0].StartPage(); got != 0 {
		t.Errorf("start page = %d, want 0", got)
	}

	cp := doc.Clone()
	cp.Reflow()
	if got := cp.Stories[0].Paragraphs[0].StartPage(); got != 0 {
		t.Errorf("cloned start page = %d, want 0", got)
	}

	doc.RemovePage(0)
	if len(story.Frames) != 0 {
		t.Errorf("frames after page removal = %d, want 0", len(story.Frames))
	}
}

func TestRemovePagesRanges(t *testing.T) {
	doc := NewDocument()
	for i := 0; i < 6; i++ {
		doc.AddPage(NewPage(420, 595))
	}

	doc.RemovePagesFrom(4)
	if doc.PageCount() != 4 {
		t.Fatalf("after RemovePagesFrom: %d pages, want 4", doc.PageCount())
	}
	doc.RemovePagesBefore(2)
	if doc.PageCount() != 2 {
		t.Fatalf("after RemovePagesBefore: %d pages, want 2", doc.PageCount())
	}
}

func TestWordCountInRange(t *testing.T) {
	doc, story := buildTwoPageDoc(20)
	story.Append(
		NewParagraph("een twee drie vier", "Basis"), // page 0
		NewParagraph("vijf zes", "Basis"),           // page 1
	)
	doc.Reflow()

	if got := story.WordCountInRange(0, 0); got != 4 {
		t.Errorf("WordCountInRange(0,0) = %d, want 4", got)
	}
	if got := story.WordCountInRange(0, 1); got != 6 {
		t.Errorf("WordCountInRange(0,1) = %d, want 6", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc, story := buildTwoPageDoc(40)
	link := doc.AddLink("Links/afb-2-1.tif", LinkOutOfDate)
	doc.Pages[0].AddItem(&PageItem{
		Kind:   ItemImage,
		Bounds: NewBBox(220, 40, 150, 100),
		Link:   link,
	})
	doc.Fonts = append(doc.Fonts, Font{Name: "Proza Pro", Available: true})

	para := NewParagraph("In de praktijk: voorbeeld", "Basis")
	para.Justify = JustifyLastLineLeft
	para.ApplyStyle(0, 15, CharStyle{Bold: true, StyleName: "Vet"})
	story.Append(para)

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.PageCount() != 2 {
		t.Fatalf("page count = %d, want 2", got.PageCount())
	}
	if len(got.Stories) != 1 || len(got.Stories[0].Frames) != 2 {
		t.Fatalf("story threading not restored: %+v", got.Stories)
	}

	gp := got.Stories[0].Paragraphs[0]
	if !gp.Equal(para) {
		t.Errorf("paragraph not preserved: got %+v, want %+v", gp, para)
	}
	if got.Links[0].Status != LinkOutOfDate {
		t.Errorf("link status = %v, want out-of-date", got.Links[0].Status)
	}
	if gp.StartPage() != 0 {
		t.Errorf("decoded document should be reflowed; start page = %d", gp.StartPage())
	}
}

func TestCloneIsolation(t *testing.T) {
	doc, story := buildTwoPageDoc(40)
	story.Append(NewParagraph("origineel", "Basis"))

	cp := doc.Clone()
	cp.Stories[0].Paragraphs[0].Text = "gewijzigd"
	cp.RemovePage(1)

	if doc.Stories[0].Paragraphs[0].Text != "origineel" {
		t.Error("clone mutation leaked into original paragraph")
	}
	if doc.PageCount() != 2 || len(doc.Stories[0].Frames) != 2 {
		t.Error("clone mutation leaked into original structure")
	}
}
