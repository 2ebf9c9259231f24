package rewrite

import (
	"strings"
	"testing"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// storyOnOnePage builds a single-page document holding one story with the
// given paragraphs, reflowed so every paragraph starts on page 0.
func storyOnOnePage(paras ...*model.Paragraph) *model.Story {
	doc := model.NewDocument()
	page := doc.AddPage(model.NewPage(420, 595))
	story := model.NewStory()
	story.Thread(page.AddFrame(model.NewBBox(30, 30, 360, 530), 100000))
	story.Append(paras...)
	doc.AddStory(story)
	doc.Reflow()
	return story
}

func TestApplyScopeContainment(t *testing.T) {
	doc := model.NewDocument()
	p0 := doc.AddPage(model.NewPage(420, 595))
	p1 := doc.AddPage(model.NewPage(420, 595))

	body := model.NewStory()
	body.Thread(p0.AddFrame(model.NewBBox(30, 30, 360, 530), 100))
	body.Thread(p1.AddFrame(model.NewBBox(30, 30, 360, 530), 1000))

	inRange := model.NewParagraph("Dit  is.Een test", "Basistekst")
	anchored := model.NewParagraph("Tekst met  anker ￼ en  fouten .", "Basistekst")
	filler := model.NewParagraph(strings.Repeat("x ", 40), "Basistekst")
	outOfRange := model.NewParagraph("Buiten  bereik.Ook fout", "Basistekst")
	body.Append(inRange, anchored, filler, outOfRange)

	captions := model.NewStory()
	captions.Thread(p0.AddFrame(model.NewBBox(30, 560, 360, 30), 500))
	decoyCaption := model.NewParagraph("Ander verhaal  met fouten .", "Bijschrift")
	captions.Append(decoyCaption)

	doc.AddStory(body)
	doc.AddStory(captions)
	doc.Reflow()

	if outOfRange.StartPage() != 1 {
		t.Fatalf("fixture: decoy starts on page %d, want 1", outOfRange.StartPage())
	}

	anchoredBefore := anchored.Clone()
	outBefore := outOfRange.Clone()
	captionBefore := decoyCaption.Clone()

	if _, err := NewEngine().Apply(doc, 0, chapter.Range{Start: 0, End: 0}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if inRange.Text != "Dit is. Een test" {
		t.Errorf("in-range paragraph not rewritten: %q", inRange.Text)
	}
	if !anchored.Equal(anchoredBefore) {
		t.Errorf("anchored paragraph mutated: %q", anchored.Text)
	}
	if !outOfRange.Equal(outBefore) {
		t.Errorf("out-of-range paragraph mutated: %q", outOfRange.Text)
	}
	if !decoyCaption.Equal(captionBefore) {
		t.Errorf("non-selected story mutated: %q", decoyCaption.Text)
	}
}

func TestApplyEndToEnd(t *testing.T) {
	long := strings.Repeat("Lange volzin met voldoende tekens. ", 3) // ~105 chars
	paras := []*model.Paragraph{
		model.NewParagraph(long, "Basistekst"),
		model.NewParagraph("In de praktijk\nBij een zorgvrager met decubitus", "Basistekst"),
		model.NewParagraph("De huid beschermt het lichaam.", "Basistekst"),
		model.NewParagraph("• los", "Opsomming"),
		model.NewParagraph("Hierna volgt meer uitleg.", "Basistekst"),
		model.NewParagraph("Dit  is.Een test", "Basistekst"),
	}
	paras[0].Justify = model.JustifyFull

	doc := model.NewDocument()
	page := doc.AddPage(model.NewPage(420, 595))
	story := model.NewStory()
	story.Thread(page.AddFrame(model.NewBBox(30, 30, 360, 530), 100000))
	story.Append(paras...)
	doc.AddStory(story)

	stats, err := NewEngine().Apply(doc, 0, chapter.Range{Start: 0, End: 0})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Total() == 0 {
		t.Fatal("no edits reported")
	}

	if paras[0].Justify != model.JustifyLastLineLeft {
		t.Errorf("long paragraph justify = %v, want last-line-left", paras[0].Justify)
	}

	heading := paras[1]
	wantHeading := "In de praktijk: Bij een zorgvrager met decubitus"
	if heading.Text != wantHeading {
		t.Errorf("heading text = %q, want %q", heading.Text, wantHeading)
	}
	label := "In de praktijk:"
	for i := 0; i < len(label); i++ {
		if !heading.StyleAt(i).Bold {
			t.Fatalf("label char %d not bold", i)
		}
	}
	if heading.StyleAt(len(label) + 1).Bold {
		t.Error("text after label must not be bold")
	}
	if heading.Justify != model.JustifyLeft {
		t.Errorf("layer paragraph justify = %v, want ragged", heading.Justify)
	}

	bullet := paras[3]
	if strings.Contains(bullet.Text, "•") {
		t.Errorf("bullet marker still visible: %q", bullet.Text)
	}
	if bullet.Text != "Los" {
		t.Errorf("bullet text = %q, want %q", bullet.Text, "Los")
	}
	if bullet.StyleName != "Basistekst" {
		t.Errorf("bullet style = %q, want body style", bullet.StyleName)
	}

	if paras[5].Text != "Dit is. Een test" {
		t.Errorf("spacing result = %q, want %q", paras[5].Text, "Dit is. Een test")
	}
}

func TestApplyRuleToggles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Spacing = false
	cfg.HeadingMerge = false

	doc := model.NewDocument()
	page := doc.AddPage(model.NewPage(420, 595))
	story := model.NewStory()
	story.Thread(page.AddFrame(model.NewBBox(30, 30, 360, 530), 1000))
	p := model.NewParagraph("Dit  is.Een test", "Basistekst")
	story.Append(p)
	doc.AddStory(story)

	stats, err := NewEngineWithConfig(cfg).Apply(doc, 0, chapter.Range{Start: 0, End: 0})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stats.Spacing != 0 || p.Text != "Dit  is.Een test" {
		t.Errorf("disabled spacing rule still ran: %q", p.Text)
	}
}

func TestApplyBadStoryIndex(t *testing.T) {
	doc := model.NewDocument()
	doc.AddPage(model.NewPage(420, 595))

	if _, err := NewEngine().Apply(doc, 2, chapter.Range{}); err == nil {
		t.Error("expected error for out-of-range story index")
	}
	if _, err := NewEngine().Apply(nil, 0, chapter.Range{}); err == nil {
		t.Error("expected error for nil document")
	}
}
