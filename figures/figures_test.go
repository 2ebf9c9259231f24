package figures

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

// chapterFixture builds a one-page document with a body story of four
// paragraphs and a separate caption story holding one labeled caption near
// the bottom of the page.
func chapterFixture() (*model.Document, *model.Page) {
	doc := model.NewDocument()
	page := doc.AddPage(model.NewPage(420, 595))

	body := model.NewStory()
	body.Thread(page.AddFrame(model.NewBBox(30, 40, 170, 500), 300))
	body.Append(
		model.NewParagraph(strings.Repeat("a", 23), "Basistekst"),
		model.NewParagraph(strings.Repeat("b", 100), "Basistekst"),
		model.NewParagraph(strings.Repeat("c", 150), "Basistekst"),
		model.NewParagraph("Slotzin.", "Basistekst"),
	)
	doc.AddStory(body)

	captions := model.NewStory()
	captions.Thread(page.AddFrame(model.NewBBox(220, 400, 170, 40), 200))
	captions.Append(model.NewParagraph("Afbeelding 2.1  De opbouw van de huid", "Bijschrift"))
	doc.AddStory(captions)

	doc.Reflow()
	return doc, page
}

func TestExtractLinkedImagePreferred(t *testing.T) {
	doc, page := chapterFixture()

	// Directly above the caption, overlapping its column.
	good := doc.AddLink("huid-opbouw.tif", model.LinkOK)
	page.AddItem(&model.PageItem{Kind: model.ItemImage, Bounds: model.NewBBox(220, 300, 160, 90), Link: good})

	// Decoy high on the page: the gap to the caption is far out of
	// tolerance.
	decoy := doc.AddLink("decoratie.tif", model.LinkOK)
	page.AddItem(&model.PageItem{Kind: model.ItemImage, Bounds: model.NewBBox(220, 60, 160, 100), Link: decoy})

	figs, warns, err := NewExtractor().Extract(doc, 0, chapter.Range{Start: 0, End: 0})
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, figs, 1)

	fig := figs[0]
	assert.Equal(t, "Afbeelding 2.1", fig.Label)
	assert.Equal(t, "De opbouw van de huid", fig.Caption)
	assert.Equal(t, "huid-opbouw.tif", fig.Image.LinkPath)
	assert.Equal(t, 0, fig.Image.Page)
	assert.Empty(t, fig.Image.Asset, "linked images are not rendered")
}

func TestExtractAnchorsToPrecedingParagraph(t *testing.T) {
	doc, page := chapterFixture()
	link := doc.AddLink("huid-opbouw.tif", model.LinkOK)
	page.AddItem(&model.PageItem{Kind: model.ItemImage, Bounds: model.NewBBox(220, 300, 160, 90), Link: link})

	figs, _, err := NewExtractor().Extract(doc, 0, chapter.Range{Start: 0, End: 0})
	require.NoError(t, err)
	require.Len(t, figs, 1)

	anchor := figs[0].Anchor
	require.NotNil(t, anchor)
	assert.Equal(t, 2, anchor.ParagraphIndex, "anchor must be the last paragraph starting above the image")
	assert.Equal(t, strings.Repeat("b", 100), anchor.Before)
	assert.Equal(t, "Slotzin.", anchor.After)
}

func TestExtractNativeFallbackRenders(t *testing.T) {
	doc, page := chapterFixture()
	page.AddItem(&model.PageItem{Kind: model.ItemRectangle, Bounds: model.NewBBox(230, 320, 140, 60)})

	cfg := DefaultConfig()
	cfg.RenderDir = t.TempDir()

	figs, warns, err := NewExtractorWithConfig(cfg).Extract(doc, 0, chapter.Range{Start: 0, End: 0})
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, figs, 1)

	fig := figs[0]
	assert.Empty(t, fig.Image.LinkPath)
	assert.Equal(t, "rectangle", fig.Image.Kind)
	require.NotEmpty(t, fig.Image.Asset)
	_, statErr := os.Stat(fig.Image.Asset)
	assert.NoError(t, statErr, "rendered asset must exist on disk")
}

func TestExtractDedupeKeepsBestCandidate(t *testing.T) {
	doc, page := chapterFixture()
	link := doc.AddLink("huid-opbouw.tif", model.LinkOK)
	page.AddItem(&model.PageItem{Kind: model.ItemImage, Bounds: model.NewBBox(220, 300, 160, 90), Link: link})

	// A second occurrence of the same label in plain prose style scores
	// below the styled caption and must lose the dedupe.
	stray := model.NewStory()
	stray.Thread(page.AddFrame(model.NewBBox(220, 480, 170, 40), 200))
	stray.Append(model.NewParagraph("Afbeelding 2.1: oud bijschrift", "Basistekst"))
	doc.AddStory(stray)
	doc.Reflow()

	figs, _, err := NewExtractor().Extract(doc, 0, chapter.Range{Start: 0, End: 0})
	require.NoError(t, err)
	require.Len(t, figs, 1, "duplicate labels must collapse to one figure")
	assert.Equal(t, "De opbouw van de huid", figs[0].Caption)
}

func TestExtractUnmatchedCaptionWarns(t *testing.T) {
	doc, _ := chapterFixture()

	figs, warns, err := NewExtractor().Extract(doc, 0, chapter.Range{Start: 0, End: 0})
	require.NoError(t, err)
	require.Len(t, figs, 1)
	require.Len(t, warns, 1)
	assert.Equal(t, "Afbeelding 2.1", warns[0].Label)
	assert.False(t, figs[0].Image.Matched())
}

func TestExtractOutOfRangeCaptionIgnored(t *testing.T) {
	doc, _ := chapterFixture()

	figs, _, err := NewExtractor().Extract(doc, 0, chapter.Range{Start: 5, End: 9})
	require.NoError(t, err)
	assert.Empty(t, figs)
}

func TestNormLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Afbeelding 2.1", "afbeelding 2.1"},
		{"AFBEELDING  2.1", "afbeelding 2.1"},
		{"Tabel 3", "tabel 3"},
	}
	for _, tt := range tests {
		if got := normLabel(tt.in); got != tt.want {
			t.Errorf("normLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractInvalidInput(t *testing.T) {
	_, _, err := NewExtractor().Extract(nil, 0, chapter.Range{})
	assert.Error(t, err)

	doc := model.NewDocument()
	_, _, err = NewExtractor().Extract(doc, 1, chapter.Range{})
	assert.Error(t, err)
}
