package rewrite

import (
	"testing"

	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/model"
)

func TestMergeHeadingsText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"label with break",
			"In de praktijk\nBij meneer De Vries",
			"In de praktijk: Bij meneer De Vries",
		},
		{
			"label with colon and break",
			"Verdieping:\nDe celmembraan",
			"Verdieping: De celmembraan",
		},
		{
			"label without colon at blank-line start",
			"Intro.\n\nVerdieping over osmose",
			"Intro.\n\nVerdieping: over osmose",
		},
		{
			"prose starting with label word kept",
			"In de praktijk blijkt dat veel zorgvragers hulp nodig hebben.",
			"In de praktijk blijkt dat veel zorgvragers hulp nodig hebben.",
		},
		{
			"wrapped prose line starting with label kept",
			"Eerste regel\nVerdieping van de kennis is nodig.",
			"Eerste regel\nVerdieping van de kennis is nodig.",
		},
		{
			"colon spacing normalized",
			"In de praktijk:bij de zorgvrager",
			"In de praktijk: bij de zorgvrager",
		},
		{
			"exactly one blank line enforced",
			"Eerst gewone tekst.\n\n\n\nIn de praktijk: een voorbeeld",
			"Eerst gewone tekst.\n\nIn de praktijk: een voorbeeld",
		},
		{
			"missing blank line inserted",
			"Eerst gewone tekst.\nVerdieping: extra stof",
			"Eerst gewone tekst.\n\nVerdieping: extra stof",
		},
		{
			"already conforming",
			"Tekst.\n\nIn de praktijk: een voorbeeld",
			"Tekst.\n\nIn de praktijk: een voorbeeld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.NewParagraph(tt.in, "Basistekst")
			mergeHeadings(p)
			if p.Text != tt.want {
				t.Errorf("text = %q, want %q", p.Text, tt.want)
			}
		})
	}
}

func TestMergeHeadingsIdempotent(t *testing.T) {
	inputs := []string{
		"In de praktijk\nBij een zorgvrager thuis",
		"Tekst.\n\nVerdieping extra stof",
		"Tekst.\n\n\nIn de praktijk:voorbeeld",
	}

	for _, in := range inputs {
		p := model.NewParagraph(in, "Basistekst")
		mergeHeadings(p)
		once := p.Clone()
		mergeHeadings(p)
		if !p.Equal(once) {
			t.Errorf("second pass changed %q: %q -> %q", in, once.Text, p.Text)
		}
	}
}

func TestMergeHeadingsBoldsLabelOnly(t *testing.T) {
	p := model.NewParagraph("In de praktijk\nBij meneer De Vries", "Basistekst")
	mergeHeadings(p)

	label := "In de praktijk:"
	for i := 0; i < len(label); i++ {
		if !p.StyleAt(i).Bold {
			t.Fatalf("label char %d not bold", i)
		}
	}
	if p.StyleAt(len(label) + 1).Bold {
		t.Error("inline text after label must not be bold")
	}
}

func TestJustifyPolicy(t *testing.T) {
	e := NewEngine()
	long := "Deze zin is lang genoeg om ruim boven de normale drempel van tachtig tekens uit te komen."

	tests := []struct {
		name  string
		text  string
		style string
		in    model.Justification
		want  model.Justification
	}{
		{"layer goes ragged", "In de praktijk: voorbeeld", "Basistekst", model.JustifyFull, model.JustifyLeft},
		{"list style goes ragged", "eerste punt", "Opsomming", model.JustifyLastLineLeft, model.JustifyLeft},
		{"body full to last line ragged", "Korte zin.", "Basistekst", model.JustifyFull, model.JustifyLastLineLeft},
		{"long body forced", long, "Basistekst", model.JustifyLeft, model.JustifyLastLineLeft},
		{"short ragged body kept", "Korte zin.", "Basistekst", model.JustifyLeft, model.JustifyLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.NewParagraph(tt.text, tt.style)
			p.Justify = tt.in
			e.applyJustify(p)
			if p.Justify != tt.want {
				t.Errorf("justify = %v, want %v", p.Justify, tt.want)
			}
			if p.Justify == model.JustifyFull {
				t.Error("no paragraph may remain fully justified")
			}
		})
	}
}

func TestJustifySingleWordLine(t *testing.T) {
	e := NewEngine()
	p := model.NewParagraph("Korte zin.", "Basistekst")
	p.HasSingleWord = true
	p.SingleWord = model.JustifyFull

	e.applyJustify(p)
	if p.SingleWord != model.JustifyLeft {
		t.Errorf("single-word justification = %v, want left", p.SingleWord)
	}
}

func TestNormalizeSpacing(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"double spaces", "Dit  is  een  test", "Dit is een test"},
		{"space before punctuation", "Eerst dit , dan dat .", "Eerst dit, dan dat."},
		{"sentence boundary", "Dit is.Een test", "Dit is. Een test"},
		{"missing space after comma", "roodheid,zwelling en pijn", "roodheid, zwelling en pijn"},
		{"decimal comma kept", "een dosis van 2,5 mg", "een dosis van 2,5 mg"},
		{"paren attached to letter", "de cel(membraan)", "de cel (membraan)"},
		{"space inside parens", "de cel ( membraan )", "de cel (membraan)"},
		{"combined", "Dit  is.Een test", "Dit is. Een test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.NewParagraph(tt.in, "Basistekst")
			e.normalizeSpacing(p)
			if p.Text != tt.want {
				t.Errorf("text = %q, want %q", p.Text, tt.want)
			}
		})
	}
}

func TestNormalizeSpacingNoOpOnCleanInput(t *testing.T) {
	e := NewEngine()
	clean := []string{
		"Dit is een nette zin. En nog een.",
		"De huid (epidermis) beschermt het lichaam.",
		"Waarden van 2,5 mg; soms meer.",
	}
	for _, text := range clean {
		p := model.NewParagraph(text, "Basistekst")
		if got := e.normalizeSpacing(p); got != 0 {
			t.Errorf("clean input %q reported %d changes", text, got)
		}
		if p.Text != text {
			t.Errorf("clean input mutated: %q -> %q", text, p.Text)
		}
	}
}

func TestNormalizeSpacingCaptionExempt(t *testing.T) {
	e := NewEngine()
	caption := "Afbeelding 2.1  Doorsnede van  de huid"
	p := model.NewParagraph(caption, "Bijschrift")

	if got := e.normalizeSpacing(p); got != 0 {
		t.Errorf("caption reported %d changes", got)
	}
	if p.Text != caption {
		t.Errorf("caption mutated: %q", p.Text)
	}

	cfg := DefaultConfig()
	cfg.CaptionExempt = false
	e2 := NewEngineWithConfig(cfg)
	e2.normalizeSpacing(p)
	if p.Text == caption {
		t.Error("with exemption off the caption should be normalized")
	}
}

func TestNormalizeTerminology(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"De cliënt wast zich zelf.", "De zorgvrager wast zich zelf."},
		{"Cliënten krijgen hulp van de verpleegkundige.", "Zorgvragers krijgen hulp van de zorgprofessional."},
		{"Verpleegkundigen overleggen dagelijks.", "Zorgprofessionals overleggen dagelijks."},
		{"Het woord cliëntenraad blijft staan.", "Het woord cliëntenraad blijft staan."},
	}

	for _, tt := range tests {
		p := model.NewParagraph(tt.in, "Basistekst")
		normalizeTerminology(p)
		if p.Text != tt.want {
			t.Errorf("text = %q, want %q", p.Text, tt.want)
		}
	}
}

func TestNormalizeSpacingKeepsEmphasis(t *testing.T) {
	e := NewEngine()
	p := model.NewParagraph("Dit  is belangrijk.", "Basistekst")
	p.ApplyStyle(8, 18, model.CharStyle{Bold: true})

	if got := e.normalizeSpacing(p); got != 1 {
		t.Fatalf("changes = %d, want 1", got)
	}
	if p.Text != "Dit is belangrijk." {
		t.Fatalf("text = %q, want %q", p.Text, "Dit is belangrijk.")
	}
	if !p.StyleAt(7).Bold || !p.StyleAt(16).Bold {
		t.Error("emphasis on untouched word lost")
	}
	if p.StyleAt(6).Bold || p.StyleAt(17).Bold {
		t.Error("emphasis bled outside the word")
	}
}

func TestNormalizeTerminologyKeepsEmphasis(t *testing.T) {
	// Emphasis elsewhere in the paragraph survives the replacement.
	p := model.NewParagraph("De cliënt is vaak moe.", "Basistekst")
	p.ApplyStyle(13, 17, model.CharStyle{Bold: true})
	normalizeTerminology(p)
	if p.Text != "De zorgvrager is vaak moe." {
		t.Fatalf("text = %q", p.Text)
	}
	if !p.StyleAt(17).Bold || !p.StyleAt(20).Bold {
		t.Error("emphasis on untouched word lost")
	}
	if p.StyleAt(16).Bold || p.StyleAt(21).Bold {
		t.Error("emphasis bled outside the word")
	}

	// The replacement word takes the style of the word it replaces.
	p = model.NewParagraph("De cliënt is vaak moe.", "Basistekst")
	p.ApplyStyle(3, 9, model.CharStyle{Bold: true})
	normalizeTerminology(p)
	if !p.StyleAt(3).Bold || !p.StyleAt(12).Bold {
		t.Error("replacement word lost the replaced word's emphasis")
	}
	if p.StyleAt(2).Bold || p.StyleAt(13).Bold {
		t.Error("replacement emphasis bled into neighbors")
	}
}

func TestNormalizeEmphasisMajority(t *testing.T) {
	// Word "abc": two bold characters against one plain resolves to bold.
	p := &model.Paragraph{
		Text: "abc",
		Runs: []model.StyleRun{
			{Len: 2, Style: model.CharStyle{Bold: true}},
			{Len: 1, Style: model.CharStyle{}},
		},
	}
	normalizeEmphasis(p)
	for i := 0; i < 3; i++ {
		if !p.StyleAt(i).Bold {
			t.Fatalf("char %d not bold after majority repair", i)
		}
	}
}

func TestNormalizeEmphasisTieResolvesToPlain(t *testing.T) {
	p := &model.Paragraph{
		Text: "ab",
		Runs: []model.StyleRun{
			{Len: 1, Style: model.CharStyle{Bold: true}},
			{Len: 1, Style: model.CharStyle{}},
		},
	}
	normalizeEmphasis(p)
	for i := 0; i < 2; i++ {
		if p.StyleAt(i).Bold {
			t.Fatalf("char %d bold after tie, want plain", i)
		}
	}
}

func TestNormalizeEmphasisLeavesUniformWords(t *testing.T) {
	p := &model.Paragraph{
		Text: "vet plat",
		Runs: []model.StyleRun{
			{Len: 3, Style: model.CharStyle{Bold: true}},
			{Len: 5, Style: model.CharStyle{}},
		},
	}
	if got := normalizeEmphasis(p); got != 0 {
		t.Errorf("uniform words reported %d changes", got)
	}
	if !p.StyleAt(0).Bold || p.StyleAt(4).Bold {
		t.Error("uniform word styles must be preserved")
	}
}

func TestIsBulletLike(t *testing.T) {
	e := NewEngine()
	tests := []struct {
		text  string
		style string
		want  bool
	}{
		{"• roodheid", "Basistekst", true},
		{"- zwelling", "Basistekst", true},
		{"gewone zin", "Opsomming 1", true},
		{"gewone zin", "Basistekst", false},
		{"zin met • later", "Basistekst", false},
	}

	for _, tt := range tests {
		p := model.NewParagraph(tt.text, tt.style)
		if got := e.isBulletLike(p); got != tt.want {
			t.Errorf("isBulletLike(%q, %q) = %v, want %v", tt.text, tt.style, got, tt.want)
		}
	}
}

func TestIsolatedBulletPredicate(t *testing.T) {
	e := NewEngine()
	r := chapter.Range{Start: 0, End: 0}

	// A bullet with a bullet predecessor is never repaired.
	story := storyOnOnePage(
		model.NewParagraph("• eerste punt", "Basistekst"),
		model.NewParagraph("• tweede punt", "Basistekst"),
		model.NewParagraph("gewone tekst erna", "Basistekst"),
	)
	if got := e.repairIsolatedBullets(story, r); got != 0 {
		t.Errorf("sibling bullets repaired %d times, want 0", got)
	}

	// A bullet between two non-bullets is always repaired.
	story = storyOnOnePage(
		model.NewParagraph("tekst ervoor", "Basistekst"),
		model.NewParagraph("• los", "Opsomming"),
		model.NewParagraph("tekst erna", "Basistekst"),
	)
	if got := e.repairIsolatedBullets(story, r); got != 1 {
		t.Fatalf("isolated bullet repaired %d times, want 1", got)
	}
	repaired := story.Paragraphs[1]
	if repaired.StyleName != "Basistekst" {
		t.Errorf("style = %q, want predecessor's style", repaired.StyleName)
	}
	if repaired.Text != "Los" {
		t.Errorf("text = %q, want %q", repaired.Text, "Los")
	}
}

func TestIsolatedBulletRepairTable(t *testing.T) {
	e := NewEngine()
	story := storyOnOnePage(
		model.NewParagraph("tekst ervoor", "Basistekst"),
		model.NewParagraph("• en de zorgvrager", "Opsomming"),
		model.NewParagraph("tekst erna", "Basistekst"),
	)
	e.repairIsolatedBullets(story, chapter.Range{Start: 0, End: 0})

	want := "Ook de zorgvrager speelt hierbij een rol."
	if story.Paragraphs[1].Text != want {
		t.Errorf("text = %q, want %q", story.Paragraphs[1].Text, want)
	}
}

func TestIsolatedBulletKeepsEmphasis(t *testing.T) {
	e := NewEngine()
	p := model.NewParagraph("• de huid beschermt", "Basistekst")
	p.ApplyStyle(5, 9, model.CharStyle{Bold: true})
	story := storyOnOnePage(
		model.NewParagraph("tekst ervoor", "Basistekst"),
		p,
		model.NewParagraph("tekst erna", "Basistekst"),
	)

	e.repairIsolatedBullets(story, chapter.Range{Start: 0, End: 0})
	if p.Text != "De huid beschermt" {
		t.Fatalf("text = %q", p.Text)
	}
	if !p.StyleAt(3).Bold || !p.StyleAt(6).Bold {
		t.Error("emphasis on untouched word lost")
	}
	if p.StyleAt(2).Bold || p.StyleAt(7).Bold {
		t.Error("emphasis bled outside the word")
	}
}

func TestMergeMicroBullets(t *testing.T) {
	e := NewEngine()
	story := storyOnOnePage(
		model.NewParagraph("Symptomen zijn bijvoorbeeld:", "Basistekst"),
		model.NewParagraph("• roodheid", "Opsomming"),
		model.NewParagraph("• zwelling", "Opsomming"),
		model.NewParagraph("• Pijn.", "Opsomming"),
		model.NewParagraph("gewone tekst erna", "Basistekst"),
	)

	if got := e.mergeMicroBullets(story, chapter.Range{Start: 0, End: 0}); got != 1 {
		t.Fatalf("merged %d runs, want 1", got)
	}
	want := "Symptomen zijn bijvoorbeeld: roodheid, zwelling en pijn."
	if story.Paragraphs[0].Text != want {
		t.Errorf("intro = %q, want %q", story.Paragraphs[0].Text, want)
	}
	if len(story.Paragraphs) != 2 {
		t.Errorf("paragraph count = %d, want 2", len(story.Paragraphs))
	}
}

func TestMergeMicroBulletsTwoItems(t *testing.T) {
	e := NewEngine()
	story := storyOnOnePage(
		model.NewParagraph("De huid bestaat uit twee delen, namelijk:", "Basistekst"),
		model.NewParagraph("• de opperhuid", "Opsomming"),
		model.NewParagraph("• de lederhuid", "Opsomming"),
	)

	e.mergeMicroBullets(story, chapter.Range{Start: 0, End: 0})
	want := "De huid bestaat uit twee delen, namelijk: de opperhuid en de lederhuid."
	if story.Paragraphs[0].Text != want {
		t.Errorf("intro = %q, want %q", story.Paragraphs[0].Text, want)
	}
}

func TestMergeMicroBulletsKeepsIntroEmphasis(t *testing.T) {
	e := NewEngine()
	intro := model.NewParagraph("Symptomen zijn bijvoorbeeld:", "Basistekst")
	intro.ApplyStyle(0, 9, model.CharStyle{Bold: true})
	story := storyOnOnePage(
		intro,
		model.NewParagraph("• roodheid", "Opsomming"),
		model.NewParagraph("• zwelling", "Opsomming"),
	)

	if got := e.mergeMicroBullets(story, chapter.Range{Start: 0, End: 0}); got != 1 {
		t.Fatalf("merged %d runs, want 1", got)
	}
	if !intro.StyleAt(0).Bold || !intro.StyleAt(8).Bold {
		t.Error("intro emphasis lost in merge")
	}
	if intro.StyleAt(10).Bold {
		t.Error("merged clause must not be bold")
	}
}

func TestMergeMicroBulletsSkips(t *testing.T) {
	e := NewEngine()
	r := chapter.Range{Start: 0, End: 0}

	tests := []struct {
		name  string
		paras []*model.Paragraph
	}{
		{
			"single bullet",
			[]*model.Paragraph{
				model.NewParagraph("Bijvoorbeeld:", "Basistekst"),
				model.NewParagraph("• roodheid", "Opsomming"),
			},
		},
		{
			"run too long",
			[]*model.Paragraph{
				model.NewParagraph("Bijvoorbeeld:", "Basistekst"),
				model.NewParagraph("• een", "Opsomming"),
				model.NewParagraph("• twee", "Opsomming"),
				model.NewParagraph("• drie", "Opsomming"),
				model.NewParagraph("• vier", "Opsomming"),
				model.NewParagraph("• vijf", "Opsomming"),
			},
		},
		{
			"no intro",
			[]*model.Paragraph{
				model.NewParagraph("Gewone zin zonder dubbele punt", "Basistekst"),
				model.NewParagraph("• een", "Opsomming"),
				model.NewParagraph("• twee", "Opsomming"),
			},
		},
		{
			"item with sentence punctuation",
			[]*model.Paragraph{
				model.NewParagraph("Bijvoorbeeld:", "Basistekst"),
				model.NewParagraph("• roodheid. En meer", "Opsomming"),
				model.NewParagraph("• zwelling", "Opsomming"),
			},
		},
		{
			"anchored item aborts run",
			[]*model.Paragraph{
				model.NewParagraph("Bijvoorbeeld:", "Basistekst"),
				model.NewParagraph("• roodheid", "Opsomming"),
				model.NewParagraph("• zie ￼ hiernaast", "Opsomming"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story := storyOnOnePage(tt.paras...)
			before := len(story.Paragraphs)
			if got := e.mergeMicroBullets(story, r); got != 0 {
				t.Errorf("merged %d runs, want 0", got)
			}
			if len(story.Paragraphs) != before {
				t.Errorf("paragraphs deleted from a skipped run")
			}
		})
	}
}
