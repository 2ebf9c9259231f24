// Package zetwerk provides a fluent API for rebuilding, polishing, auditing
// and exporting chapters of layout documents.
//
// Basic usage:
//
//	rep, err := zetwerk.Open("boek.layout.json").
//	    Chapter(2).
//	    ProfileFile("profiel.json").
//	    Audit()
//	if err != nil {
//	    // handle error; the report file is already on disk
//	}
//
// For advanced use cases, the lower-level chapter, baseline, rewrite, audit
// and figures packages are also available.
package zetwerk

import (
	"fmt"
	"strings"

	"github.com/mheijink/zetwerk/audit"
	"github.com/mheijink/zetwerk/baseline"
	"github.com/mheijink/zetwerk/chapter"
	"github.com/mheijink/zetwerk/figures"
	"github.com/mheijink/zetwerk/idml"
	"github.com/mheijink/zetwerk/model"
	"github.com/mheijink/zetwerk/profile"
	"github.com/mheijink/zetwerk/report"
	"github.com/mheijink/zetwerk/rewrite"
)

// Open prepares a pipeline over the layout snapshot at path. The snapshot is
// loaded lazily on the first terminal operation.
func Open(path string) *Pipeline {
	return &Pipeline{
		path:    path,
		options: defaultOptions(),
	}
}

// FromDocument prepares a pipeline over an in-memory document. The document
// is used as-is and mutated by stages that rewrite it.
func FromDocument(doc *model.Document) *Pipeline {
	return &Pipeline{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Pipeline is a fluently configured run over one document and one chapter.
type Pipeline struct {
	path    string
	doc     *model.Document
	options pipelineOptions
}

// Chapter selects the chapter number the run operates on.
func (p *Pipeline) Chapter(n int) *Pipeline {
	p.options.chapter = n
	return p
}

// WithProfile supplies an already-loaded layout profile.
func (p *Pipeline) WithProfile(prof *profile.Profile) *Pipeline {
	p.options.profile = prof
	return p
}

// ProfileFile names a layout profile JSON file to load on first use.
func (p *Pipeline) ProfileFile(path string) *Pipeline {
	p.options.profilePath = path
	return p
}

// CompareBaseline names a baseline chapter snapshot audits compare against.
func (p *Pipeline) CompareBaseline(path string) *Pipeline {
	p.options.baselinePath = path
	return p
}

// ReportDir sets the directory audit reports are written to. Without it,
// audits decide pass/fail without persisting a report.
func (p *Pipeline) ReportDir(dir string) *Pipeline {
	p.options.reportDir = dir
	return p
}

// RenderDir sets the directory figure extraction writes rendered assets to.
func (p *Pipeline) RenderDir(dir string) *Pipeline {
	p.options.renderDir = dir
	return p
}

// RewriteConfig overrides the polish stage configuration.
func (p *Pipeline) RewriteConfig(cfg rewrite.Config) *Pipeline {
	p.options.rewriteConfig = cfg
	p.options.hasRewriteConfig = true
	return p
}

// AuditConfig overrides the audit stage configuration.
func (p *Pipeline) AuditConfig(cfg audit.Config) *Pipeline {
	p.options.auditConfig = cfg
	p.options.hasAuditConfig = true
	return p
}

// Document loads and returns the pipeline's document.
func (p *Pipeline) Document() (*model.Document, error) {
	if p.doc == nil {
		if p.path == "" {
			return nil, fmt.Errorf("zetwerk: no document or snapshot path given")
		}
		doc, err := model.Load(p.path)
		if err != nil {
			return nil, err
		}
		p.doc = doc
	}
	return p.doc, nil
}

func (p *Pipeline) loadProfile() (*profile.Profile, error) {
	if p.options.profile == nil && p.options.profilePath != "" {
		prof, err := profile.LoadProfile(p.options.profilePath)
		if err != nil {
			return nil, err
		}
		p.options.profile = prof
	}
	return p.options.profile, nil
}

// locate detects the chapter range and selects the body story on the
// pipeline's document.
func (p *Pipeline) locate() (*model.Document, chapter.Range, chapter.Selection, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, chapter.Range{}, chapter.Selection{}, err
	}
	r, err := chapter.NewRangeDetector().Detect(doc, p.options.chapter)
	if err != nil {
		return nil, chapter.Range{}, chapter.Selection{}, err
	}
	sel, err := chapter.SelectBodyStory(doc, r)
	if err != nil {
		return nil, chapter.Range{}, chapter.Selection{}, err
	}
	return doc, r, sel, nil
}

// Rebuild isolates the configured chapter into a fresh baseline document.
// The pipeline's own document is left untouched.
func (p *Pipeline) Rebuild() (*baseline.Result, error) {
	doc, err := p.Document()
	if err != nil {
		return nil, err
	}
	prof, err := p.loadProfile()
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, fmt.Errorf("zetwerk: rebuild requires a layout profile")
	}
	return baseline.NewBuilder(prof).Build(doc, p.options.chapter)
}

// PolishResult is the outcome of a polish run.
type PolishResult struct {
	Doc        *model.Document
	Range      chapter.Range
	StoryIndex int
	Stats      *rewrite.Stats
}

// Polish applies the rewrite rules to the chapter's body story, in place.
func (p *Pipeline) Polish() (*PolishResult, error) {
	doc, r, sel, err := p.locate()
	if err != nil {
		return nil, err
	}

	engine := rewrite.NewEngine()
	if p.options.hasRewriteConfig {
		engine = rewrite.NewEngineWithConfig(p.options.rewriteConfig)
	}
	stats, err := engine.Apply(doc, sel.StoryIndex, r)
	if err != nil {
		return nil, err
	}
	return &PolishResult{Doc: doc, Range: r, StoryIndex: sel.StoryIndex, Stats: stats}, nil
}

// Audit validates the chapter. When a report directory is configured the
// report is written to disk before the pass/fail decision is returned, so a
// failing audit still leaves its diagnostics behind. The returned error is
// non-nil for both run errors and hard audit failures; the report is returned
// in either case when the run itself succeeded.
func (p *Pipeline) Audit() (*audit.Report, error) {
	doc, r, sel, err := p.locate()
	if err != nil {
		return nil, err
	}
	prof, err := p.loadProfile()
	if err != nil {
		return nil, err
	}

	var baselineDoc *model.Document
	if p.options.baselinePath != "" {
		baselineDoc, err = model.Load(p.options.baselinePath)
		if err != nil {
			return nil, err
		}
	}

	auditor := audit.NewAuditor(prof)
	if p.options.hasAuditConfig {
		auditor = audit.NewAuditorWithConfig(prof, p.options.auditConfig)
	}
	rep, err := auditor.Run(doc, sel.StoryIndex, r, baselineDoc)
	if err != nil {
		return nil, err
	}

	if p.options.reportDir != "" {
		kind := fmt.Sprintf("audit-hoofdstuk-%d", p.options.chapter)
		if _, err := report.NewWriter(p.options.reportDir).Save(kind, rep.Render()); err != nil {
			return rep, err
		}
	}
	return rep, rep.Err()
}

// Figures extracts the chapter's figure records.
func (p *Pipeline) Figures() ([]figures.Figure, []figures.Warning, error) {
	doc, r, sel, err := p.locate()
	if err != nil {
		return nil, nil, err
	}

	cfg := figures.DefaultConfig()
	cfg.RenderDir = p.options.renderDir
	return figures.NewExtractorWithConfig(cfg).Extract(doc, sel.StoryIndex, r)
}

// ExportIDML writes the pipeline's document as an interchange package.
func (p *Pipeline) ExportIDML(path string) error {
	doc, err := p.Document()
	if err != nil {
		return err
	}
	return idml.Export(doc, path)
}

// Save writes the pipeline's document as a layout snapshot.
func (p *Pipeline) Save(path string) error {
	doc, err := p.Document()
	if err != nil {
		return err
	}
	return doc.Save(path)
}

// Must is a helper that wraps a call to a function returning (T, error) and
// panics if the error is non-nil. It is intended for scripts and tests where
// error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings joins warning values into one printable line.
func FormatWarnings[W fmt.Stringer](warnings []W) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
