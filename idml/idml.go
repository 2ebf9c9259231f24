// Package idml writes a document as an IDML-style interchange package: a zip
// archive holding a design map plus one XML part per story and per spread.
// The output is a downstream data-exchange artifact, not a faithful InDesign
// file; consumers read the structure, styles and text, never the exact
// geometry of print output.
package idml

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/mheijink/zetwerk/model"
)

const mimetype = "application/vnd.adobe.indesign-idml-package"

type designMap struct {
	XMLName xml.Name   `xml:"Document"`
	Version string     `xml:"DOMVersion,attr"`
	Book    string     `xml:"Book,attr,omitempty"`
	Stories []partRef  `xml:"Story"`
	Spreads []partRef  `xml:"Spread"`
	Links   []linkPart `xml:"Link"`
}

type partRef struct {
	Src string `xml:"src,attr"`
}

type linkPart struct {
	URI    string `xml:"LinkResourceURI,attr"`
	Status string `xml:"Status,attr"`
}

type storyPart struct {
	XMLName    xml.Name    `xml:"Story"`
	Self       string      `xml:"Self,attr"`
	Paragraphs []paraPart  `xml:"ParagraphStyleRange"`
}

type paraPart struct {
	Style   string     `xml:"AppliedParagraphStyle,attr"`
	Justify string     `xml:"Justification,attr"`
	Runs    []runPart  `xml:"CharacterStyleRange"`
}

type runPart struct {
	Bold      bool   `xml:"Bold,attr,omitempty"`
	Synthetic bool   `xml:"SyntheticBold,attr,omitempty"`
	Style     string `xml:"AppliedCharacterStyle,attr,omitempty"`
	Content   string `xml:"Content"`
}

type spreadPart struct {
	XMLName xml.Name   `xml:"Spread"`
	Self    string     `xml:"Self,attr"`
	Pages   []pagePart `xml:"Page"`
}

type pagePart struct {
	Self   string     `xml:"Self,attr"`
	Side   string     `xml:"PageSide,attr"`
	Master string     `xml:"AppliedMaster,attr,omitempty"`
	Width  float64    `xml:"GeometricWidth,attr"`
	Height float64    `xml:"GeometricHeight,attr"`
	Items  []itemPart `xml:"PageItem"`
}

type itemPart struct {
	Kind   string     `xml:"ItemType,attr"`
	X      float64    `xml:"X,attr"`
	Y      float64    `xml:"Y,attr"`
	Width  float64    `xml:"Width,attr"`
	Height float64    `xml:"Height,attr"`
	Label  string     `xml:"Label,attr,omitempty"`
	Link   string     `xml:"LinkedFile,attr,omitempty"`
	Items  []itemPart `xml:"PageItem"`
}

// Export writes the document as an interchange package at path.
func Export(doc *model.Document, path string) error {
	if doc == nil {
		return fmt.Errorf("idml: nil document")
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("idml: creating %s: %w", path, err)
	}
	defer out.Close()

	if err := Write(doc, out); err != nil {
		return fmt.Errorf("idml: writing %s: %w", path, err)
	}
	return nil
}

// Write streams the document as an interchange package.
func Write(doc *model.Document, w io.Writer) error {
	if doc == nil {
		return fmt.Errorf("idml: nil document")
	}
	zw := zip.NewWriter(w)

	// The mimetype entry leads the archive uncompressed, matching the
	// package convention readers sniff for.
	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := mt.Write([]byte(mimetype)); err != nil {
		return err
	}

	dm := designMap{Version: "1.0", Book: doc.Metadata.Book}
	for i := range doc.Stories {
		dm.Stories = append(dm.Stories, partRef{Src: storyPath(i)})
	}
	for i := 0; i < doc.PageCount(); i += 2 {
		dm.Spreads = append(dm.Spreads, partRef{Src: spreadPath(i / 2)})
	}
	for _, l := range doc.Links {
		dm.Links = append(dm.Links, linkPart{URI: l.Path, Status: l.Status.String()})
	}
	if err := writePart(zw, "designmap.xml", dm); err != nil {
		return err
	}

	for i, story := range doc.Stories {
		if err := writePart(zw, storyPath(i), storyToPart(i, story)); err != nil {
			return err
		}
	}
	for i := 0; i < doc.PageCount(); i += 2 {
		if err := writePart(zw, spreadPath(i/2), spreadToPart(doc, i)); err != nil {
			return err
		}
	}

	return zw.Close()
}

func storyPath(i int) string {
	return fmt.Sprintf("Stories/Story_u%d.xml", i)
}

func spreadPath(i int) string {
	return fmt.Sprintf("Spreads/Spread_u%d.xml", i)
}

func writePart(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(f)
	enc.Indent("", "\t")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("idml: encoding %s: %w", name, err)
	}
	return nil
}

func storyToPart(index int, story *model.Story) storyPart {
	part := storyPart{Self: fmt.Sprintf("u%d", index)}
	for _, p := range story.Paragraphs {
		pp := paraPart{
			Style:   p.StyleName,
			Justify: p.Justify.String(),
		}
		if len(p.Runs) == 0 {
			pp.Runs = append(pp.Runs, runPart{Content: p.Text})
		} else {
			chars := p.Chars()
			offset := 0
			for _, r := range p.Runs {
				end := offset + r.Len
				if end > len(chars) {
					end = len(chars)
				}
				if offset >= end {
					continue
				}
				pp.Runs = append(pp.Runs, runPart{
					Bold:      r.Style.Bold,
					Synthetic: r.Style.SyntheticBold,
					Style:     r.Style.StyleName,
					Content:   charString(chars[offset:end]),
				})
				offset = end
			}
		}
		part.Paragraphs = append(part.Paragraphs, pp)
	}
	return part
}

func charString(chars []model.Char) string {
	runes := make([]rune, len(chars))
	for i, c := range chars {
		runes[i] = c.R
	}
	return string(runes)
}

func spreadToPart(doc *model.Document, first int) spreadPart {
	part := spreadPart{Self: fmt.Sprintf("u%d", first/2)}
	for off := first; off < first+2 && off < doc.PageCount(); off++ {
		page := doc.Page(off)
		pp := pagePart{
			Self:   fmt.Sprintf("p%d", off),
			Side:   page.Side.String(),
			Master: page.Master,
			Width:  page.Width,
			Height: page.Height,
		}
		for _, item := range page.Items {
			pp.Items = append(pp.Items, itemToPart(item))
		}
		part.Pages = append(part.Pages, pp)
	}
	return part
}

func itemToPart(item *model.PageItem) itemPart {
	ip := itemPart{
		Kind:   item.Kind.String(),
		X:      item.Bounds.X,
		Y:      item.Bounds.Y,
		Width:  item.Bounds.Width,
		Height: item.Bounds.Height,
		Label:  item.Label,
	}
	if item.Link != nil {
		ip.Link = item.Link.Path
	}
	for _, child := range item.Children {
		ip.Items = append(ip.Items, itemToPart(child))
	}
	return ip
}
