// Package render rasterizes native page items (drawn shapes and groups) into
// standalone image assets. Placed images are external files and never pass
// through here; rendering exists for figures drawn directly in the layout.
//
// The document model carries geometry but no path data, so each shape kind is
// rendered as its canonical form within the item's bounds. That is enough for
// the figure pipeline, which needs a reviewable stand-in asset rather than a
// print-faithful reproduction.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/vector"

	"github.com/mheijink/zetwerk/model"
)

// Config controls raster output.
type Config struct {
	// Scale is the number of output pixels per point.
	Scale float64

	// JPEGQuality applies to .jpg/.jpeg exports.
	JPEGQuality int

	// Background fills the canvas before drawing. Export formats without an
	// alpha channel need one.
	Background color.Color

	// Fill is the shape fill color.
	Fill color.Color

	// LineWidth is the stroke width, in points, used for line items.
	LineWidth float64
}

// DefaultConfig returns the default render configuration: 4 pixels per point,
// roughly 288 DPI.
func DefaultConfig() Config {
	return Config{
		Scale:       4.0,
		JPEGQuality: 90,
		Background:  color.White,
		Fill:        color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xFF},
		LineWidth:   1.5,
	}
}

// Renderer rasterizes page items.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with default configuration.
func NewRenderer() *Renderer {
	return NewRendererWithConfig(DefaultConfig())
}

// NewRendererWithConfig creates a renderer with custom configuration.
func NewRendererWithConfig(config Config) *Renderer {
	if config.Scale <= 0 {
		config.Scale = DefaultConfig().Scale
	}
	return &Renderer{config: config}
}

// Render rasterizes the item onto a canvas sized to its bounds. Group items
// draw their children in z-order; unknown kinds and placed images are errors.
func (r *Renderer) Render(item *model.PageItem) (image.Image, error) {
	if item == nil {
		return nil, fmt.Errorf("render: nil item")
	}
	if !item.Bounds.IsValid() {
		return nil, fmt.Errorf("render: item %s has empty bounds", item.Kind)
	}

	w := int(item.Bounds.Width*r.config.Scale + 0.5)
	h := int(item.Bounds.Height*r.config.Scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if r.config.Background != nil {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.config.Background), image.Point{}, draw.Src)
	}

	// Children and shapes draw relative to the item's own origin.
	if err := r.drawItem(canvas, item, item.Bounds.X, item.Bounds.Y); err != nil {
		return nil, err
	}
	return canvas, nil
}

func (r *Renderer) drawItem(canvas *image.RGBA, item *model.PageItem, originX, originY float64) error {
	switch item.Kind {
	case model.ItemGroup:
		for _, child := range item.Children {
			if child.Kind == model.ItemTextFrame || child.Kind == model.ItemImage {
				continue
			}
			if err := r.drawItem(canvas, child, originX, originY); err != nil {
				return err
			}
		}
		return nil
	case model.ItemRectangle:
		r.fillRect(canvas, item.Bounds, originX, originY)
		return nil
	case model.ItemOval:
		r.fillOval(canvas, item.Bounds, originX, originY)
		return nil
	case model.ItemLine:
		r.strokeLine(canvas, item.Bounds, originX, originY)
		return nil
	case model.ItemPolygon:
		r.fillDiamond(canvas, item.Bounds, originX, originY)
		return nil
	default:
		return fmt.Errorf("render: unsupported item kind %s", item.Kind)
	}
}

func (r *Renderer) newPath(canvas *image.RGBA) *vector.Rasterizer {
	b := canvas.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

func (r *Renderer) paint(canvas *image.RGBA, ras *vector.Rasterizer) {
	ras.Draw(canvas, canvas.Bounds(), image.NewUniform(r.config.Fill), image.Point{})
}

func (r *Renderer) fillRect(canvas *image.RGBA, b model.BBox, originX, originY float64) {
	s := r.config.Scale
	x0 := float32((b.X - originX) * s)
	y0 := float32((b.Y - originY) * s)
	x1 := float32((b.Right() - originX) * s)
	y1 := float32((b.Bottom() - originY) * s)

	ras := r.newPath(canvas)
	ras.MoveTo(x0, y0)
	ras.LineTo(x1, y0)
	ras.LineTo(x1, y1)
	ras.LineTo(x0, y1)
	ras.ClosePath()
	r.paint(canvas, ras)
}

// fillOval approximates an ellipse inside the bounds with four cubic curves.
func (r *Renderer) fillOval(canvas *image.RGBA, b model.BBox, originX, originY float64) {
	s := r.config.Scale
	cx := float32((b.Center().X - originX) * s)
	cy := float32((b.Center().Y - originY) * s)
	rx := float32(b.Width / 2 * s)
	ry := float32(b.Height / 2 * s)

	// Cubic Bezier circle constant.
	const k = 0.5523
	kx := rx * k
	ky := ry * k

	ras := r.newPath(canvas)
	ras.MoveTo(cx+rx, cy)
	ras.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	ras.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	ras.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	ras.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	ras.ClosePath()
	r.paint(canvas, ras)
}

// strokeLine draws the bounds diagonal as a thin filled quad.
func (r *Renderer) strokeLine(canvas *image.RGBA, b model.BBox, originX, originY float64) {
	s := r.config.Scale
	half := float32(r.config.LineWidth / 2 * s)
	x0 := float32((b.X - originX) * s)
	y0 := float32((b.Y - originY) * s)
	x1 := float32((b.Right() - originX) * s)
	y1 := float32((b.Bottom() - originY) * s)

	ras := r.newPath(canvas)
	ras.MoveTo(x0+half, y0-half)
	ras.LineTo(x1+half, y1-half)
	ras.LineTo(x1-half, y1+half)
	ras.LineTo(x0-half, y0+half)
	ras.ClosePath()
	r.paint(canvas, ras)
}

// fillDiamond stands in for polygons, whose vertex data the model does not
// carry.
func (r *Renderer) fillDiamond(canvas *image.RGBA, b model.BBox, originX, originY float64) {
	s := r.config.Scale
	cx := float32((b.Center().X - originX) * s)
	cy := float32((b.Center().Y - originY) * s)
	x0 := float32((b.X - originX) * s)
	y0 := float32((b.Y - originY) * s)
	x1 := float32((b.Right() - originX) * s)
	y1 := float32((b.Bottom() - originY) * s)

	ras := r.newPath(canvas)
	ras.MoveTo(cx, y0)
	ras.LineTo(x1, cy)
	ras.LineTo(cx, y1)
	ras.LineTo(x0, cy)
	ras.ClosePath()
	r.paint(canvas, ras)
}

// Export renders the item and writes it to path, choosing the encoder from
// the file extension (.png, .jpg, .jpeg). A direct render that fails falls
// back to rendering an isolated copy of the item, which strips nested frames
// and images a group may carry.
func (r *Renderer) Export(item *model.PageItem, path string) error {
	img, err := r.Render(item)
	if err != nil {
		img, err = r.renderIsolated(item)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: creating output directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: creating %s: %w", path, err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(out, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: r.config.JPEGQuality})
	default:
		err = fmt.Errorf("render: unsupported output extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("render: encoding %s: %w", path, err)
	}
	return nil
}

// renderIsolated copies the item into a fresh single-item tree, keeping only
// drawable children, and renders that.
func (r *Renderer) renderIsolated(item *model.PageItem) (image.Image, error) {
	if item == nil {
		return nil, fmt.Errorf("render: nil item")
	}
	iso := isolate(item)
	if iso == nil {
		return nil, fmt.Errorf("render: item %s has no drawable content", item.Kind)
	}
	return r.Render(iso)
}

func isolate(item *model.PageItem) *model.PageItem {
	switch item.Kind {
	case model.ItemGroup:
		cp := &model.PageItem{Kind: model.ItemGroup, Bounds: item.Bounds, Label: item.Label}
		for _, child := range item.Children {
			if iso := isolate(child); iso != nil {
				cp.Children = append(cp.Children, iso)
			}
		}
		if len(cp.Children) == 0 {
			return nil
		}
		return cp
	case model.ItemLine, model.ItemPolygon, model.ItemOval, model.ItemRectangle:
		return &model.PageItem{Kind: item.Kind, Bounds: item.Bounds, Label: item.Label}
	default:
		return nil
	}
}
