// Package profile loads the per-template layout profiles and book manifests
// that parameterize the pipeline. Both are versioned JSON artifacts validated
// against embedded schemas before use, loaded once and passed down.
package profile

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mheijink/zetwerk/model"
)

//go:embed schema/layout_profile.schema.json
var profileSchemaText string

//go:embed schema/manifest.schema.json
var manifestSchemaText string

var (
	profileSchema  = jsonschema.MustCompileString("layout_profile.schema.json", profileSchemaText)
	manifestSchema = jsonschema.MustCompileString("manifest.schema.json", manifestSchemaText)
)

// DefaultOpenerLookback bounds the backward scan for a chapter opener spread
// when the profile does not set its own window.
const DefaultOpenerLookback = 4

// FrameSpec is one expected body frame: recorded bounds plus an optional
// explicit character capacity.
type FrameSpec struct {
	Bounds   model.BBox
	Capacity int
}

// PageLayout is the expected frame set for one (master, page side) pairing.
type PageLayout struct {
	Master string
	Side   model.PageSide
	Frames []FrameSpec
}

// Profile records a book template's expected frame geometry per master and
// page side. Hand-tuned per book; treated as read-only after load.
type Profile struct {
	Template       string
	Version        int
	BodyMaster     string
	OpenerMasters  []string
	OpenerLookback int
	PageWidth      float64
	PageHeight     float64
	Layouts        []PageLayout
}

// Frames returns the expected frame specs for a master and page side.
// Layouts declared for "both" sides match either side. Returns nil when the
// profile records nothing for the pairing.
func (p *Profile) Frames(master string, side model.PageSide) []FrameSpec {
	var both []FrameSpec
	for _, l := range p.Layouts {
		if l.Master != master {
			continue
		}
		if l.Side == side {
			return l.Frames
		}
		if l.Side == model.SideUnknown {
			both = l.Frames
		}
	}
	return both
}

// BodyFrames returns the expected frame specs for the body master on the
// given side.
func (p *Profile) BodyFrames(side model.PageSide) []FrameSpec {
	return p.Frames(p.BodyMaster, side)
}

// IsOpenerMaster reports whether a master name is recorded as a chapter
// opener template.
func (p *Profile) IsOpenerMaster(name string) bool {
	for _, m := range p.OpenerMasters {
		if m == name {
			return true
		}
	}
	return false
}

// Lookback returns the opener scan window, falling back to the default.
func (p *Profile) Lookback() int {
	if p.OpenerLookback > 0 {
		return p.OpenerLookback
	}
	return DefaultOpenerLookback
}

type profileJSON struct {
	Template       string `json:"template"`
	Version        int    `json:"version"`
	BodyMaster     string `json:"bodyMaster"`
	OpenerMasters  []string `json:"openerMasters,omitempty"`
	OpenerLookback int    `json:"openerLookback,omitempty"`
	Page           struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"page"`
	Layouts []struct {
		Master string `json:"master"`
		Side   string `json:"side"`
		Frames []struct {
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
			W        float64 `json:"w"`
			H        float64 `json:"h"`
			Capacity int     `json:"capacity,omitempty"`
		} `json:"frames"`
	} `json:"layouts"`
}

// ParseProfile validates raw JSON against the profile schema and decodes it.
func ParseProfile(data []byte) (*Profile, error) {
	if err := validate(profileSchema, data); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	var pj profileJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("profile: decoding: %w", err)
	}

	p := &Profile{
		Template:       pj.Template,
		Version:        pj.Version,
		BodyMaster:     pj.BodyMaster,
		OpenerMasters:  pj.OpenerMasters,
		OpenerLookback: pj.OpenerLookback,
		PageWidth:      pj.Page.Width,
		PageHeight:     pj.Page.Height,
	}
	for _, lj := range pj.Layouts {
		layout := PageLayout{Master: lj.Master, Side: sideValue(lj.Side)}
		for _, fj := range lj.Frames {
			layout.Frames = append(layout.Frames, FrameSpec{
				Bounds:   model.NewBBox(fj.X, fj.Y, fj.W, fj.H),
				Capacity: fj.Capacity,
			})
		}
		p.Layouts = append(p.Layouts, layout)
	}
	return p, nil
}

// LoadProfile reads and validates a layout profile from disk.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: reading %s: %w", path, err)
	}
	return ParseProfile(data)
}

func sideValue(s string) model.PageSide {
	switch s {
	case "left":
		return model.SideLeft
	case "right":
		return model.SideRight
	default:
		return model.SideUnknown
	}
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
