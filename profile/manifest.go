package profile

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestChapter is one chapter entry in a book manifest.
type ManifestChapter struct {
	Number   int    `json:"number"`
	Snapshot string `json:"snapshot"`
	Baseline string `json:"baseline,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Manifest describes one book: its template, its chapters and their snapshot
// artifacts, and where run reports go.
type Manifest struct {
	Book      string            `json:"book"`
	Template  string            `json:"template"`
	Profile   string            `json:"profile,omitempty"`
	ReportDir string            `json:"reportDir,omitempty"`
	Chapters  []ManifestChapter `json:"chapters"`
}

// Chapter returns the manifest entry for a chapter number, or nil.
func (m *Manifest) Chapter(n int) *ManifestChapter {
	for i := range m.Chapters {
		if m.Chapters[i].Number == n {
			return &m.Chapters[i]
		}
	}
	return nil
}

// ParseManifest validates raw JSON against the manifest schema and decodes it.
func ParseManifest(data []byte) (*Manifest, error) {
	if err := validate(manifestSchema, data); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decoding: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and validates a book manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: reading %s: %w", path, err)
	}
	return ParseManifest(data)
}
