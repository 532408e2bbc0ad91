package systems

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

type ManifestReport struct {
	Animations int           `yaml:"animations"`
	Tiles      int           `yaml:"tiles"`
	Geometry   int           `yaml:"geometry"`
	Bounds     ReportBounds  `yaml:"bounds"`
	Valid      bool          `yaml:"valid"`
	Problem    string        `yaml:"problem,omitempty"`
	Entries    []ReportEntry `yaml:"entries"`
}

type ReportBounds struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ReportEntry struct {
	Kind      string         `yaml:"kind"`
	Name      string         `yaml:"name"`
	X         int            `yaml:"x"`
	Y         int            `yaml:"y"`
	Width     int            `yaml:"width"`
	Height    int            `yaml:"height"`
	Frames    int            `yaml:"frames,omitempty"`
	Framerate int            `yaml:"framerate,omitempty"`
	Hitboxes  []ReportHitbox `yaml:"hitboxes,omitempty"`
	Points    []ReportPoint  `yaml:"references,omitempty"`
}

type ReportHitbox struct {
	StartFrame int    `yaml:"start_frame"`
	Type       string `yaml:"type"`
	X          int    `yaml:"x"`
	Y          int    `yaml:"y"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
}

type ReportPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Report summarizes a manifest. Bounds is the smallest extent containing
// every entry, which for a well-formed build is the atlas size.
func (m *Manifest) Report() *ManifestReport {
	r := &ManifestReport{Valid: true}
	if err := m.Validate(); err != nil {
		r.Valid = false
		r.Problem = err.Error()
	}

	for _, e := range m.Entries {
		region := e.Region()
		r.Bounds.Width = max(r.Bounds.Width, region.X+region.Width)
		r.Bounds.Height = max(r.Bounds.Height, region.Y+region.Height)

		re := ReportEntry{
			Kind:      string(e.Kind),
			Name:      e.Name,
			X:         e.X,
			Y:         e.Y,
			Width:     e.Width,
			Height:    e.Height,
			Frames:    e.FrameCount,
			Framerate: e.Framerate,
		}
		for _, it := range e.Geometry {
			r.Geometry++
			switch g := it.(type) {
			case metadata.Hitbox:
				re.Hitboxes = append(re.Hitboxes, ReportHitbox{
					StartFrame: g.StartFrame,
					Type:       g.BoxType,
					X:          g.X,
					Y:          g.Y,
					Width:      g.Width,
					Height:     g.Height,
				})
			case metadata.ReferencePoint:
				re.Points = append(re.Points, ReportPoint{X: g.X, Y: g.Y})
			}
		}

		switch e.Kind {
		case EntryKindAnimation:
			r.Animations++
		case EntryKindTile:
			r.Tiles++
		}
		r.Entries = append(r.Entries, re)
	}
	return r
}

func (r *ManifestReport) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
