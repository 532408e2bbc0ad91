package systems

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/math"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

type EntryKind string

const (
	EntryKindAnimation EntryKind = "anim"
	EntryKindTile      EntryKind = "tile"
)

// ManifestLines renders the manifest: every animation followed by its
// geometry, then every static texture followed by its geometry.
func ManifestLines(animations []*metadata.AnimationSequence, statics []*metadata.StaticTexture) []string {
	var lines []string
	for _, a := range animations {
		lines = append(lines, fmt.Sprintf("%s:%s:%d:%d:%d:%d:%d:%d",
			EntryKindAnimation, a.Name, a.X, a.Y, a.Width, a.Height, a.FrameCount, a.Framerate))
		for _, it := range a.Geometry {
			lines = append(lines, loaders.FormatItem(it))
		}
	}
	for _, t := range statics {
		lines = append(lines, fmt.Sprintf("%s:%s:%d:%d:%d:%d",
			EntryKindTile, t.Name, t.X, t.Y, t.Width, t.Height))
		for _, it := range t.Geometry {
			lines = append(lines, loaders.FormatItem(it))
		}
	}
	return lines
}

func WriteManifest(w io.Writer, animations []*metadata.AnimationSequence, statics []*metadata.StaticTexture) error {
	bw := bufio.NewWriter(w)
	for _, line := range ManifestLines(animations, statics) {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ManifestEntry is one anim: or tile: record with the geometry lines that
// follow it.
type ManifestEntry struct {
	Kind       EntryKind
	Name       string
	X, Y       int
	Width      int
	Height     int
	FrameCount int
	Framerate  int
	Geometry   []metadata.GeometryItem
}

// Region is the atlas area covered by the entry, all frames included.
func (e *ManifestEntry) Region() math.Rect {
	w := e.Width
	if e.Kind == EntryKindAnimation {
		w *= e.FrameCount
	}
	return math.NewRect(e.X, e.Y, w, e.Height)
}

type Manifest struct {
	Entries []*ManifestEntry
}

func (m *Manifest) Lookup(name string, kind EntryKind) *ManifestEntry {
	for _, e := range m.Entries {
		if e.Name == name && e.Kind == kind {
			return e
		}
	}
	return nil
}

// ReadManifest parses a manifest. Geometry lines are attached to the nearest
// preceding anim: or tile: line.
func ReadManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	var current *ManifestEntry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ":")
		switch EntryKind(parts[0]) {
		case EntryKindAnimation, EntryKindTile:
			e, err := parseEntry(parts)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", core.ErrInvalidManifest, lineNo, err)
			}
			m.Entries = append(m.Entries, e)
			current = e
		default:
			item, err := loaders.ParseLine(line, "")
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", core.ErrInvalidManifest, lineNo, err)
			}
			if item == nil {
				core.LogDebug("manifest line %d: ignoring unknown record %q", lineNo, parts[0])
				continue
			}
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: geometry before any anim or tile entry", core.ErrInvalidManifest, lineNo)
			}
			current.Geometry = append(current.Geometry, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseEntry(parts []string) (*ManifestEntry, error) {
	kind := EntryKind(parts[0])
	want := 6
	if kind == EntryKindAnimation {
		want = 8
	}
	if len(parts) != want {
		return nil, fmt.Errorf("%s expects %d fields, got %d", kind, want, len(parts))
	}

	nums := make([]int, len(parts)-2)
	for i, f := range parts[2:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
		nums[i] = n
	}

	e := &ManifestEntry{
		Kind:   kind,
		Name:   parts[1],
		X:      nums[0],
		Y:      nums[1],
		Width:  nums[2],
		Height: nums[3],
	}
	if kind == EntryKindAnimation {
		e.FrameCount = nums[4]
		e.Framerate = nums[5]
	}
	return e, nil
}

// Validate checks that no two entries overlap and that every geometry
// record names the entry it is listed under.
func (m *Manifest) Validate() error {
	for i, a := range m.Entries {
		for _, it := range a.Geometry {
			if it.Owner() != a.Name {
				return fmt.Errorf("%w: %s listed under %s", core.ErrInvalidManifest, loaders.FormatItem(it), a.Name)
			}
		}
		ra := a.Region()
		for _, b := range m.Entries[i+1:] {
			if rb := b.Region(); ra.Intersects(rb) {
				return fmt.Errorf("%w: %s %s %v and %s %s %v", core.ErrOverlap, a.Kind, a.Name, ra, b.Kind, b.Name, rb)
			}
		}
	}
	return nil
}
