package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

const (
	referenceFields       = 4
	framedHitboxFields    = 8
	framelessHitboxFields = 7
)

// MetadataLoader reads a sidecar geometry file. A missing file is not an
// error and yields no items.
type MetadataLoader struct{}

func (ml *MetadataLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	var ctx string
	if p, ok := params.(*metadata.TextResourceParams); ok && p != nil {
		ctx = p.Context
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &metadata.Resource{Name: "metadata", Type: metadata.ResourceTypeText, FullPath: path, Data: &metadata.TextResourceData{}}, nil
		}
		return nil, err
	}
	defer file.Close()

	items, skipped, err := ParseMetadata(file, ctx)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if skipped > 0 {
		core.LogDebug("%s: skipped %d malformed line(s)", path, skipped)
	}

	return &metadata.Resource{
		Name:     "metadata",
		Type:     metadata.ResourceTypeText,
		FullPath: path,
		DataSize: uint64(len(items)),
		Data: &metadata.TextResourceData{
			Items:   items,
			Skipped: skipped,
		},
	}, nil
}

func (ml *MetadataLoader) Unload(*metadata.Resource) error {
	return nil
}

// ParseMetadata parses every line of r. Malformed lines are dropped and
// counted; only read errors are returned.
func ParseMetadata(r io.Reader, context string) ([]metadata.GeometryItem, int, error) {
	var (
		items   []metadata.GeometryItem
		skipped int
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		item, err := ParseLine(scanner.Text(), context)
		if err != nil {
			core.LogDebug("line %d: %s", lineNo, err)
			skipped++
			continue
		}
		if item != nil {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return items, skipped, nil
}

// ParseLine decodes one metadata line. Blank lines, comments and unknown
// record kinds yield a nil item and a nil error. Placeholder owners are
// replaced by context.
func ParseLine(line, context string) (metadata.GeometryItem, error) {
	line = strings.TrimSpace(line)

	// Skip comments and empty lines
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	parts := strings.Split(line, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch metadata.GeometryKind(parts[0]) {
	case metadata.GeometryKindHitbox:
		return parseHitbox(line, parts, context)
	case metadata.GeometryKindReference:
		return parseReference(line, parts, context)
	default:
		return nil, nil
	}
}

// parseHitbox picks the grammar from one token of lookahead: an integer
// after the owner means the framed form, anything else the frameless one.
func parseHitbox(line string, parts []string, context string) (metadata.GeometryItem, error) {
	if len(parts) < 3 {
		return nil, malformed(line, "expected %d or %d fields, got %d", framedHitboxFields, framelessHitboxFields, len(parts))
	}

	var (
		startFrame int
		rest       []string
	)
	if n, err := strconv.Atoi(parts[2]); err == nil {
		if len(parts) != framedHitboxFields {
			return nil, malformed(line, "framed hitbox expects %d fields, got %d", framedHitboxFields, len(parts))
		}
		startFrame = n
		rest = parts[3:]
	} else {
		if len(parts) != framelessHitboxFields {
			return nil, malformed(line, "frameless hitbox expects %d fields, got %d", framelessHitboxFields, len(parts))
		}
		rest = parts[2:]
	}

	boxType := rest[0]
	if boxType == "" {
		return nil, malformed(line, "empty box type")
	}
	nums, err := parseInts(line, rest[1:])
	if err != nil {
		return nil, err
	}

	return metadata.Hitbox{
		OwnerName:  metadata.ResolveOwner(parts[1], context),
		StartFrame: startFrame,
		BoxType:    boxType,
		X:          nums[0],
		Y:          nums[1],
		Width:      nums[2],
		Height:     nums[3],
	}, nil
}

func parseReference(line string, parts []string, context string) (metadata.GeometryItem, error) {
	if len(parts) != referenceFields {
		return nil, malformed(line, "reference expects %d fields, got %d", referenceFields, len(parts))
	}
	nums, err := parseInts(line, parts[2:])
	if err != nil {
		return nil, err
	}
	return metadata.ReferencePoint{
		OwnerName: metadata.ResolveOwner(parts[1], context),
		X:         nums[0],
		Y:         nums[1],
	}, nil
}

func parseInts(line string, fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, malformed(line, "invalid integer %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func malformed(line, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", core.ErrMalformedLine, line, fmt.Sprintf(format, args...))
}

// FormatItem encodes a geometry item as one metadata line. Hitboxes always
// use the framed form.
func FormatItem(item metadata.GeometryItem) string {
	switch it := item.(type) {
	case metadata.Hitbox:
		return fmt.Sprintf("%s:%s:%d:%s:%d:%d:%d:%d",
			it.Kind(), it.OwnerName, it.StartFrame, it.BoxType, it.X, it.Y, it.Width, it.Height)
	case metadata.ReferencePoint:
		return fmt.Sprintf("%s:%s:%d:%d", it.Kind(), it.OwnerName, it.X, it.Y)
	}
	return ""
}
