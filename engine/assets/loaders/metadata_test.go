package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		context  string
		expected metadata.GeometryItem
	}{
		{
			name:    "framed hitbox with item placeholder",
			line:    "hitbox:[item]:0:hurt:1:2:3:4",
			context: "hero/punch",
			expected: metadata.Hitbox{
				OwnerName: "hero/punch", StartFrame: 0, BoxType: "hurt", X: 1, Y: 2, Width: 3, Height: 4,
			},
		},
		{
			name:    "framed hitbox with name placeholder",
			line:    "hitbox:[name]:3:attack:10:20:30:40",
			context: "hero/kick",
			expected: metadata.Hitbox{
				OwnerName: "hero/kick", StartFrame: 3, BoxType: "attack", X: 10, Y: 20, Width: 30, Height: 40,
			},
		},
		{
			name:    "legacy frameless hitbox",
			line:    "hitbox:foo:vulnerable:193:155:156:326",
			context: "",
			expected: metadata.Hitbox{
				OwnerName: "foo", StartFrame: 0, BoxType: "vulnerable", X: 193, Y: 155, Width: 156, Height: 326,
			},
		},
		{
			name:    "literal owner is kept",
			line:    "hitbox:crate:2:top:0:0:24:4",
			context: "props/barrel",
			expected: metadata.Hitbox{
				OwnerName: "crate", StartFrame: 2, BoxType: "top", X: 0, Y: 0, Width: 24, Height: 4,
			},
		},
		{
			name:     "placeholder without context resolves to empty",
			line:     "reference:[item]:5:6",
			context:  "",
			expected: metadata.ReferencePoint{OwnerName: "", X: 5, Y: 6},
		},
		{
			name:     "reference with negative coordinates",
			line:     "reference:[name]:-3:7",
			context:  "gun",
			expected: metadata.ReferencePoint{OwnerName: "gun", X: -3, Y: 7},
		},
		{
			name:    "surrounding whitespace",
			line:    "   hitbox:[item]: 1 :hurt: 1:2:3:4  ",
			context: "a",
			expected: metadata.Hitbox{
				OwnerName: "a", StartFrame: 1, BoxType: "hurt", X: 1, Y: 2, Width: 3, Height: 4,
			},
		},
		{name: "blank line", line: "   ", expected: nil},
		{name: "comment", line: "# hitbox:[item]:0:hurt:1:2:3:4", expected: nil},
		{name: "unknown kind", line: "sound:[item]:step.wav", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line, tt.context)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseLine(%q) = %#v, want %#v", tt.line, got, tt.expected)
			}
		})
	}
}

func TestParseLine_Malformed(t *testing.T) {
	lines := []string{
		"hitbox:[item]:0:hurt:1:2:3",     // framed, one field short
		"hitbox:[item]:0:hurt:1:2:3:4:5", // framed, one field extra
		"hitbox:[item]:hurt:1:2:3",       // frameless, one field short
		"hitbox:[item]:hurt:1:2:3:4:5",   // frameless, one field extra
		"hitbox:[item]:0:hurt:1:two:3:4", // non numeric coordinate
		"hitbox:[item]:0::1:2:3:4",       // empty box type
		"hitbox:[item]",                  // no payload
		"reference:[item]:1",             // too short
		"reference:[item]:1:2:3",         // too long
		"reference:[item]:x:2",           // non numeric
		"hitbox:crate:not-a-number",      // truncated legacy line
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			item, err := ParseLine(line, "ctx")
			if !errors.Is(err, core.ErrMalformedLine) {
				t.Fatalf("expected ErrMalformedLine, got item=%v err=%v", item, err)
			}
			if item != nil {
				t.Errorf("expected nil item, got %#v", item)
			}
		})
	}
}

func TestFormatItem_RoundTrip(t *testing.T) {
	lines := []string{
		"hitbox:hero/punch:0:hurt:1:2:3:4",
		"hitbox:hero/punch:12:attack:-5:6:70:80",
		"reference:props/crate:12:-4",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			item, err := ParseLine(line, "unused")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FormatItem(item); got != line {
				t.Errorf("FormatItem(ParseLine(%q)) = %q", line, got)
			}
		})
	}
}

func TestFormatItem_PlaceholderRoundTrip(t *testing.T) {
	item, err := ParseLine("hitbox:[item]:0:hurt:1:2:3:4", "hero/punch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hitbox:hero/punch:0:hurt:1:2:3:4"
	if got := FormatItem(item); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatItem_FramelessIsNormalized(t *testing.T) {
	item, err := ParseLine("hitbox:foo:vulnerable:193:155:156:326", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "hitbox:foo:0:vulnerable:193:155:156:326"
	if got := FormatItem(item); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseMetadata_SkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		"",
		"hitbox:[item]:0:hurt:1:2:3:4",
		"hitbox:[item]:0:hurt:oops:2:3:4",
		"reference:[name]:9:9",
		"garbage",
		"reference:[item]:1",
	}, "\n")

	items, skipped, err := ParseMetadata(strings.NewReader(input), "walk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	want := []metadata.GeometryItem{
		metadata.Hitbox{OwnerName: "walk", BoxType: "hurt", X: 1, Y: 2, Width: 3, Height: 4},
		metadata.ReferencePoint{OwnerName: "walk", X: 9, Y: 9},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d: %#v", len(items), len(want), items)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("item %d = %#v, want %#v", i, items[i], want[i])
		}
	}
}

func TestMetadataLoader_MissingFile(t *testing.T) {
	ml := &MetadataLoader{}
	res, err := ml.Load(filepath.Join(t.TempDir(), "metadata.txt"), metadata.ResourceTypeText, nil)
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	data := res.Data.(*metadata.TextResourceData)
	if len(data.Items) != 0 || data.Skipped != 0 {
		t.Errorf("expected empty result, got %#v", data)
	}
}

func TestMetadataLoader_Context(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.txt")
	if err := os.WriteFile(path, []byte("reference:[item]:1:2\nreference:x:3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ml := &MetadataLoader{}
	res, err := ml.Load(path, metadata.ResourceTypeText, &metadata.TextResourceParams{Context: "gun"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := res.Data.(*metadata.TextResourceData)
	if data.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", data.Skipped)
	}
	if len(data.Items) != 1 || data.Items[0].Owner() != "gun" {
		t.Errorf("unexpected items %#v", data.Items)
	}
}
