package assets

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
)

var (
	frameFilePattern  = regexp.MustCompile(`(?i)\d+\.png$`)
	framerateSuffixRe = regexp.MustCompile(`^(.*?)(\d+)$`)
)

type ClassifyOptions struct {
	DefaultFramerate int
	MetadataFilename string
	// Loader reads the metadata sidecars. Defaults to a MetadataLoader.
	Loader Loader
	// Exclude lists files (absolute or root-relative) that are never treated
	// as assets, typically the previous outputs of the build.
	Exclude []string
}

// Catalog is the classified asset tree, in traversal order.
type Catalog struct {
	Animations []*metadata.AnimationSequence
	Statics    []*metadata.StaticTexture

	SkippedLines int
	OrphanItems  int
}

func (c *Catalog) Empty() bool {
	return len(c.Animations) == 0 && len(c.Statics) == 0
}

type classifier struct {
	root     string
	opts     ClassifyOptions
	exclude  map[string]struct{}
	meta     Loader
	catalog  *Catalog
	animSeen map[string]string
	texSeen  map[string]string
}

// Classify walks root and splits its PNG files into animation sequences and
// static textures, attaching the geometry of each directory's sidecar file.
// Images are not decoded here.
func Classify(root string, opts ClassifyOptions) (*Catalog, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidSourceDir, root)
	}
	if opts.DefaultFramerate <= 0 {
		opts.DefaultFramerate = metadata.DEFAULT_FRAMERATE
	}
	if opts.MetadataFilename == "" {
		opts.MetadataFilename = metadata.DEFAULT_METADATA_FILENAME
	}
	if opts.Loader == nil {
		opts.Loader = &loaders.MetadataLoader{}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSourceDir, err)
	}

	c := &classifier{
		root:     absRoot,
		opts:     opts,
		exclude:  make(map[string]struct{}, len(opts.Exclude)),
		meta:     opts.Loader,
		catalog:  &Catalog{},
		animSeen: make(map[string]string),
		texSeen:  make(map[string]string),
	}
	for _, p := range opts.Exclude {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		c.exclude[filepath.Clean(p)] = struct{}{}
	}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return c.visitDir(path)
	})
	if err != nil {
		return nil, err
	}
	return c.catalog, nil
}

func (c *classifier) visitDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var pngs []string
	for _, e := range entries {
		if e.IsDir() || !IsPNG(e.Name()) {
			continue
		}
		if _, skip := c.exclude[filepath.Join(dir, e.Name())]; skip {
			continue
		}
		pngs = append(pngs, e.Name())
	}
	if len(pngs) == 0 {
		return nil
	}

	if IsAnimationDir(pngs) {
		return c.addAnimation(dir, pngs)
	}
	return c.addStatics(dir, pngs)
}

func (c *classifier) addAnimation(dir string, frames []string) error {
	rel, err := filepath.Rel(c.root, dir)
	if err != nil {
		return err
	}
	rawName := filepath.ToSlash(rel)
	if rawName == "." {
		rawName = filepath.Base(c.root)
	}

	name, framerate, ok := SplitFramerate(rawName)
	if !ok {
		framerate = c.opts.DefaultFramerate
	} else if framerate == 0 {
		core.LogWarn("animation %s declares framerate 0, using %d", rawName, c.opts.DefaultFramerate)
		framerate = c.opts.DefaultFramerate
	}
	if prev, dup := c.animSeen[name]; dup {
		return fmt.Errorf("%w: animation %q from both %s and %s", core.ErrDuplicateName, name, prev, dir)
	}
	c.animSeen[name] = dir

	SortFrames(frames)
	paths := make([]string, len(frames))
	for i, f := range frames {
		paths[i] = filepath.Join(dir, f)
	}

	items, err := c.loadMetadata(dir, name)
	if err != nil {
		return err
	}
	geometry := make([]metadata.GeometryItem, 0, len(items))
	for _, it := range items {
		if it.Owner() != name {
			core.LogDebug("%s: geometry owner %q rewritten to %q", dir, it.Owner(), name)
		}
		geometry = append(geometry, it.WithOwner(name))
	}

	c.catalog.Animations = append(c.catalog.Animations, &metadata.AnimationSequence{
		AtlasItem: metadata.AtlasItem{
			Name:     name,
			Geometry: geometry,
		},
		FramePaths: paths,
		FrameCount: len(paths),
		Framerate:  framerate,
	})
	return nil
}

func (c *classifier) addStatics(dir string, files []string) error {
	items, err := c.loadMetadata(dir, "")
	if err != nil {
		return err
	}
	matched := make([]bool, len(items))

	for _, f := range files {
		path := filepath.Join(dir, f)
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		name := TrimPNG(filepath.ToSlash(rel))
		if prev, dup := c.texSeen[name]; dup {
			return fmt.Errorf("%w: texture %q from both %s and %s", core.ErrDuplicateName, name, prev, path)
		}
		c.texSeen[name] = path

		base := TrimPNG(f)
		var geometry []metadata.GeometryItem
		for i, it := range items {
			owner := it.Owner()
			if owner == "" || owner == base || owner == name {
				geometry = append(geometry, it.WithOwner(name))
				matched[i] = true
			}
		}

		c.catalog.Statics = append(c.catalog.Statics, &metadata.StaticTexture{
			AtlasItem: metadata.AtlasItem{
				Name:     name,
				Geometry: geometry,
			},
			Path: path,
		})
	}

	for i, ok := range matched {
		if !ok {
			core.LogDebug("%s: no image named %q, dropping %s", dir, items[i].Owner(), loaders.FormatItem(items[i]))
			c.catalog.OrphanItems++
		}
	}
	return nil
}

func (c *classifier) loadMetadata(dir, context string) ([]metadata.GeometryItem, error) {
	path := filepath.Join(dir, c.opts.MetadataFilename)
	res, err := c.meta.Load(path, metadata.ResourceTypeText, &metadata.TextResourceParams{Context: context})
	if err != nil {
		return nil, err
	}
	data := res.Data.(*metadata.TextResourceData)
	c.catalog.SkippedLines += data.Skipped
	return data.Items, nil
}

func IsPNG(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".png")
}

// TrimPNG strips a trailing .png extension in any letter case.
func TrimPNG(name string) string {
	if IsPNG(name) {
		return name[:len(name)-len(".png")]
	}
	return name
}

// IsAnimationDir reports whether any of the given file names looks like a
// numbered frame.
func IsAnimationDir(files []string) bool {
	for _, f := range files {
		if frameFilePattern.MatchString(f) {
			return true
		}
	}
	return false
}

// SplitFramerate separates a trailing number from an animation name. ok is
// false when the name has no trailing digits.
func SplitFramerate(raw string) (name string, framerate int, ok bool) {
	m := framerateSuffixRe.FindStringSubmatch(raw)
	if m == nil {
		return raw, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return raw, 0, false
	}
	return m[1], n, true
}

// FrameNumber concatenates every digit of a file name into one integer.
// Names without digits map to 0.
func FrameNumber(name string) int {
	var b strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return math.MaxInt
	}
	return n
}

// SortFrames orders frame file names by FrameNumber, keeping the listing
// order for ties.
func SortFrames(files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		return FrameNumber(files[i]) < FrameNumber(files[j])
	})
}
