package engine

import (
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/spaghettifunk/anima-atlas/engine/assets"
	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/renderer"
	"github.com/spaghettifunk/anima-atlas/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-atlas/engine/systems"
)

type Stage uint8

const (
	// Engine has not run a build yet
	EngineStageUninitialized Stage = iota
	// Walking the source tree
	EngineStageClassifying
	// Decoding images
	EngineStageLoading
	// Assigning atlas coordinates
	EngineStagePacking
	// Compositing the atlas image
	EngineStageRendering
	// Writing the atlas and manifest
	EngineStageWriting
	// Last build finished successfully
	EngineStageDone
	// Last build failed
	EngineStageFailed
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageClassifying:
		return "classifying"
	case EngineStageLoading:
		return "loading"
	case EngineStagePacking:
		return "packing"
	case EngineStageRendering:
		return "rendering"
	case EngineStageWriting:
		return "writing"
	case EngineStageDone:
		return "done"
	case EngineStageFailed:
		return "failed"
	}
	return "unknown"
}

type Engine struct {
	currentStage Stage
	config       *ApplicationConfig
	packer       *systems.AtlasPacker
	renderer     *renderer.AtlasRenderer
	resources    *systems.ResourceSystem
	clock        *core.Clock
}

// BuildResult describes one completed build.
type BuildResult struct {
	BuildID    string
	Layout     *systems.Layout
	Metrics    *core.BuildMetrics
	Animations []*metadata.AnimationSequence
	Statics    []*metadata.StaticTexture
}

func New(cfg *ApplicationConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel)

	packer, err := systems.NewAtlasPacker(cfg.MinAtlasWidth, cfg.MaxAtlasWidth)
	if err != nil {
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		packer:       packer,
		renderer:     renderer.NewAtlasRenderer(),
		resources:    systems.NewResourceSystem(),
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Build runs the whole pipeline from scratch. On error nothing is written.
func (e *Engine) Build() (*BuildResult, error) {
	res, err := e.build()
	if err != nil {
		e.currentStage = EngineStageFailed
		return nil, err
	}
	e.currentStage = EngineStageDone
	return res, nil
}

func (e *Engine) build() (*BuildResult, error) {
	id := core.NewBuildID()
	metrics := core.NewBuildMetrics()
	e.clock.Start()
	defer e.clock.Stop()

	e.currentStage = EngineStageClassifying
	core.LogInfo("[%s] collecting assets from %s...", id, e.config.SourceDir)
	catalog, err := assets.Classify(e.config.SourceDir, assets.ClassifyOptions{
		DefaultFramerate: e.config.DefaultFramerate,
		MetadataFilename: e.config.MetadataFilename,
		Loader:           e.resources,
		Exclude:          e.outputs(),
	})
	if err != nil {
		return nil, err
	}
	if catalog.Empty() {
		return nil, fmt.Errorf("%w under %s", core.ErrNoAssets, e.config.SourceDir)
	}
	metrics.SkippedLines = catalog.SkippedLines
	metrics.OrphanItems = catalog.OrphanItems
	core.LogInfo("[%s] found %d static images and %d animations", id, len(catalog.Statics), len(catalog.Animations))
	e.clock.Lap("classify")

	e.currentStage = EngineStageLoading
	if err := e.load(catalog, metrics); err != nil {
		return nil, err
	}
	e.clock.Lap("load")

	e.currentStage = EngineStagePacking
	layout := e.packer.Pack(catalog.Animations, catalog.Statics)
	e.clock.Lap("pack")

	e.currentStage = EngineStageRendering
	atlas, err := e.renderer.Render(layout.Width, layout.Height, catalog.Animations, catalog.Statics)
	if err != nil {
		return nil, err
	}
	e.clock.Lap("render")

	e.currentStage = EngineStageWriting
	err = e.renderer.WriteOutputs(e.config.AtlasPath, e.config.ManifestPath, atlas, func(w io.Writer) error {
		return systems.WriteManifest(w, catalog.Animations, catalog.Statics)
	})
	if err != nil {
		return nil, err
	}
	e.clock.Lap("write")
	core.LogInfo("[%s] saved atlas to %s and manifest to %s", id, e.config.AtlasPath, e.config.ManifestPath)

	e.clock.Update()
	for _, l := range e.clock.Laps() {
		core.LogDebug("[%s] %s took %s", id, l.Name, l.Duration)
	}
	metrics.Animations = len(catalog.Animations)
	metrics.StaticTextures = len(catalog.Statics)
	metrics.OverflowingItems = len(layout.Overflows)
	metrics.AtlasWidth = layout.Width
	metrics.AtlasHeight = layout.Height
	metrics.UsedArea = layout.UsedArea
	metrics.ElapsedMS = float64(e.clock.Elapsed().Microseconds()) / 1000
	for _, a := range catalog.Animations {
		metrics.GeometryItems += len(a.Geometry)
	}
	for _, t := range catalog.Statics {
		metrics.GeometryItems += len(t.Geometry)
	}
	core.LogInfo("[%s] %s", id, metrics)

	return &BuildResult{
		BuildID:    id,
		Layout:     layout,
		Metrics:    metrics,
		Animations: catalog.Animations,
		Statics:    catalog.Statics,
	}, nil
}

// load decodes every image on the job system, each into its own slot.
func (e *Engine) load(catalog *assets.Catalog, metrics *core.BuildMetrics) error {
	var tasks []metadata.JobTask

	for _, anim := range catalog.Animations {
		anim.Frames = make([]image.Image, anim.FrameCount)
		for i, path := range anim.FramePaths {
			tasks = append(tasks, metadata.JobTask{
				JobType: metadata.JOB_TYPE_RESOURCE_LOAD,
				Name:    path,
				OnStart: func() error {
					img, err := e.resources.LoadImage(path)
					if err != nil {
						return err
					}
					anim.Frames[i] = img
					return nil
				},
			})
		}
	}
	for _, tex := range catalog.Statics {
		tasks = append(tasks, metadata.JobTask{
			JobType: metadata.JOB_TYPE_RESOURCE_LOAD,
			Name:    tex.Path,
			OnStart: func() error {
				img, err := e.resources.LoadImage(tex.Path)
				if err != nil {
					return err
				}
				tex.Image = img
				b := img.Bounds()
				tex.Width, tex.Height = b.Dx(), b.Dy()
				return nil
			},
		})
	}

	if err := systems.RunAll(e.config.Workers, tasks); err != nil {
		return err
	}

	mode, _ := loaders.ParseResizeMode(string(e.config.ResizeMode))
	for _, anim := range catalog.Animations {
		anim.Width, anim.Height = loaders.MaxSize(anim.Frames)
		for _, i := range loaders.NormalizeFrames(anim.Frames, anim.Width, anim.Height, mode) {
			core.LogInfo("resizing frame %d of %s to match dimensions %dx%d", i, anim.Name, anim.Width, anim.Height)
			metrics.ResizedFrames++
		}
		metrics.Frames += anim.FrameCount
	}
	return nil
}

func (e *Engine) outputs() []string {
	var out []string
	for _, p := range []string{e.config.AtlasPath, e.config.ManifestPath} {
		if abs, err := filepath.Abs(p); err == nil {
			out = append(out, abs)
		}
	}
	return out
}

// Watch builds once and then rebuilds from scratch whenever an asset under
// the source directory changes, until stop is closed. Failed builds are
// logged and do not end the watch.
func (e *Engine) Watch(stop <-chan struct{}) error {
	am, err := assets.NewAssetManager(e.config.MetadataFilename, e.outputs())
	if err != nil {
		return err
	}
	defer am.Shutdown()
	if err := am.Initialize(e.config.SourceDir); err != nil {
		return err
	}

	core.LogInfo("watching %d asset files under %s", len(am.Assets()), e.config.SourceDir)
	if _, err := e.Build(); err != nil {
		core.LogError("build failed: %s", err)
	}

	for {
		select {
		case <-stop:
			return nil
		case changed := <-am.Changes():
			core.LogInfo("%d change(s) detected, rebuilding", len(changed))
			if _, err := e.Build(); err != nil {
				core.LogError("build failed: %s", err)
			}
		case err := <-am.Errors():
			core.LogWarn("watcher: %s", err)
		}
	}
}
