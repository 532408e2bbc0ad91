package core

import "fmt"

// BuildMetrics collects counters for a single atlas build.
type BuildMetrics struct {
	Animations       int
	StaticTextures   int
	Frames           int
	ResizedFrames    int
	GeometryItems    int
	SkippedLines     int
	OrphanItems      int
	OverflowingItems int
	AtlasWidth       int
	AtlasHeight      int
	UsedArea         int
	ElapsedMS        float64
}

func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{}
}

// FillRatio is the fraction of the atlas covered by packed regions.
func (m *BuildMetrics) FillRatio() float64 {
	total := m.AtlasWidth * m.AtlasHeight
	if total == 0 {
		return 0
	}
	return float64(m.UsedArea) / float64(total)
}

func (m *BuildMetrics) String() string {
	return fmt.Sprintf("%d animations (%d frames, %d resized), %d tiles, %d geometry items, %d skipped lines, %d orphan items, %d overflowing items, atlas %dx%d (%.1f%% filled) in %.1fms",
		m.Animations, m.Frames, m.ResizedFrames, m.StaticTextures, m.GeometryItems,
		m.SkippedLines, m.OrphanItems, m.OverflowingItems, m.AtlasWidth, m.AtlasHeight, m.FillRatio()*100, m.ElapsedMS)
}
