/*
anima-atlas packs a tree of loose PNG frames into a single atlas image and
writes a text manifest describing where every asset landed.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-atlas/engine"
	"github.com/spaghettifunk/anima-atlas/engine/assets/loaders"
	"github.com/spaghettifunk/anima-atlas/engine/core"
	"github.com/spaghettifunk/anima-atlas/engine/systems"
)

const version = "0.2.0"

var (
	configPath       string
	atlasPath        string
	manifestPath     string
	minWidth         int
	maxWidth         int
	framerate        int
	metadataFilename string
	resizeMode       string
	workers          int
	logLevel         string
	watch            bool
	rootCmd          *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "anima-atlas [source-dir]",
		Short:         "Pack loose PNG frames into a texture atlas",
		Long:          `Pack a directory tree of PNG images and numbered animation frames into one atlas image plus a text manifest.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          buildAtlas,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a TOML config file")
	rootCmd.Flags().StringVarP(&atlasPath, "atlas", "o", "", "Output path of the atlas image")
	rootCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Output path of the manifest")
	rootCmd.Flags().IntVar(&minWidth, "min-width", 0, "Minimum atlas width (power of two)")
	rootCmd.Flags().IntVar(&maxWidth, "max-width", 0, "Maximum atlas width (power of two)")
	rootCmd.Flags().IntVar(&framerate, "framerate", 0, "Framerate of animations without a numeric suffix")
	rootCmd.Flags().StringVar(&metadataFilename, "metadata-file", "", "Name of the per-directory geometry file")
	rootCmd.Flags().StringVar(&resizeMode, "resize", "", "How smaller frames are enlarged (pad, scale)")
	rootCmd.Flags().IntVarP(&workers, "workers", "j", 0, "Number of concurrent image decoders")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild whenever the source tree changes")

	inspectCmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Validate a manifest and print a YAML summary",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectManifest,
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("anima-atlas %s\n", version)
		},
	}
	rootCmd.AddCommand(inspectCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		core.LogError("%s", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the optional config file and the flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*engine.ApplicationConfig, error) {
	cfg := engine.DefaultApplicationConfig()
	if configPath != "" {
		var err error
		if cfg, err = engine.LoadApplicationConfig(configPath); err != nil {
			return nil, err
		}
	}

	if len(args) == 1 {
		cfg.SourceDir = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("atlas") {
		cfg.AtlasPath = atlasPath
	}
	if flags.Changed("manifest") {
		cfg.ManifestPath = manifestPath
	}
	if flags.Changed("min-width") {
		cfg.MinAtlasWidth = minWidth
	}
	if flags.Changed("max-width") {
		cfg.MaxAtlasWidth = maxWidth
	}
	if flags.Changed("framerate") {
		cfg.DefaultFramerate = framerate
	}
	if flags.Changed("metadata-file") {
		cfg.MetadataFilename = metadataFilename
	}
	if flags.Changed("resize") {
		mode, err := loaders.ParseResizeMode(resizeMode)
		if err != nil {
			return nil, err
		}
		cfg.ResizeMode = mode
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-level") {
		lvl, err := core.ParseLogLevel(logLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func buildAtlas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.SourceDir == "" {
		return fmt.Errorf("%w: pass a source directory or set source in the config file", core.ErrInvalidConfig)
	}

	e, err := engine.New(cfg)
	if err != nil {
		return err
	}

	if !watch {
		if _, err := e.Build(); err != nil {
			return err
		}
		core.LogInfo("Done!")
		return nil
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	stop := make(chan struct{})
	go func() {
		<-sigCh
		close(stop)
	}()

	return e.Watch(stop)
}

func inspectManifest(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := systems.ReadManifest(f)
	if err != nil {
		return err
	}
	report := m.Report()
	if err := report.WriteYAML(cmd.OutOrStdout()); err != nil {
		return err
	}
	if !report.Valid {
		return fmt.Errorf("%s", report.Problem)
	}
	return nil
}
