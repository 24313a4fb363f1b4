package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/sunset"
	"github.com/spf13/cobra"
)

const (
	windowTitle = "Sunset"
	headlessTPS = 60
)

var rootCmd = &cobra.Command{
	Use:           "sunset",
	Short:         "Animated day/night scene",
	Long:          `Runs the sunset scene in a window, or headless from a JSON trigger script.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.String("config", "", "scene config YAML file")
	f.String("palette", "", "palette YAML file")
	f.String("script", "", "JSON trigger script")
	f.Bool("headless", false, "run the script without opening a window")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Bool("debug", false, "log per-frame stage statistics")
	f.Int("width", 480, "window width")
	f.Int("height", 800, "window height")
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	palettePath, _ := flags.GetString("palette")
	scriptPath, _ := flags.GetString("script")
	headless, _ := flags.GetBool("headless")
	levelName, _ := flags.GetString("log-level")
	debug, _ := flags.GetBool("debug")
	width, _ := flags.GetInt("width")
	height, _ := flags.GetInt("height")

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := sunset.NewLogger(level)

	cfg := sunset.DefaultSceneConfig()
	if configPath != "" {
		c, err := sunset.LoadSceneConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	palette := sunset.DefaultPalette()
	if palettePath != "" {
		p, err := sunset.LoadPaletteFile(palettePath)
		if err != nil {
			return err
		}
		palette = p
	}

	var script *sunset.Script
	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if script, err = sunset.LoadScript(data); err != nil {
			return err
		}
	}
	if headless && script == nil {
		return errors.New("--headless requires --script")
	}

	stage := sunset.NewSceneStage(palette)
	stage.SetDebugMode(debug, logger)
	sunset.LayoutScene(stage, float64(width), float64(height))

	director, err := sunset.NewDirector(sunset.DirectorConfig{
		Boundary: stage,
		Palette:  palette,
		Scene:    cfg,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if headless {
		return runHeadless(director, script, logger)
	}

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{
		stage:    stage,
		director: director,
		script:   script,
		width:    width,
		height:   height,
	})
}

// runHeadless steps the script at a fixed frame rate until it finishes and
// the main timeline is no longer running. Both are finite: every step
// consumes at least one frame and a running timeline ends once its duration
// has elapsed.
func runHeadless(d *sunset.Director, script *sunset.Script, logger *slog.Logger) error {
	dt := time.Second / headlessTPS
	frames := 0
	for !script.Done() || d.Sequencer().State() == sunset.StateRunning {
		script.Step(d)
		d.Update(dt)
		frames++
	}
	logger.Info("script finished", "frames", frames, "state", d.Sequencer().State(), "direction", d.Direction())
	if failures := script.Failures(); len(failures) > 0 {
		return errors.Join(failures...)
	}
	return nil
}
