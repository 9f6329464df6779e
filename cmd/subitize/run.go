package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"

	"github.com/MarkTee/Psych403-FinalProject/display"
	"github.com/MarkTee/Psych403-FinalProject/engine"
	"github.com/MarkTee/Psych403-FinalProject/trigger"
)

const triggerBaudrate = 9600

var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Run the experiment and save the results",
	SilenceUsage: true,
	RunE:         runExperiment,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Int("subject", 0, "Subject number (asked via a dialog when omitted)")
	f.Int("blocks", 3, "Number of blocks")
	f.Int("trials", 10, "Trials per block")
	f.Int("max-circles", 10, "Maximum number of circles per trial")
	f.Bool("balanced", false, "Show each circle count exactly once per block, in shuffled order")
	f.Int64("seed", 0, "Random seed (0 uses the current time)")
	f.Uint64("fixation-ms", 1000, "Fixation cross duration")
	f.Uint64("stimulus-ms", 1000, "Maximum stimulus visibility")
	f.Uint64("block-pause-ms", 2000, "Pause before each block starts")
	f.Int("width", 600, "Window width")
	f.Int("height", 600, "Window height")
	f.Int("frame-padding", 200, "Padding between window edge and stimulus frame")
	f.Int("circle-radius", 9, "Circle radius in pixels")
	f.Bool("fullscreen", false, "Enable fullscreen")
	f.String("font", "", "TTF font file (auto-detected when empty)")
	f.Int("font-size", 24, "Font size")
	f.String("data-dir", "data", "Directory for results files")
	f.String("trigger", "", "DLP-IO8-G trigger device (e.g. /dev/ttyUSB0)")
	f.String("bg-color", "0,0,0,255", "Background color (R,G,B,A)")
	f.String("circle-color", "255,255,255,255", "Circle color (R,G,B,A)")
	f.String("text-color", "255,255,255,255", "Text color (R,G,B,A)")
	f.String("fixation-color", "255,255,255,255", "Fixation color (R,G,B,A)")
	f.String("save-config", "", "Write the effective config to this YAML file before running")

	// Bare `subitize` behaves as `subitize run`.
	rootCmd.RunE = runCmd.RunE
	rootCmd.SilenceUsage = true
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	setupLogging(cmd)

	if cfg.Subject == 0 {
		subject, err := askSubject()
		if err != nil {
			return err
		}
		cfg.Subject = subject
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save-config"); path != "" {
		if err := cfg.SaveFile(path); err != nil {
			return err
		}
	}

	win, err := display.Open(display.Options{
		Width:        cfg.WindowWidth,
		Height:       cfg.WindowHeight,
		Fullscreen:   cfg.Fullscreen,
		FontPath:     cfg.FontFile,
		FontSize:     cfg.FontSize,
		FramePadding: cfg.FramePadding,
		CircleRadius: cfg.CircleRadius,
		Background:   cfg.BGColor,
		Text:         cfg.TextColor,
		Fixation:     cfg.FixationColor,
		Circle:       cfg.CircleColor,
		Frame:        cfg.TextColor,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	var opts []engine.Option
	if cfg.TriggerDevice != "" {
		port, err := trigger.Open(cfg.TriggerDevice, triggerBaudrate, 1)
		if err != nil {
			return err
		}
		defer port.Close()
		opts = append(opts, engine.WithTrigger(port))
	}

	runner := engine.NewRunner(cfg, win, opts...)
	records, err := runner.Run()
	aborted := errors.Is(err, engine.ErrAborted)
	if err != nil && !aborted {
		return err
	}

	if len(records) > 0 {
		if err := engine.Summarize(records).WriteText(os.Stdout); err != nil {
			return err
		}
		path := engine.ResultsPath(cfg.DataDir, cfg.Subject, time.Now())
		if err := engine.SaveResults(path, records); err != nil {
			return err
		}
		fmt.Printf("\nResults saved to %s\n", path)
	}

	if aborted {
		slog.Warn("experiment aborted by participant", "completed_trials", len(records))
		return engine.ErrAborted
	}
	return nil
}

// applyFlags overrides config-file values with any flag set on the command
// line.
func applyFlags(cmd *cobra.Command, cfg *engine.Config) {
	f := cmd.Flags()
	if f.Changed("subject") {
		cfg.Subject, _ = f.GetInt("subject")
	}
	if f.Changed("blocks") {
		cfg.Blocks, _ = f.GetInt("blocks")
	}
	if f.Changed("trials") {
		cfg.TrialsPerBlock, _ = f.GetInt("trials")
	}
	if f.Changed("max-circles") {
		cfg.MaxCircles, _ = f.GetInt("max-circles")
	}
	if f.Changed("balanced") {
		cfg.Balanced, _ = f.GetBool("balanced")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("fixation-ms") {
		cfg.FixationMS, _ = f.GetUint64("fixation-ms")
	}
	if f.Changed("stimulus-ms") {
		cfg.StimulusMS, _ = f.GetUint64("stimulus-ms")
	}
	if f.Changed("block-pause-ms") {
		cfg.BlockPauseMS, _ = f.GetUint64("block-pause-ms")
	}
	if f.Changed("width") {
		cfg.WindowWidth, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.WindowHeight, _ = f.GetInt("height")
	}
	if f.Changed("frame-padding") {
		cfg.FramePadding, _ = f.GetInt("frame-padding")
	}
	if f.Changed("circle-radius") {
		cfg.CircleRadius, _ = f.GetInt("circle-radius")
	}
	if f.Changed("fullscreen") {
		cfg.Fullscreen, _ = f.GetBool("fullscreen")
	}
	if f.Changed("font") {
		cfg.FontFile, _ = f.GetString("font")
	}
	if f.Changed("font-size") {
		cfg.FontSize, _ = f.GetInt("font-size")
	}
	if f.Changed("data-dir") {
		cfg.DataDir, _ = f.GetString("data-dir")
	}
	if f.Changed("trigger") {
		cfg.TriggerDevice, _ = f.GetString("trigger")
	}
	if f.Changed("bg-color") {
		s, _ := f.GetString("bg-color")
		cfg.BGColor = engine.ParseColor(s)
	}
	if f.Changed("circle-color") {
		s, _ := f.GetString("circle-color")
		cfg.CircleColor = engine.ParseColor(s)
	}
	if f.Changed("text-color") {
		s, _ := f.GetString("text-color")
		cfg.TextColor = engine.ParseColor(s)
	}
	if f.Changed("fixation-color") {
		s, _ := f.GetString("fixation-color")
		cfg.FixationColor = engine.ParseColor(s)
	}
}

// askSubject collects the subject number via a native dialog, like the
// original experiment's participant-info box.
func askSubject() (int, error) {
	input, err := zenity.Entry("Subject number:",
		zenity.Title("Experiment Info"),
		zenity.EntryText("1"))
	if err != nil {
		return 0, goerr.Wrap(err, "subject number dialog failed")
	}
	subject, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || subject < 1 {
		return 0, goerr.New("subject number must be a positive integer", goerr.V("input", input))
	}
	return subject, nil
}
