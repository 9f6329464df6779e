package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarkTee/Psych403-FinalProject/engine"
)

const defaultConfigFile = ".subitize.yaml"

var rootCmd = &cobra.Command{
	Use:   "subitize",
	Short: "Subitize runs a circle-counting subitizing experiment",
	Long: `Subitize measures how quickly and accurately a participant can count
small sets of circles. Each trial shows a fixation cross, then 1-10 randomly
placed circles for up to one second, and records the participant's numeric
response and reaction time. Results are written as CSV under a data directory.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults to "+defaultConfigFile+" when present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the config file named by --config, or the default file if
// it exists, or falls back to the built-in defaults.
func loadConfig(cmd *cobra.Command) (*engine.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return engine.LoadFile(path)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return engine.LoadFile(defaultConfigFile)
	}
	return engine.DefaultConfig(), nil
}
