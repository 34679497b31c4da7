package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hartwell/gauge/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "gaugectl",
	Short: "Query a gauge scenario from the command line",
	Long:  "gaugectl builds gauges from a scenario file and answers queries against their determination.",
}

// Execute runs the command tree, exiting non-zero on error the way the
// teacher's benchmark/governor callers surface failures to their caller.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("scenario", "scenario.toml", "scenario file to load")
	rootCmd.PersistentFlags().Bool("verbose", false, "log determination rebuilds and invalidations")
	_ = viper.BindPFlag("scenario", rootCmd.PersistentFlags().Lookup("scenario"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("GAUGECTL")
	viper.AutomaticEnv()
}

// logger returns the telemetry logger for the current verbosity setting.
func logger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return telemetry.NewLogger(level)
}
