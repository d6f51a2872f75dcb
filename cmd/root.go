package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/jknstat/internal/config"
	"github.com/KaramelBytes/jknstat/internal/logging"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "jknstat",
	Short: "Clean, analyze and chart the JKN outpatient participant table",
	Long: `jknstat loads the JKN outpatient participant table (XLSX or CSV), cleans missing
values, duplicates and outliers, writes descriptive statistics, renders PNG and
interactive charts, and serves a small web dashboard over the result.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jknstat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: cli|text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if rootCmd.PersistentFlags().Changed("log-format") {
		format = flagLogFormat
	}
	if err := logging.Setup(os.Stderr, format, level); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		_ = logging.Setup(os.Stderr, "cli", "info")
	}
}
