package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/jknstat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set jknstat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "input_file: %s\n", cfg.InputFile)
		fmt.Fprintf(out, "cleaned_file: %s\n", cfg.CleanedFile)
		fmt.Fprintf(out, "static_dir: %s\n", cfg.StaticDir)
		fmt.Fprintf(out, "report_file: %s\n", cfg.ReportFile)
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "sheet_index: %d\n", cfg.SheetIndex)
		fmt.Fprintf(out, "outlier_method: %s\n", cfg.OutlierMethod)
		fmt.Fprintf(out, "dpi: %d\n", cfg.DPI)
		fmt.Fprintf(out, "host: %s\n", cfg.Host)
		fmt.Fprintf(out, "port: %d\n", cfg.Port)
		fmt.Fprintf(out, "preview_rows: %d\n", cfg.PreviewRows)
		fmt.Fprintf(out, "shutdown_timeout_sec: %d\n", cfg.ShutdownTimeout)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "input_file":
			next.InputFile = val
		case "cleaned_file":
			next.CleanedFile = val
		case "static_dir":
			next.StaticDir = val
		case "report_file":
			next.ReportFile = val
		case "sheet_name":
			next.SheetName = val
		case "host":
			next.Host = val
		case "outlier_method":
			next.OutlierMethod = strings.ToLower(val)
		case "log_level":
			next.LogLevel = strings.ToLower(val)
		case "log_format":
			next.LogFormat = strings.ToLower(val)
		case "sheet_index", "dpi", "port", "preview_rows", "shutdown_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for %s: %w", key, err)
			}
			switch key {
			case "sheet_index":
				next.SheetIndex = i
			case "dpi":
				next.DPI = i
			case "port":
				next.Port = i
			case "preview_rows":
				next.PreviewRows = i
			case "shutdown_timeout_sec":
				next.ShutdownTimeout = i
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Validate(&next); err != nil {
			return err
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
