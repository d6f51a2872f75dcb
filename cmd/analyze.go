package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/chart"
	"github.com/KaramelBytes/jknstat/internal/utils"
)

var (
	anaInput      string
	anaReport     string
	anaSheetName  string
	anaSheetIndex int
	anaDelimiter  string
	anaNoHeatmap  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute descriptive statistics and write the statistics report",
	Long: `Analyze loads the cleaned CSV (falling back to the original workbook), prints
per-column statistics and the correlation matrix, saves the correlation heatmap
into the static directory and writes the plain-text statistics report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opt, err := loadOptions(anaSheetName, anaSheetIndex, anaDelimiter)
		if err != nil {
			return err
		}
		t, src, err := loadSource(out, anaInput, opt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", src, t.Len(), t.Width())

		nums, cats := analysis.Describe(t)
		analysis.PrintHeading(out, "NUMERIC COLUMNS")
		if len(nums) == 0 {
			fmt.Fprintln(out, "(no numeric columns)")
		}
		for _, s := range nums {
			analysis.PrintNumericDetail(out, s)
		}
		analysis.PrintHeading(out, "CATEGORICAL COLUMNS")
		if len(cats) == 0 {
			fmt.Fprintln(out, "(no categorical columns)")
		}
		for _, s := range cats {
			analysis.PrintCategoricalDetail(out, s)
		}

		var written []string
		analysis.PrintHeading(out, "CORRELATION")
		m, err := analysis.Correlation(t)
		switch {
		case errors.Is(err, analysis.ErrInsufficientNumeric):
			fmt.Fprintln(out, "⚠ Correlation needs at least two numeric columns, skipped")
		case err != nil:
			return fmt.Errorf("correlation: %w", err)
		default:
			analysis.PrintCorrelation(out, m)
			if !anaNoHeatmap {
				r := chart.NewRenderer(cfg.StaticDir, cfg.DPI)
				p, err := r.CorrelationHeatmap(m, "correlation_matrix.png")
				if err != nil {
					return fmt.Errorf("correlation heatmap: %w", err)
				}
				fmt.Fprintf(out, "✓ Heatmap saved to %s\n", p)
				written = append(written, p)
			}
		}

		report := cfg.ReportFile
		if anaReport != "" {
			report = anaReport
		}
		if err := utils.SafeWriteFile(report, []byte(analysis.StatisticsReport(t))); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "✓ Report saved to %s\n", report)
		written = append(written, report)
		recordArtifacts("analyze", src, written...)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaInput, "input", "i", "", "input file (default: cleaned CSV, then original workbook)")
	analyzeCmd.Flags().StringVarP(&anaReport, "report", "o", "", "statistics report path (default from config)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX sheet name")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 0, "XLSX sheet index (1-based)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: auto)")
	analyzeCmd.Flags().BoolVar(&anaNoHeatmap, "no-heatmap", false, "skip saving the correlation heatmap PNG")
}
