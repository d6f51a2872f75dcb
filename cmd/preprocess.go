package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

var (
	preInput      string
	preOutput     string
	preXLSX       string
	preMethod     string
	preSheetName  string
	preSheetIndex int
	preDelimiter  string
	prePreview    int
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Explore the raw table, fix data issues and write the cleaned CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		input := cfg.InputFile
		if preInput != "" {
			input = preInput
		}
		output := cfg.CleanedFile
		if preOutput != "" {
			output = preOutput
		}
		methodName := cfg.OutlierMethod
		if cmd.Flags().Changed("method") {
			methodName = preMethod
		}
		method, err := analysis.ParseOutlierMethod(methodName)
		if err != nil {
			return err
		}
		opt, err := loadOptions(preSheetName, preSheetIndex, preDelimiter)
		if err != nil {
			return err
		}

		t, err := dataset.Load(input, opt)
		if err != nil {
			return fmt.Errorf("load %s: %w", input, err)
		}
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", input, t.Len(), t.Width())

		analysis.PrintHeading(out, "DATA EXPLORATION")
		fmt.Fprintln(out, t.Preview(prePreview))
		analysis.PrintInfo(out, t)
		nums, _ := analysis.Describe(t)
		analysis.PrintDescribe(out, nums)

		p := analysis.NewPreprocessor(t, method)
		p.Inspect()

		analysis.PrintHeading(out, "MISSING VALUES")
		analysis.PrintMissing(out, p.Missing)
		analysis.PrintHeading(out, "DUPLICATE ROWS")
		if p.Duplicates == 0 {
			fmt.Fprintln(out, "✓ No duplicate rows")
		} else {
			fmt.Fprintf(out, "⚠ Found %d duplicate row(s)\n", p.Duplicates)
		}
		analysis.PrintHeading(out, "OUTLIERS (IQR)")
		analysis.PrintOutliers(out, p.Outliers)

		if err := p.Clean(); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		analysis.PrintHeading(out, "CLEANING")
		for _, a := range p.Imputed {
			fmt.Fprintf(out, "✓ %s: filled %d missing value(s) with %s (%s)\n", a.Column, a.Filled, a.Strategy, a.Value)
		}
		if p.DuplicatesRemoved > 0 {
			fmt.Fprintf(out, "✓ Removed %d duplicate row(s)\n", p.DuplicatesRemoved)
		}
		for _, a := range p.OutlierActions {
			if a.Affected == 0 {
				continue
			}
			verb := "capped"
			if a.Method == analysis.Remove {
				verb = "removed"
			}
			fmt.Fprintf(out, "✓ %s: %s %d outlier(s) outside [%.2f, %.2f]\n", a.Column, verb, a.Affected, a.Lower, a.Upper)
		}

		if err := p.Cleaned.WriteCSV(output); err != nil {
			return fmt.Errorf("write cleaned data: %w", err)
		}
		fmt.Fprintf(out, "✓ Cleaned data saved to %s\n", output)
		written := []string{output}
		if preXLSX != "" {
			if err := p.Cleaned.WriteXLSX(preXLSX); err != nil {
				return fmt.Errorf("write cleaned workbook: %w", err)
			}
			fmt.Fprintf(out, "✓ Cleaned workbook saved to %s\n", preXLSX)
			written = append(written, preXLSX)
		}
		recordArtifacts("preprocess", input, written...)

		analysis.PrintHeading(out, "SUMMARY")
		fmt.Fprint(out, p.PreprocessReport())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)
	preprocessCmd.Flags().StringVarP(&preInput, "input", "i", "", "input XLSX/CSV file (default from config)")
	preprocessCmd.Flags().StringVarP(&preOutput, "output", "o", "", "cleaned CSV path (default from config)")
	preprocessCmd.Flags().StringVar(&preXLSX, "xlsx", "", "also write the cleaned table to this XLSX path")
	preprocessCmd.Flags().StringVar(&preMethod, "method", "cap", "outlier handling: cap|remove")
	preprocessCmd.Flags().StringVar(&preSheetName, "sheet-name", "", "XLSX sheet name")
	preprocessCmd.Flags().IntVar(&preSheetIndex, "sheet-index", 0, "XLSX sheet index (1-based)")
	preprocessCmd.Flags().StringVar(&preDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: auto)")
	preprocessCmd.Flags().IntVar(&prePreview, "preview", 5, "rows shown in the preview")
}
