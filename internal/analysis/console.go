package analysis

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

var headingColor = color.New(color.FgCyan, color.Bold)

// PrintHeading writes a ruled section title.
func PrintHeading(w io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	headingColor.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}

// PrintInfo lists every column with its kind and non-null count.
func PrintInfo(w io.Writer, t *dataset.Table) {
	fmt.Fprintf(w, "%d rows x %d columns\n", t.Len(), t.Width())
	tw := newTable(w, "#", "Column", "Non-Null", "Kind")
	for i, c := range t.Columns() {
		tw.Append([]string{strconv.Itoa(i), c.Name, strconv.Itoa(c.Count()), string(c.Kind)})
	}
	tw.Render()
}

// PrintDescribe writes count/mean/std/min/quartiles/max for numeric columns.
func PrintDescribe(w io.Writer, nums []NumericSummary) {
	if len(nums) == 0 {
		fmt.Fprintln(w, "No numeric columns.")
		return
	}
	tw := newTable(w, "Column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	for _, s := range nums {
		tw.Append([]string{s.Column, strconv.Itoa(s.Count), num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Q2), num(s.Q3), num(s.Max)})
	}
	tw.Render()
}

// PrintMissing writes the missing-value table, or a note when there is none.
func PrintMissing(w io.Writer, missing []MissingInfo) {
	if len(missing) == 0 {
		fmt.Fprintln(w, "✓ No missing values")
		return
	}
	tw := newTable(w, "Column", "Missing", "Percent")
	for _, m := range missing {
		tw.Append([]string{m.Column, strconv.Itoa(m.Count), fmt.Sprintf("%.2f%%", m.Percent)})
	}
	tw.Render()
}

// PrintOutliers writes the IQR outlier table, or a note when there is none.
func PrintOutliers(w io.Writer, outliers []OutlierInfo) {
	if len(outliers) == 0 {
		fmt.Fprintln(w, "✓ No outliers detected")
		return
	}
	tw := newTable(w, "Column", "Count", "Percent", "Lower", "Upper")
	for _, o := range outliers {
		tw.Append([]string{o.Column, strconv.Itoa(o.Count), fmt.Sprintf("%.2f%%", o.Percent), num(o.Lower), num(o.Upper)})
	}
	tw.Render()
}

// PrintNumericDetail writes every statistic of one numeric column.
func PrintNumericDetail(w io.Writer, s NumericSummary) {
	headingColor.Fprintf(w, "\n%s\n", s.Column)
	rows := [][2]string{
		{"Count", strconv.Itoa(s.Count)},
		{"Mean", num(s.Mean)},
		{"Median", num(s.Median)},
		{"Mode", num(s.Mode)},
		{"Std Dev", num(s.Std)},
		{"Variance", num(s.Var)},
		{"Min", num(s.Min)},
		{"Q1 (25%)", num(s.Q1)},
		{"Q2 (50%)", num(s.Q2)},
		{"Q3 (75%)", num(s.Q3)},
		{"Max", num(s.Max)},
		{"Range", num(s.Range)},
		{"IQR", num(s.IQR)},
		{"Skewness", num(s.Skewness)},
		{"Kurtosis", num(s.Kurtosis)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %-14s: %s\n", r[0], r[1])
	}
}

// PrintCategoricalDetail writes count, unique, mode and the top values.
func PrintCategoricalDetail(w io.Writer, s CategoricalSummary) {
	headingColor.Fprintf(w, "\n%s\n", s.Column)
	fmt.Fprintf(w, "  %-14s: %d\n", "Count", s.Count)
	fmt.Fprintf(w, "  %-14s: %d\n", "Unique", s.Unique)
	fmt.Fprintf(w, "  %-14s: %s\n", "Mode", s.Mode)
	if len(s.Top) == 0 {
		return
	}
	fmt.Fprintf(w, "  Top %d values:\n", len(s.Top))
	for _, cc := range s.Top {
		fmt.Fprintf(w, "    - %s: %d (%.2f%%)\n", cc.Value, cc.Count, cc.Percent)
	}
}

// PrintCorrelation writes the correlation matrix with two decimals.
func PrintCorrelation(w io.Writer, m *CorrMatrix) {
	header := append([]string{""}, m.Columns...)
	tw := newTable(w, header...)
	for i, name := range m.Columns {
		row := []string{name}
		for j := range m.Columns {
			row = append(row, fixed2(m.Values[i][j]))
		}
		tw.Append(row)
	}
	tw.Render()
	if pairs := m.StrongPairs(0.7); len(pairs) > 0 {
		fmt.Fprintln(w, "Strong correlations (|r| >= 0.70):")
		for _, p := range pairs {
			fmt.Fprintf(w, "  - %s ~ %s: %.3f\n", p.A, p.B, p.R)
		}
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
