package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

const (
	heavyRule = "================================================================================"
	lightRule = "--------------------------------------------------------------------------------"
)

// StatisticsReport renders the plain-text descriptive statistics report.
func StatisticsReport(t *dataset.Table) string {
	nums, cats := Describe(t)
	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString("DESCRIPTIVE STATISTICS REPORT\n")
	b.WriteString(heavyRule + "\n\n")
	if t.Name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", t.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", t.Len(), t.Width()))

	if len(nums) > 0 {
		b.WriteString("NUMERIC COLUMNS:\n")
		b.WriteString(lightRule + "\n\n")
		for _, s := range nums {
			b.WriteString(fmt.Sprintf("%s:\n", s.Column))
			b.WriteString(fmt.Sprintf("  Count         : %d\n", s.Count))
			b.WriteString(fmt.Sprintf("  Mean          : %s\n", fixed2(s.Mean)))
			b.WriteString(fmt.Sprintf("  Median        : %s\n", fixed2(s.Median)))
			b.WriteString(fmt.Sprintf("  Std Dev       : %s\n", fixed2(s.Std)))
			b.WriteString(fmt.Sprintf("  Min           : %s\n", fixed2(s.Min)))
			b.WriteString(fmt.Sprintf("  Max           : %s\n\n", fixed2(s.Max)))
		}
	}
	if len(cats) > 0 {
		b.WriteString("\nCATEGORICAL COLUMNS:\n")
		b.WriteString(lightRule + "\n\n")
		for _, s := range cats {
			mode := s.Mode
			if mode == "" {
				mode = "-"
			}
			b.WriteString(fmt.Sprintf("%s:\n", s.Column))
			b.WriteString(fmt.Sprintf("  Unique Values : %d\n", s.Unique))
			b.WriteString(fmt.Sprintf("  Mode          : %s\n\n", mode))
		}
	}
	return b.String()
}

// PreprocessReport renders the summary of a preprocessing run.
func (p *Preprocessor) PreprocessReport() string {
	var b strings.Builder
	b.WriteString("PREPROCESSING REPORT\n")
	b.WriteString(heavyRule[:60] + "\n\n")
	b.WriteString("Original data:\n")
	b.WriteString(fmt.Sprintf("  - Rows: %d\n", p.Original.Len()))
	b.WriteString(fmt.Sprintf("  - Columns: %d\n", p.Original.Width()))
	if p.Cleaned != nil {
		b.WriteString("\nAfter preprocessing:\n")
		b.WriteString(fmt.Sprintf("  - Rows: %d\n", p.Cleaned.Len()))
		b.WriteString(fmt.Sprintf("  - Columns: %d\n", p.Cleaned.Width()))
		b.WriteString(fmt.Sprintf("  - Rows removed: %d\n", p.RowsRemoved()))
	}
	b.WriteString("\nData issue summary:\n")
	if len(p.Missing) > 0 {
		b.WriteString(fmt.Sprintf("  - Missing values: found in %d column(s)\n", len(p.Missing)))
	} else {
		b.WriteString("  - Missing values: none\n")
	}
	b.WriteString(fmt.Sprintf("  - Duplicate rows: %d\n", p.Duplicates))
	if len(p.Outliers) > 0 {
		b.WriteString(fmt.Sprintf("  - Outliers: found in %d column(s)\n", len(p.Outliers)))
	} else {
		b.WriteString("  - Outliers: none\n")
	}
	return b.String()
}

func fixed2(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
