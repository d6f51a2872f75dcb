package server

import (
	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
	"github.com/KaramelBytes/jknstat/internal/plotly"
)

const topValuesN = 5

// BasicStats is the dataset-wide summary.
type BasicStats struct {
	TotalRows          int `json:"total_rows"`
	TotalColumns       int `json:"total_columns"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
	MissingValues      int `json:"missing_values"`
}

// NumericStats summarises one numeric column.
type NumericStats struct {
	Count  int           `json:"count"`
	Mean   plotly.Number `json:"mean"`
	Median plotly.Number `json:"median"`
	Std    plotly.Number `json:"std"`
	Min    plotly.Number `json:"min"`
	Max    plotly.Number `json:"max"`
}

// CategoricalStats summarises one categorical column.
type CategoricalStats struct {
	Count     int            `json:"count"`
	Unique    int            `json:"unique"`
	TopValues map[string]int `json:"top_values"`

	top []analysis.CategoryCount
}

// ColumnStats groups per-column summaries by kind.
type ColumnStats struct {
	Numeric     map[string]NumericStats     `json:"numeric"`
	Categorical map[string]CategoricalStats `json:"categorical"`
}

// Stats is the body of /api/stats.
type Stats struct {
	Basic   BasicStats  `json:"basic"`
	Columns ColumnStats `json:"columns"`
}

// computeStats runs once at startup since the table never changes.
func computeStats(t *dataset.Table) Stats {
	s := Stats{
		Basic: BasicStats{
			TotalRows:          t.Len(),
			TotalColumns:       t.Width(),
			NumericColumns:     len(t.NumericColumns()),
			CategoricalColumns: len(t.CategoricalColumns()),
			MissingValues:      t.MissingCells(),
		},
		Columns: ColumnStats{
			Numeric:     make(map[string]NumericStats),
			Categorical: make(map[string]CategoricalStats),
		},
	}
	for _, c := range t.NumericColumns() {
		d, err := analysis.DescribeNumeric(c)
		if err != nil {
			continue
		}
		s.Columns.Numeric[c.Name] = NumericStats{
			Count:  d.Count,
			Mean:   plotly.Number(d.Mean),
			Median: plotly.Number(d.Median),
			Std:    plotly.Number(d.Std),
			Min:    plotly.Number(d.Min),
			Max:    plotly.Number(d.Max),
		}
	}
	for _, c := range t.CategoricalColumns() {
		counts := analysis.ValueCounts(c, t.Len())
		top := analysis.TopN(counts, topValuesN)
		cs := CategoricalStats{
			Count:     c.Count(),
			Unique:    len(counts),
			TopValues: make(map[string]int, len(top)),
			top:       top,
		}
		for _, cc := range top {
			cs.TopValues[cc.Value] = cc.Count
		}
		s.Columns.Categorical[c.Name] = cs
	}
	return s
}
