package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Frame converts the table to a gota DataFrame. Missing cells become NaN.
func (t *Table) Frame() dataframe.DataFrame {
	ss := make([]series.Series, 0, len(t.columns))
	for _, c := range t.columns {
		vals := make([]string, c.Len())
		for i := range vals {
			if c.IsMissing(i) {
				vals[i] = "NaN"
			} else {
				vals[i] = c.String(i)
			}
		}
		typ := series.String
		if c.Kind == Numeric {
			typ = series.Float
		}
		ss = append(ss, series.New(vals, typ, c.Name))
	}
	return dataframe.New(ss...)
}

// Preview renders the first n rows as a text table.
func (t *Table) Preview(n int) string {
	if n > t.rows {
		n = t.rows
	}
	if n <= 0 || len(t.columns) == 0 {
		return "(empty)"
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Frame().Subset(idx).String()
}
