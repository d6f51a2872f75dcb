package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

// IQRFactor scales the interquartile range when deriving outlier bounds.
const IQRFactor = 1.5

// MissingInfo reports missing cells of one column.
type MissingInfo struct {
	Column  string
	Count   int
	Percent float64
}

// OutlierInfo reports IQR outliers of one numeric column.
type OutlierInfo struct {
	Column  string
	Count   int
	Percent float64
	Lower   float64
	Upper   float64
}

// CheckMissing lists columns with missing cells, most affected first.
func CheckMissing(t *dataset.Table) []MissingInfo {
	var out []MissingInfo
	for _, c := range t.Columns() {
		n := c.MissingCount()
		if n == 0 {
			continue
		}
		out = append(out, MissingInfo{Column: c.Name, Count: n, Percent: percent(n, t.Len())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// CheckDuplicates counts rows that repeat an earlier row in every column.
func CheckDuplicates(t *dataset.Table) int {
	seen := make(map[string]struct{}, t.Len())
	dups := 0
	for i := 0; i < t.Len(); i++ {
		k := t.RowKey(i)
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

// IQRBounds returns Q1 - 1.5*IQR and Q3 + 1.5*IQR of vals. ok is false when
// vals is empty.
func IQRBounds(vals []float64) (lower, upper float64, ok bool) {
	if len(vals) == 0 {
		return math.NaN(), math.NaN(), false
	}
	q1 := Quantile(vals, 0.25)
	q3 := Quantile(vals, 0.75)
	iqr := q3 - q1
	return q1 - IQRFactor*iqr, q3 + IQRFactor*iqr, true
}

// DetectOutliers lists numeric columns holding values outside their IQR bounds.
func DetectOutliers(t *dataset.Table) []OutlierInfo {
	var out []OutlierInfo
	for _, c := range t.NumericColumns() {
		lower, upper, ok := IQRBounds(c.Floats())
		if !ok {
			continue
		}
		n := 0
		for i := 0; i < c.Len(); i++ {
			v := c.Float(i)
			if v < lower || v > upper {
				n++
			}
		}
		if n > 0 {
			out = append(out, OutlierInfo{Column: c.Name, Count: n, Percent: percent(n, t.Len()), Lower: lower, Upper: upper})
		}
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
