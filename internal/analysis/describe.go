// Package analysis computes descriptive statistics, data-quality checks and
// cleaning steps over a dataset.Table.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

var (
	// ErrInsufficientNumeric is returned when an operation needs at least two numeric columns.
	ErrInsufficientNumeric = errors.New("not enough numeric columns")
	// ErrNotNumeric is returned when a numeric column is required.
	ErrNotNumeric = errors.New("column is not numeric")
)

// NumericSummary holds descriptive statistics of a numeric column. Missing
// values are skipped; undefined statistics are NaN.
type NumericSummary struct {
	Column   string
	Count    int
	Mean     float64
	Median   float64
	Mode     float64
	Std      float64
	Var      float64
	Min      float64
	Q1       float64
	Q2       float64
	Q3       float64
	Max      float64
	Range    float64
	IQR      float64
	Skewness float64
	Kurtosis float64
}

// CategoryCount is a value with its frequency. Percent is relative to the
// number of rows in the table.
type CategoryCount struct {
	Value   string
	Count   int
	Percent float64
}

// CategoricalSummary holds descriptive statistics of a categorical column.
type CategoricalSummary struct {
	Column string
	Count  int
	Unique int
	Mode   string
	Top    []CategoryCount
}

// DescribeNumeric summarizes a numeric column.
func DescribeNumeric(c *dataset.Column) (NumericSummary, error) {
	if c.Kind != dataset.Numeric {
		return NumericSummary{}, fmt.Errorf("%w: %s", ErrNotNumeric, c.Name)
	}
	vals := c.Floats()
	s := NumericSummary{Column: c.Name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Median, s.Mode, s.Std, s.Var = nan, nan, nan, nan, nan
		s.Min, s.Q1, s.Q2, s.Q3, s.Max = nan, nan, nan, nan, nan
		s.Range, s.IQR, s.Skewness, s.Kurtosis = nan, nan, nan, nan
		return s, nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(vals, nil)
	if med, err := stats.Median(stats.Float64Data(vals)); err == nil {
		s.Median = med
	} else {
		s.Median = quantile(sorted, 0.5)
	}
	s.Mode = modeFloat(sorted)
	s.Std, s.Var = math.NaN(), math.NaN()
	if len(vals) > 1 {
		s.Var = stat.Variance(vals, nil)
		s.Std = math.Sqrt(s.Var)
	}
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Q2 = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	s.Range = s.Max - s.Min
	s.IQR = s.Q3 - s.Q1
	s.Skewness, s.Kurtosis = shape(vals, s.Std)
	return s, nil
}

// shape returns the adjusted Fisher-Pearson skewness (n >= 3) and the
// bias-corrected excess kurtosis (n >= 4). Constant data yields zero for both.
func shape(vals []float64, std float64) (skew, kurt float64) {
	skew, kurt = math.NaN(), math.NaN()
	n := len(vals)
	if n >= 3 {
		if std == 0 {
			skew = 0
		} else {
			skew = stat.Skew(vals, nil)
		}
	}
	if n >= 4 {
		if std == 0 {
			kurt = 0
		} else {
			kurt = stat.ExKurtosis(vals, nil)
		}
	}
	return skew, kurt
}

// modeFloat returns the smallest of the most frequent values in sorted data.
// stats.Mode returns every tied mode, and none when all values are unique.
func modeFloat(sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	best, bestN := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestN {
			best, bestN = sorted[i], j-i
		}
		i = j
	}
	return best
}

// DescribeCategorical summarizes a column by its value frequencies. rows is
// the table length used for percentages.
func DescribeCategorical(c *dataset.Column, rows int) CategoricalSummary {
	counts := ValueCounts(c, rows)
	s := CategoricalSummary{Column: c.Name, Count: c.Count(), Unique: len(counts)}
	if len(counts) > 0 {
		s.Mode = counts[0].Value
	}
	s.Top = TopN(counts, 5)
	return s
}

// ValueCounts counts non-missing values, ordered by count descending and then
// by value ascending.
func ValueCounts(c *dataset.Column, rows int) []CategoryCount {
	freq := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		freq[c.String(i)]++
	}
	out := make([]CategoryCount, 0, len(freq))
	for v, n := range freq {
		cc := CategoryCount{Value: v, Count: n}
		if rows > 0 {
			cc.Percent = float64(n) / float64(rows) * 100
		}
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// TopN returns at most n leading entries.
func TopN(counts []CategoryCount, n int) []CategoryCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// Describe summarizes every column of the table, numeric and categorical separately.
func Describe(t *dataset.Table) ([]NumericSummary, []CategoricalSummary) {
	var nums []NumericSummary
	for _, c := range t.NumericColumns() {
		s, _ := DescribeNumeric(c)
		nums = append(nums, s)
	}
	var cats []CategoricalSummary
	for _, c := range t.CategoricalColumns() {
		cats = append(cats, DescribeCategorical(c, t.Len()))
	}
	return nums, cats
}

// quantile interpolates linearly between the closest ranks of sorted data
// (type 7, position q*(n-1)). stat.Quantile's LinInterp places ranks at q*n.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quantile returns the q-quantile of the non-missing values using linear interpolation.
func Quantile(vals []float64, q float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return quantile(sorted, q)
}
