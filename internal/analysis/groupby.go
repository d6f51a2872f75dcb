package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

// GroupResult captures aggregated metrics of one group key.
type GroupResult struct {
	Key   string
	Size  int // rows in the group
	Count int // non-missing values aggregated
	Sum   float64
	Mean  float64

	order float64
}

// GroupBy aggregates valueCol per distinct key of keyCol. Rows with a missing
// key are dropped. Groups are ordered by key: numerically for numeric keys,
// lexically otherwise.
func GroupBy(t *dataset.Table, keyCol, valueCol string) ([]GroupResult, error) {
	key, err := t.Column(keyCol)
	if err != nil {
		return nil, err
	}
	val, err := t.Column(valueCol)
	if err != nil {
		return nil, err
	}
	if val.Kind != dataset.Numeric {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, valueCol)
	}
	idx := make(map[string]int)
	var groups []GroupResult
	var values [][]float64
	for i := 0; i < t.Len(); i++ {
		if key.IsMissing(i) {
			continue
		}
		k := key.String(i)
		gi, ok := idx[k]
		if !ok {
			gi = len(groups)
			idx[k] = gi
			groups = append(groups, GroupResult{Key: k, order: key.Float(i)})
			values = append(values, nil)
		}
		groups[gi].Size++
		if !val.IsMissing(i) {
			values[gi] = append(values[gi], val.Float(i))
		}
	}
	for gi := range groups {
		vs := values[gi]
		g := &groups[gi]
		g.Count = len(vs)
		g.Mean = math.NaN()
		if len(vs) == 0 {
			continue
		}
		if sum, err := stats.Sum(stats.Float64Data(vs)); err == nil {
			g.Sum = sum
		}
		if mean, err := stats.Mean(stats.Float64Data(vs)); err == nil {
			g.Mean = mean
		}
	}
	numeric := key.Kind == dataset.Numeric
	sort.SliceStable(groups, func(i, j int) bool {
		if numeric {
			return groups[i].order < groups[j].order
		}
		return groups[i].Key < groups[j].Key
	})
	return groups, nil
}

// FilterGroups keeps the groups whose key is in keys, preserving group order.
func FilterGroups(groups []GroupResult, keys []string) []GroupResult {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []GroupResult
	for _, g := range groups {
		if want[g.Key] {
			out = append(out, g)
		}
	}
	return out
}

// TopValues returns the n most frequent values of a column.
func TopValues(t *dataset.Table, col string, n int) ([]string, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	counts := TopN(ValueCounts(c, t.Len()), n)
	out := make([]string, len(counts))
	for i, cc := range counts {
		out[i] = cc.Value
	}
	return out, nil
}
