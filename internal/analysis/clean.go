package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/apex/log"

	"github.com/KaramelBytes/jknstat/internal/dataset"
)

// OutlierMethod selects how out-of-bound values are handled.
type OutlierMethod string

const (
	// Cap clips values to the IQR bounds.
	Cap OutlierMethod = "cap"
	// Remove drops rows whose value lies outside the IQR bounds.
	Remove OutlierMethod = "remove"
)

// ParseOutlierMethod accepts "cap" or "remove", case-insensitively.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch OutlierMethod(strings.ToLower(strings.TrimSpace(s))) {
	case Cap, "":
		return Cap, nil
	case Remove:
		return Remove, nil
	default:
		return "", fmt.Errorf("unsupported outlier method: %s (use cap|remove)", s)
	}
}

// ImputeAction records how one column's missing cells were filled.
type ImputeAction struct {
	Column   string
	Strategy string // median|mode
	Value    string
	Filled   int
}

// OutlierAction records how one column's outliers were handled.
type OutlierAction struct {
	Column   string
	Method   OutlierMethod
	Lower    float64
	Upper    float64
	Affected int // values clipped or rows removed
}

// ImputeMissing fills numeric columns with their median and categorical
// columns with their mode, in place. Columns without any value are left as is.
func ImputeMissing(t *dataset.Table) []ImputeAction {
	var actions []ImputeAction
	for _, c := range t.Columns() {
		missing := c.MissingCount()
		if missing == 0 {
			continue
		}
		switch c.Kind {
		case dataset.Numeric:
			vals := c.Floats()
			if len(vals) == 0 {
				log.WithField("column", c.Name).Warn("no values to compute median, leaving missing")
				continue
			}
			med := Quantile(vals, 0.5)
			for i := 0; i < c.Len(); i++ {
				if c.IsMissing(i) {
					c.SetFloat(i, med)
				}
			}
			actions = append(actions, ImputeAction{Column: c.Name, Strategy: "median", Value: dataset.FormatFloat(med), Filled: missing})
		default:
			counts := ValueCounts(c, t.Len())
			if len(counts) == 0 {
				log.WithField("column", c.Name).Warn("no values to compute mode, leaving missing")
				continue
			}
			mode := counts[0].Value
			for i := 0; i < c.Len(); i++ {
				if c.IsMissing(i) {
					c.SetString(i, mode)
				}
			}
			actions = append(actions, ImputeAction{Column: c.Name, Strategy: "mode", Value: mode, Filled: missing})
		}
	}
	return actions
}

// DropDuplicates returns a table keeping the first occurrence of every row.
func DropDuplicates(t *dataset.Table) *dataset.Table {
	seen := make(map[string]struct{}, t.Len())
	keep := make([]int, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		k := t.RowKey(i)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return t.Subset(keep)
}

// HandleOutliers applies the method column by column. Bounds are computed on
// the table as it stands when each column is visited, so earlier removals
// affect later bounds. Missing cells are never treated as outliers. t itself
// is left untouched.
func HandleOutliers(t *dataset.Table, method OutlierMethod) (*dataset.Table, []OutlierAction, error) {
	if method != Cap && method != Remove {
		return nil, nil, fmt.Errorf("unsupported outlier method: %s", method)
	}
	cur := t.Copy()
	var actions []OutlierAction
	for _, name := range t.Names() {
		c, err := cur.Column(name)
		if err != nil {
			return nil, nil, err
		}
		if c.Kind != dataset.Numeric {
			continue
		}
		lower, upper, ok := IQRBounds(c.Floats())
		if !ok {
			continue
		}
		act := OutlierAction{Column: name, Method: method, Lower: lower, Upper: upper}
		switch method {
		case Cap:
			for i := 0; i < c.Len(); i++ {
				v := c.Float(i)
				if math.IsNaN(v) {
					continue
				}
				if v < lower {
					c.SetFloat(i, lower)
					act.Affected++
				} else if v > upper {
					c.SetFloat(i, upper)
					act.Affected++
				}
			}
		case Remove:
			keep := make([]int, 0, c.Len())
			for i := 0; i < c.Len(); i++ {
				v := c.Float(i)
				if math.IsNaN(v) || (v >= lower && v <= upper) {
					keep = append(keep, i)
				}
			}
			act.Affected = c.Len() - len(keep)
			if act.Affected > 0 {
				cur = cur.Subset(keep)
			}
		}
		actions = append(actions, act)
	}
	return cur, actions, nil
}

// Preprocessor inspects a table for quality issues and produces a cleaned copy.
type Preprocessor struct {
	Original *dataset.Table
	Cleaned  *dataset.Table
	Method   OutlierMethod

	Missing    []MissingInfo
	Duplicates int
	Outliers   []OutlierInfo

	Imputed           []ImputeAction
	DuplicatesRemoved int
	OutlierActions    []OutlierAction
}

// NewPreprocessor prepares a preprocessor over t. The original table is never modified.
func NewPreprocessor(t *dataset.Table, method OutlierMethod) *Preprocessor {
	if method == "" {
		method = Cap
	}
	return &Preprocessor{Original: t, Method: method}
}

// Inspect runs the missing, duplicate and outlier checks on the original table.
func (p *Preprocessor) Inspect() {
	p.Missing = CheckMissing(p.Original)
	p.Duplicates = CheckDuplicates(p.Original)
	p.Outliers = DetectOutliers(p.Original)
}

// Clean applies each handler whose issue was found by Inspect, in the order
// missing values, duplicates, outliers.
func (p *Preprocessor) Clean() error {
	cleaned := p.Original.Copy()
	if len(p.Missing) > 0 {
		p.Imputed = ImputeMissing(cleaned)
	}
	if p.Duplicates > 0 {
		before := cleaned.Len()
		cleaned = DropDuplicates(cleaned)
		p.DuplicatesRemoved = before - cleaned.Len()
	}
	if len(p.Outliers) > 0 {
		out, actions, err := HandleOutliers(cleaned, p.Method)
		if err != nil {
			return fmt.Errorf("handle outliers: %w", err)
		}
		cleaned, p.OutlierActions = out, actions
	}
	p.Cleaned = cleaned
	return nil
}

// Run inspects and cleans.
func (p *Preprocessor) Run() error {
	p.Inspect()
	return p.Clean()
}

// RowsRemoved returns how many rows the cleaning dropped.
func (p *Preprocessor) RowsRemoved() int {
	if p.Cleaned == nil {
		return 0
	}
	return p.Original.Len() - p.Cleaned.Len()
}
