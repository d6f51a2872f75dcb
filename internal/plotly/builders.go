package plotly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

const (
	// HistogramBins is the bin count used for numeric distributions.
	HistogramBins = 30
	// DistributionTop is the number of categories shown for categorical distributions.
	DistributionTop = 15
	// ComparisonTop is the number of categories shown in comparisons.
	ComparisonTop = 10
)

// Histogram bins the values of a numeric column.
func Histogram(t *dataset.Table, col string, bins int) (*Figure, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	if c.Kind != dataset.Numeric {
		return nil, fmt.Errorf("%s: %w", col, analysis.ErrNotNumeric)
	}
	return &Figure{
		Data: []Trace{{
			Type:   "histogram",
			Name:   col,
			X:      Numbers(c.Floats()),
			NBinsX: bins,
		}},
		Layout: Layout{
			Title:      title("Distribution of " + col),
			XAxis:      axis(col),
			YAxis:      axis("Frequency"),
			ShowLegend: boolPtr(false),
		},
	}, nil
}

// Bar draws category counts.
func Bar(col string, counts []analysis.CategoryCount) *Figure {
	x := make([]string, len(counts))
	y := make([]int, len(counts))
	for i, cc := range counts {
		x[i] = cc.Value
		y[i] = cc.Count
	}
	return &Figure{
		Data: []Trace{{Type: "bar", Name: col, X: x, Y: y}},
		Layout: Layout{
			Title:      title(fmt.Sprintf("Distribution of %s (Top %d)", col, len(counts))),
			XAxis:      axis(col),
			YAxis:      axis("Count"),
			ShowLegend: boolPtr(false),
		},
	}
}

// Distribution picks a histogram for numeric columns and a top-values bar
// chart for everything else.
func Distribution(t *dataset.Table, col string) (*Figure, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	if c.Kind == dataset.Numeric {
		return Histogram(t, col, HistogramBins)
	}
	return Bar(col, analysis.TopN(analysis.ValueCounts(c, t.Len()), DistributionTop)), nil
}

// CategoryBar draws the per-category sum of num for the top categories of cat.
// Bars are coloured by their value.
func CategoryBar(t *dataset.Table, cat, num string, top int) (*Figure, error) {
	keys, err := analysis.TopValues(t, cat, top)
	if err != nil {
		return nil, err
	}
	groups, err := analysis.GroupBy(t, cat, num)
	if err != nil {
		return nil, err
	}
	groups = analysis.FilterGroups(groups, keys)
	x := make([]string, len(groups))
	y := make([]Number, len(groups))
	for i, g := range groups {
		x[i] = g.Key
		y[i] = Number(g.Sum)
	}
	return &Figure{
		Data: []Trace{{
			Type:   "bar",
			Name:   num,
			X:      x,
			Y:      y,
			Marker: &Marker{Color: y, ColorScale: "Viridis", ShowScale: true},
		}},
		Layout: Layout{
			Title: title(fmt.Sprintf("%s by %s", num, cat)),
			XAxis: &Axis{Title: title(cat), TickAngle: -45, Type: "category"},
			YAxis: axis(num),
		},
	}, nil
}

// Heatmap draws a correlation matrix on a red-blue scale centred on zero.
func Heatmap(m *analysis.CorrMatrix) *Figure {
	z := make([][]Number, len(m.Values))
	for i, row := range m.Values {
		z[i] = Numbers(row)
	}
	return &Figure{
		Data: []Trace{{
			Type:         "heatmap",
			X:            m.Columns,
			Y:            m.Columns,
			Z:            z,
			ColorScale:   "RdBu",
			ReverseScale: true,
			ZMin:         floatPtr(-1),
			ZMax:         floatPtr(1),
			ZMid:         floatPtr(0),
			TextTemplate: "%{z:.2f}",
		}},
		Layout: Layout{
			Title: title("Correlation Matrix"),
			YAxis: &Axis{Type: "category"},
			XAxis: &Axis{Type: "category"},
		},
	}
}

// Line draws grouped sums as a line with markers.
func Line(timeCol, numCol string, groups []analysis.GroupResult) *Figure {
	x := make([]string, len(groups))
	y := make([]Number, len(groups))
	for i, g := range groups {
		x[i] = g.Key
		y[i] = Number(g.Sum)
	}
	return &Figure{
		Data: []Trace{{Type: "scatter", Mode: "lines+markers", Name: numCol, X: x, Y: y}},
		Layout: Layout{
			Title: title(fmt.Sprintf("%s trend per %s", numCol, timeCol)),
			XAxis: &Axis{Title: title(timeCol), Type: "category"},
			YAxis: axis(numCol),
		},
	}
}

// TimeSeries groups num by timeCol and draws the sums.
func TimeSeries(t *dataset.Table, timeCol, num string) (*Figure, error) {
	groups, err := analysis.GroupBy(t, timeCol, num)
	if err != nil {
		return nil, err
	}
	return Line(timeCol, num, groups), nil
}

// Scatter plots y against x. When colorBy is set, each of its values gets
// its own trace. Every point carries the full row as hover text.
func Scatter(t *dataset.Table, x, y, colorBy string) (*Figure, error) {
	xc, err := t.Column(x)
	if err != nil {
		return nil, err
	}
	yc, err := t.Column(y)
	if err != nil {
		return nil, err
	}
	if xc.Kind != dataset.Numeric {
		return nil, fmt.Errorf("%s: %w", x, analysis.ErrNotNumeric)
	}
	if yc.Kind != dataset.Numeric {
		return nil, fmt.Errorf("%s: %w", y, analysis.ErrNotNumeric)
	}
	var group *dataset.Column
	if colorBy != "" {
		if group, err = t.Column(colorBy); err != nil {
			return nil, err
		}
	}

	type series struct {
		xs, ys []Number
		text   []string
	}
	byKey := map[string]*series{}
	var keys []string
	for i := 0; i < t.Len(); i++ {
		if xc.IsMissing(i) || yc.IsMissing(i) {
			continue
		}
		key := ""
		if group != nil {
			key = group.String(i)
		}
		s, ok := byKey[key]
		if !ok {
			s = &series{}
			byKey[key] = s
			keys = append(keys, key)
		}
		s.xs = append(s.xs, Number(xc.Float(i)))
		s.ys = append(s.ys, Number(yc.Float(i)))
		s.text = append(s.text, hoverText(t, i))
	}
	sort.Strings(keys)

	fig := &Figure{
		Layout: Layout{
			Title: title(fmt.Sprintf("Scatter Plot: %s vs %s", x, y)),
			XAxis: axis(x),
			YAxis: axis(y),
		},
	}
	for _, k := range keys {
		s := byKey[k]
		fig.Data = append(fig.Data, Trace{
			Type: "scatter", Mode: "markers", Name: k,
			X: s.xs, Y: s.ys, Text: s.text, HoverInfo: "x+y+text",
			Marker: &Marker{Size: 8},
		})
	}
	return fig, nil
}

func hoverText(t *dataset.Table, row int) string {
	parts := make([]string, 0, t.Width())
	for _, c := range t.Columns() {
		v := c.String(row)
		if c.IsMissing(row) {
			v = "NaN"
		}
		parts = append(parts, c.Name+"="+v)
	}
	return strings.Join(parts, "<br>")
}
