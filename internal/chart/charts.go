package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
	"github.com/KaramelBytes/jknstat/internal/utils"
)

const (
	histBins       = 30
	categoricalTop = 15
	comparisonTop  = 10
)

// Distribution draws a histogram and a boxplot for every numeric column.
func (r *Renderer) Distribution(t *dataset.Table) (string, error) {
	nums := t.NumericColumns()
	if len(nums) == 0 {
		return "", fmt.Errorf("distribution: %w", analysis.ErrInsufficientNumeric)
	}
	grid := make([][]*plot.Plot, 0, len(nums))
	drawn := 0
	for _, c := range nums {
		vals := finite(c.Floats())
		if len(vals) == 0 {
			grid = append(grid, []*plot.Plot{nil, nil})
			continue
		}
		hp := plot.New()
		hp.Title.Text = "Distribution of " + c.Name
		hp.X.Label.Text = c.Name
		hp.Y.Label.Text = "Frequency"
		h, err := plotter.NewHist(plotter.Values(vals), histBins)
		if err != nil {
			return "", fmt.Errorf("histogram %s: %w", c.Name, err)
		}
		h.FillColor = barColor
		hp.Add(plotter.NewGrid(), h)

		bp := plot.New()
		bp.Title.Text = "Boxplot of " + c.Name
		box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
		if err != nil {
			return "", fmt.Errorf("boxplot %s: %w", c.Name, err)
		}
		box.FillColor = barColor
		bp.Add(box)
		bp.NominalX(c.Name)

		grid = append(grid, []*plot.Plot{hp, bp})
		drawn++
	}
	if drawn == 0 {
		return "", fmt.Errorf("distribution: %w", ErrNoData)
	}
	h := vg.Length(len(grid)) * 4 * vg.Inch
	return r.saveGrid("distribution_plots.png", grid, 15*vg.Inch, h)
}

// Categorical draws the most frequent values of col as bars.
func (r *Renderer) Categorical(t *dataset.Table, col string) (string, error) {
	c, err := t.Column(col)
	if err != nil {
		return "", err
	}
	counts := analysis.TopN(analysis.ValueCounts(c, t.Len()), categoricalTop)
	if len(counts) == 0 {
		return "", fmt.Errorf("categorical %s: %w", col, ErrNoData)
	}
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, cc := range counts {
		vals[i] = float64(cc.Count)
		names[i] = cc.Value
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d values of %s", len(counts), col)
	p.Y.Label.Text = "Count"
	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return "", fmt.Errorf("bar chart %s: %w", col, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(plotter.NewGrid(), bars)
	p.NominalX(names...)
	rotateX(p)
	return r.savePlot("categorical_"+utils.FileSlug(col)+".png", p, 12*vg.Inch, 6*vg.Inch)
}

// TimeSeries draws the per-period sum of numCol against timeCol.
func (r *Renderer) TimeSeries(t *dataset.Table, timeCol, numCol string) (string, error) {
	groups, err := analysis.GroupBy(t, timeCol, numCol)
	if err != nil {
		return "", err
	}
	if len(groups) == 0 {
		return "", fmt.Errorf("timeseries %s: %w", numCol, ErrNoData)
	}
	xys := make(plotter.XYs, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		xys[i].X = float64(i)
		xys[i].Y = g.Sum
		names[i] = g.Key
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s over %s", numCol, timeCol)
	p.X.Label.Text = timeCol
	p.Y.Label.Text = "Total " + numCol
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", fmt.Errorf("line %s: %w", numCol, err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	points.Color = lineColor
	points.Shape = draw.CircleGlyph{}
	p.Add(plotter.NewGrid(), line, points)
	p.NominalX(names...)
	rotateX(p)
	return r.savePlot("timeseries_"+utils.FileSlug(numCol)+".png", p, 12*vg.Inch, 6*vg.Inch)
}

// Comparison draws grouped sum and mean bars of numCol over the top categories of catCol.
func (r *Renderer) Comparison(t *dataset.Table, catCol, numCol string) (string, error) {
	top, err := analysis.TopValues(t, catCol, comparisonTop)
	if err != nil {
		return "", err
	}
	groups, err := analysis.GroupBy(t, catCol, numCol)
	if err != nil {
		return "", err
	}
	groups = analysis.FilterGroups(groups, top)
	if len(groups) == 0 {
		return "", fmt.Errorf("comparison %s/%s: %w", catCol, numCol, ErrNoData)
	}
	sums := make(plotter.Values, len(groups))
	means := make(plotter.Values, len(groups))
	names := make([]string, len(groups))
	for i, g := range groups {
		sums[i] = g.Sum
		// groups without values have a NaN mean, drawn as an empty bar
		if g.Count > 0 {
			means[i] = g.Mean
		}
		names[i] = g.Key
	}
	w := vg.Points(14)
	sumBars, err := plotter.NewBarChart(sums, w)
	if err != nil {
		return "", fmt.Errorf("sum bars: %w", err)
	}
	sumBars.Color = sumColor
	sumBars.LineStyle.Width = 0
	sumBars.Offset = -w / 2
	meanBars, err := plotter.NewBarChart(means, w)
	if err != nil {
		return "", fmt.Errorf("mean bars: %w", err)
	}
	meanBars.Color = meanColor
	meanBars.LineStyle.Width = 0
	meanBars.Offset = w / 2

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by %s", numCol, catCol)
	p.Y.Label.Text = numCol
	p.Add(plotter.NewGrid(), sumBars, meanBars)
	p.Legend.Add("sum", sumBars)
	p.Legend.Add("mean", meanBars)
	p.Legend.Top = true
	p.NominalX(names...)
	rotateX(p)
	name := fmt.Sprintf("comparison_%s_%s.png", utils.FileSlug(catCol), utils.FileSlug(numCol))
	return r.savePlot(name, p, 12*vg.Inch, 6*vg.Inch)
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column drawn on the top row.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// CorrelationHeatmap draws the matrix on a diverging palette fixed to [-1, 1]
// and annotates every cell with its coefficient.
func (r *Renderer) CorrelationHeatmap(m *analysis.CorrMatrix, name string) (string, error) {
	n := len(m.Columns)
	if n < 2 {
		return "", fmt.Errorf("heatmap: %w", analysis.ErrInsufficientNumeric)
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = nanColor

	cells := plotter.XYLabels{XYs: make(plotter.XYs, 0, n*n)}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(col), Y: float64(n - 1 - row)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.2f", m.Values[row][col]))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return "", fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	yNames := make([]string, n)
	for i, c := range m.Columns {
		yNames[n-1-i] = c
	}
	p := plot.New()
	p.Title.Text = "Correlation Matrix"
	p.Add(hm, labels)
	p.NominalX(m.Columns...)
	p.NominalY(yNames...)
	rotateX(p)
	side := vg.Length(n)*vg.Inch + 4*vg.Inch
	if side < 8*vg.Inch {
		side = 8 * vg.Inch
	}
	return r.savePlot(name, p, side+vg.Inch, side)
}
