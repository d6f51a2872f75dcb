package chart

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

const (
	dashboardBins = 20
	dashboardTop  = 10
)

var numberPrinter = message.NewPrinter(language.English)

// SummaryDashboard draws a 2x2 overview: dataset info, a histogram of the
// first numeric column, the top values of the first categorical column and
// a mean/std/min/max table.
func (r *Renderer) SummaryDashboard(t *dataset.Table) (string, error) {
	info, err := textPanel("Dataset Information", [][]string{
		{"Total Rows:", numberPrinter.Sprintf("%d", t.Len())},
		{"Total Columns:", numberPrinter.Sprintf("%d", t.Width())},
		{"Numeric Columns:", numberPrinter.Sprintf("%d", len(t.NumericColumns()))},
		{"Categorical Columns:", numberPrinter.Sprintf("%d", len(t.CategoricalColumns()))},
		{"Missing Values:", numberPrinter.Sprintf("%d", t.MissingCells())},
	})
	if err != nil {
		return "", err
	}

	var hist, top, stats *plot.Plot
	nums := t.NumericColumns()
	if len(nums) > 0 {
		if vals := finite(nums[0].Floats()); len(vals) > 0 {
			hist = plot.New()
			hist.Title.Text = "Distribution: " + nums[0].Name
			hist.Y.Label.Text = "Frequency"
			h, err := plotter.NewHist(plotter.Values(vals), dashboardBins)
			if err != nil {
				return "", fmt.Errorf("dashboard histogram: %w", err)
			}
			h.FillColor = barColor
			hist.Add(plotter.NewGrid(), h)
		}
	}
	if cats := t.CategoricalColumns(); len(cats) > 0 {
		counts := analysis.TopN(analysis.ValueCounts(cats[0], t.Len()), dashboardTop)
		if len(counts) > 0 {
			top, err = topBars(cats[0].Name, counts)
			if err != nil {
				return "", err
			}
		}
	}
	if len(nums) > 0 {
		stats, err = textPanel("Summary Statistics", statsRows(nums))
		if err != nil {
			return "", err
		}
	}

	grid := [][]*plot.Plot{{info, hist}, {top, stats}}
	return r.saveGrid("summary_dashboard.png", grid, 16*vg.Inch, 12*vg.Inch)
}

// statsRows lists mean/std/min/max for every numeric column.
func statsRows(nums []*dataset.Column) [][]string {
	rows := [][]string{{"Column", "Mean", "Std", "Min", "Max"}}
	for _, c := range nums {
		s, err := analysis.DescribeNumeric(c)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			c.Name,
			numberPrinter.Sprintf("%.2f", s.Mean),
			numberPrinter.Sprintf("%.2f", s.Std),
			numberPrinter.Sprintf("%.2f", s.Min),
			numberPrinter.Sprintf("%.2f", s.Max),
		})
	}
	return rows
}

func topBars(col string, counts []analysis.CategoryCount) (*plot.Plot, error) {
	// Reversed so the most frequent value sits at the top.
	n := len(counts)
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i, cc := range counts {
		vals[n-1-i] = float64(cc.Count)
		names[n-1-i] = cc.Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("dashboard bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d: %s", n, col)
	p.X.Label.Text = "Count"
	p.Add(plotter.NewGrid(), bars)
	p.NominalY(names...)
	return p, nil
}

// textPanel lays rows of cells out as left-aligned text on a hidden-axis plot.
func textPanel(title string, rows [][]string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	if len(rows) == 0 {
		return p, nil
	}
	var cells plotter.XYLabels
	for i, row := range rows {
		y := 1 - float64(i+1)/float64(len(rows)+1)
		for j, cell := range row {
			x := 0.02 + float64(j)/float64(len(row))
			if len(row) == 2 && j == 1 {
				x = 0.6
			}
			cells.XYs = append(cells.XYs, plotter.XY{X: x, Y: y})
			cells.Labels = append(cells.Labels, cell)
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return nil, fmt.Errorf("text panel %q: %w", title, err)
	}
	p.Add(labels)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p, nil
}
