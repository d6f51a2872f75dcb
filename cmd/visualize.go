package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/chart"
	"github.com/KaramelBytes/jknstat/internal/dataset"
	"github.com/KaramelBytes/jknstat/internal/plotly"
)

var (
	vizInput       string
	vizOutDir      string
	vizDPI         int
	vizSheetName   string
	vizSheetIndex  int
	vizDelimiter   string
	vizNoHTML      bool
	vizNoProgress  bool
	vizInteractTop int
)

// chartJob renders one output file and returns its path.
type chartJob struct {
	name string
	run  func() (string, error)
}

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render the PNG charts and the interactive HTML charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opt, err := loadOptions(vizSheetName, vizSheetIndex, vizDelimiter)
		if err != nil {
			return err
		}
		t, src, err := loadSource(out, vizInput, opt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", src, t.Len(), t.Width())

		dir := cfg.StaticDir
		if vizOutDir != "" {
			dir = vizOutDir
		}
		dpi := cfg.DPI
		if vizDPI > 0 {
			dpi = vizDPI
		}
		jobs := planCharts(t, chart.NewRenderer(dir, dpi), dir)
		if vizNoHTML {
			jobs = pngOnly(jobs)
		}

		written, failed := runCharts(out, jobs, !vizNoProgress)
		for _, p := range written {
			fmt.Fprintf(out, "✓ %s\n", p)
		}
		recordArtifacts("visualize", src, written...)
		if failed > 0 {
			fmt.Fprintf(out, "⚠ %d chart(s) skipped, see log for details\n", failed)
		}
		fmt.Fprintf(out, "✓ %d file(s) written to %s\n", len(written), dir)
		return nil
	},
}

// planCharts lists every chart the table supports.
func planCharts(t *dataset.Table, r *chart.Renderer, dir string) []chartJob {
	nums := t.NumericColumns()
	cats := t.CategoricalColumns()
	times := t.TemporalColumns()

	jobs := []chartJob{
		{name: "summary dashboard", run: func() (string, error) { return r.SummaryDashboard(t) }},
	}
	if len(nums) > 0 {
		jobs = append(jobs, chartJob{name: "distributions", run: func() (string, error) { return r.Distribution(t) }})
	}
	for _, c := range cats {
		col := c.Name
		jobs = append(jobs, chartJob{name: "categorical " + col, run: func() (string, error) { return r.Categorical(t, col) }})
	}
	for _, tc := range times {
		for _, nc := range nums {
			if nc.Name == tc.Name {
				continue
			}
			timeCol, numCol := tc.Name, nc.Name
			jobs = append(jobs, chartJob{name: "timeseries " + numCol, run: func() (string, error) { return r.TimeSeries(t, timeCol, numCol) }})
		}
	}
	for _, cc := range cats {
		for _, nc := range nums {
			catCol, numCol := cc.Name, nc.Name
			jobs = append(jobs, chartJob{name: "comparison " + catCol + "/" + numCol, run: func() (string, error) { return r.Comparison(t, catCol, numCol) }})
		}
	}
	if len(nums) >= 2 {
		jobs = append(jobs, chartJob{name: "correlation heatmap", run: func() (string, error) {
			m, err := analysis.Correlation(t)
			if err != nil {
				return "", err
			}
			return r.CorrelationHeatmap(m, "correlation_heatmap.png")
		}})
		colorBy := ""
		if len(cats) > 0 {
			colorBy = cats[0].Name
		}
		x, y := nums[0].Name, nums[1].Name
		jobs = append(jobs, chartJob{name: "interactive scatter", run: func() (string, error) {
			fig, err := plotly.Scatter(t, x, y, colorBy)
			if err != nil {
				return "", err
			}
			return writeFigure(fig, filepath.Join(dir, "interactive_scatter.html"))
		}})
	}
	if len(cats) > 0 && len(nums) > 0 {
		cat, num := cats[0].Name, nums[0].Name
		jobs = append(jobs, chartJob{name: "interactive bar", run: func() (string, error) {
			fig, err := plotly.CategoryBar(t, cat, num, vizInteractTop)
			if err != nil {
				return "", err
			}
			return writeFigure(fig, filepath.Join(dir, "interactive_bar.html"))
		}})
	}
	return jobs
}

func pngOnly(jobs []chartJob) []chartJob {
	kept := jobs[:0]
	for _, j := range jobs {
		if j.name == "interactive scatter" || j.name == "interactive bar" {
			continue
		}
		kept = append(kept, j)
	}
	return kept
}

func writeFigure(fig *plotly.Figure, path string) (string, error) {
	if err := plotly.WriteHTML(fig, path); err != nil {
		return "", err
	}
	return path, nil
}

// runCharts renders the jobs in order. A failing chart is logged and skipped.
func runCharts(w io.Writer, jobs []chartJob, progress bool) (written []string, failed int) {
	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	for _, j := range jobs {
		if bar != nil {
			bar.Describe(j.name)
		}
		p, err := j.run()
		if err != nil {
			log.WithError(err).WithField("chart", j.name).Warn("chart skipped")
			failed++
		} else {
			written = append(written, p)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return written, failed
}

func init() {
	rootCmd.AddCommand(visualizeCmd)
	visualizeCmd.Flags().StringVarP(&vizInput, "input", "i", "", "input file (default: cleaned CSV, then original workbook)")
	visualizeCmd.Flags().StringVarP(&vizOutDir, "out-dir", "o", "", "output directory (default: static_dir from config)")
	visualizeCmd.Flags().IntVar(&vizDPI, "dpi", 0, "PNG resolution (default from config)")
	visualizeCmd.Flags().StringVar(&vizSheetName, "sheet-name", "", "XLSX sheet name")
	visualizeCmd.Flags().IntVar(&vizSheetIndex, "sheet-index", 0, "XLSX sheet index (1-based)")
	visualizeCmd.Flags().StringVar(&vizDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: auto)")
	visualizeCmd.Flags().BoolVar(&vizNoHTML, "no-html", false, "skip the interactive HTML charts")
	visualizeCmd.Flags().BoolVar(&vizNoProgress, "no-progress", false, "hide the progress bar")
	visualizeCmd.Flags().IntVar(&vizInteractTop, "top", plotly.DistributionTop, "categories shown in the interactive bar chart")
}
