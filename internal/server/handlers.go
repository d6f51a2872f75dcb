package server

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/jknstat/internal/analysis"
	"github.com/KaramelBytes/jknstat/internal/artifact"
	"github.com/KaramelBytes/jknstat/internal/plotly"
	"github.com/KaramelBytes/jknstat/internal/utils"
)

// DefaultPreviewRows is the number of rows returned by /api/data.
const DefaultPreviewRows = 100

type numericView struct {
	Name string
	NumericStats
}

type categoricalView struct {
	Name   string
	Count  int
	Unique int
	Top    []analysis.CategoryCount
}

type indexView struct {
	Title       string
	Basic       BasicStats
	Numeric     []numericView
	Categorical []categoricalView
	Columns     []string
}

type vizView struct {
	Title       string
	PlotlyCDN   string
	Columns     []string
	Numeric     []string
	Categorical []string
	Temporal    []string
}

// plotResponse carries a Plotly figure encoded as a JSON string.
type plotResponse struct {
	Plot string `json:"plot"`
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		renderError(w, r, err)
		return
	}
	render.HTML(w, r, buf.String())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	v := indexView{Title: s.opts.Title, Basic: s.stats.Basic, Columns: s.table.Names()}
	for _, c := range s.table.NumericColumns() {
		if st, ok := s.stats.Columns.Numeric[c.Name]; ok {
			v.Numeric = append(v.Numeric, numericView{Name: c.Name, NumericStats: st})
		}
	}
	for _, c := range s.table.CategoricalColumns() {
		st := s.stats.Columns.Categorical[c.Name]
		v.Categorical = append(v.Categorical, categoricalView{Name: c.Name, Count: st.Count, Unique: st.Unique, Top: st.top})
	}
	s.renderPage(w, r, "index.html", v)
}

func (s *Server) handleVisualizations(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	v := vizView{Title: s.opts.Title, PlotlyCDN: plotly.CDN, Columns: s.table.Names()}
	for _, c := range s.table.NumericColumns() {
		v.Numeric = append(v.Numeric, c.Name)
	}
	for _, c := range s.table.CategoricalColumns() {
		v.Categorical = append(v.Categorical, c.Name)
	}
	for _, c := range s.table.TemporalColumns() {
		v.Temporal = append(v.Temporal, c.Name)
	}
	s.renderPage(w, r, "visualizations.html", v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "dataset_loaded": s.table != nil}
	if s.table != nil {
		body["rows"] = s.table.Len()
	}
	render.JSON(w, r, body)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	render.JSON(w, r, s.table.Head(s.opts.PreviewRows))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	render.JSON(w, r, s.stats)
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	m, err := artifact.Load(s.opts.StaticDir)
	if err != nil {
		if utils.IsNotExist(err) {
			render.JSON(w, r, map[string]any{"artifacts": []*artifact.Artifact{}})
			return
		}
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"run_id":     m.RunID,
		"source":     m.Source,
		"updated_at": m.UpdatedAt,
		"artifacts":  m.List(),
	})
}

// param returns a decoded URL parameter. chi matches on RawPath when it is
// set, and only then is the parameter still escaped.
func param(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (s *Server) respondFigure(w http.ResponseWriter, r *http.Request, kind string, fig *plotly.Figure, err error) {
	if err != nil {
		renderError(w, r, err)
		return
	}
	js, err := fig.JSON()
	if err != nil {
		renderError(w, r, err)
		return
	}
	metricFiguresBuilt.WithLabelValues(kind).Inc()
	render.JSON(w, r, plotResponse{Plot: js})
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	fig, err := plotly.Distribution(s.table, param(r, "column"))
	s.respondFigure(w, r, "distribution", fig, err)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	fig, err := plotly.CategoryBar(s.table, param(r, "cat_col"), param(r, "num_col"), plotly.ComparisonTop)
	s.respondFigure(w, r, "comparison", fig, err)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	m, err := analysis.Correlation(s.table)
	if err != nil {
		renderError(w, r, err)
		return
	}
	s.respondFigure(w, r, "correlation", plotly.Heatmap(m), nil)
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	if s.table == nil {
		renderError(w, r, errNotLoaded)
		return
	}
	fig, err := plotly.TimeSeries(s.table, param(r, "time_col"), param(r, "num_col"))
	s.respondFigure(w, r, "timeseries", fig, err)
}
