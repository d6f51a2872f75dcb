package server

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/jknstat/internal/artifact"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	tb, err := dataset.FromRecords("kunjungan", []string{"tahun", "jenis kelamin", "kelompok", "jumlah", "biaya"}, [][]string{
		{"2021", "Laki-laki", "PPU", "120", "10"},
		{"2021", "Perempuan", "PBI", "140", "11"},
		{"2022", "Laki-laki", "PBI", "160", "12"},
		{"2022", "Perempuan", "PPU", "", "13"},
		{"2023", "Laki-laki", "BP", "210", "15"},
	})
	require.NoError(t, err)
	return tb
}

func newTestServer(t *testing.T, tb *dataset.Table) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	return New(tb, Options{StaticDir: dir}), dir
}

func do(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestIndexAndVisualizationsPages(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))

	rec := do(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Numeric Columns")
	assert.Contains(t, body, "jenis kelamin")
	assert.Contains(t, body, "157.50")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = do(t, s.Handler(), "/visualizations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/visualization/distribution/")
	assert.Contains(t, rec.Body.String(), `<option value="tahun">tahun</option>`)
}

func TestDataEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	rec := do(t, s.Handler(), "/api/data")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 5)
	assert.Equal(t, "PPU", rows[0]["kelompok"])
	assert.Equal(t, 120.0, rows[0]["jumlah"])
	assert.Nil(t, rows[3]["jumlah"])
}

func TestStatsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	rec := do(t, s.Handler(), "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var st struct {
		Basic   BasicStats `json:"basic"`
		Columns struct {
			Numeric     map[string]map[string]float64 `json:"numeric"`
			Categorical map[string]struct {
				Count     int            `json:"count"`
				Unique    int            `json:"unique"`
				TopValues map[string]int `json:"top_values"`
			} `json:"categorical"`
		} `json:"columns"`
	}
	decodeBody(t, rec, &st)
	assert.Equal(t, BasicStats{TotalRows: 5, TotalColumns: 5, NumericColumns: 3, CategoricalColumns: 2, MissingValues: 1}, st.Basic)
	assert.Equal(t, 4.0, st.Columns.Numeric["jumlah"]["count"])
	assert.InDelta(t, 157.5, st.Columns.Numeric["jumlah"]["mean"], 1e-9)
	assert.Equal(t, 3, st.Columns.Categorical["kelompok"].Unique)
	assert.Equal(t, map[string]int{"PPU": 2, "PBI": 2, "BP": 1}, st.Columns.Categorical["kelompok"].TopValues)
}

func TestDistributionEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))

	var resp plotResponse
	rec := do(t, s.Handler(), "/api/visualization/distribution/jumlah")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Plot, `"type":"histogram"`)
	assert.Contains(t, resp.Plot, `"nbinsx":30`)

	rec = do(t, s.Handler(), "/api/visualization/distribution/jenis%20kelamin")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Plot, `"type":"bar"`)
}

func TestBadColumnsReturn400(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	cases := map[string]string{
		"/api/visualization/distribution/nope":            CodeInvalidColumn,
		"/api/visualization/comparison/nope/jumlah":       CodeInvalidColumn,
		"/api/visualization/comparison/kelompok/nope":     CodeInvalidColumn,
		"/api/visualization/comparison/kelompok/kelompok": CodeNotNumeric,
		"/api/visualization/timeseries/tahun/kelompok":    CodeNotNumeric,
		"/api/visualization/timeseries/nope/jumlah":       CodeInvalidColumn,
	}
	for path, code := range cases {
		t.Run(path, func(t *testing.T) {
			rec := do(t, s.Handler(), path)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var apiErr APIError
			decodeBody(t, rec, &apiErr)
			assert.Equal(t, code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}

func TestComparisonAndTimeSeries(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))

	var resp plotResponse
	rec := do(t, s.Handler(), "/api/visualization/comparison/kelompok/jumlah")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Plot, `"x":["BP","PBI","PPU"]`)

	rec = do(t, s.Handler(), "/api/visualization/timeseries/tahun/jumlah")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Plot, `"mode":"lines+markers"`)
	assert.Contains(t, resp.Plot, `"y":[260,160,210]`)
}

func TestCorrelationEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	rec := do(t, s.Handler(), "/api/visualization/correlation")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp plotResponse
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Plot, `"type":"heatmap"`)

	one, err := dataset.FromRecords("x", []string{"a", "k"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)
	s2, _ := newTestServer(t, one)
	rec = do(t, s2.Handler(), "/api/visualization/correlation")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var apiErr APIError
	decodeBody(t, rec, &apiErr)
	assert.Equal(t, CodeInsufficientNumeric, apiErr.Code)
}

func TestMissingTableReturns500(t *testing.T) {
	s, _ := newTestServer(t, nil)
	for _, path := range []string{"/", "/api/data", "/api/stats", "/api/visualization/correlation"} {
		rec := do(t, s.Handler(), path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		var apiErr APIError
		decodeBody(t, rec, &apiErr)
		assert.Equal(t, CodeDatasetNotLoaded, apiErr.Code, path)
	}
	rec := do(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dataset_loaded":false`)
}

func TestStaticArtifactsAndManifest(t *testing.T) {
	s, dir := newTestServer(t, testTable(t))

	rec := do(t, s.Handler(), "/api/artifacts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"artifacts":[]}`, rec.Body.String())

	png := filepath.Join(dir, "summary_dashboard.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG"), 0o644))
	m := artifact.New(dir, "data.csv")
	require.NoError(t, m.Record(png, "visualize"))
	require.NoError(t, m.Save())

	rec = do(t, s.Handler(), "/static/summary_dashboard.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "\x89PNG", rec.Body.String())

	rec = do(t, s.Handler(), "/api/artifacts")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		RunID     string              `json:"run_id"`
		Artifacts []artifact.Artifact `json:"artifacts"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, m.RunID, body.RunID)
	require.Len(t, body.Artifacts, 1)
	assert.Equal(t, "image", body.Artifacts[0].Kind)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	rec := do(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows":5`)

	do(t, s.Handler(), "/api/stats")
	rec = do(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jknstat_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/stats"`)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t, testTable(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecovererReturnsJSON(t *testing.T) {
	h := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := do(t, h, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var apiErr APIError
	decodeBody(t, rec, &apiErr)
	assert.Equal(t, CodeInternal, apiErr.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := New(testTable(t), Options{Addr: addr, ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestDataEndpointNullsNonFinite(t *testing.T) {
	tb, err := dataset.New("inf",
		dataset.NewCategorical("kelompok", []string{"PBI", "PPU"}, nil),
		dataset.NewNumeric("biaya", []float64{math.Inf(1), 12}),
	)
	require.NoError(t, err)
	s, _ := newTestServer(t, tb)

	rec := do(t, s.Handler(), "/api/data")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	var rows []map[string]any
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0]["biaya"])
	assert.Equal(t, 12.0, rows[1]["biaya"])
}

func TestColumnParamDecodedOnce(t *testing.T) {
	tb, err := dataset.New("pct",
		dataset.NewNumeric("x%41", []float64{1, 2, 3}),
		dataset.NewNumeric("a/b", []float64{4, 5, 6}),
	)
	require.NoError(t, err)
	s, _ := newTestServer(t, tb)

	rec := do(t, s.Handler(), "/api/visualization/distribution/x%2541")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s.Handler(), "/api/visualization/distribution/a%2Fb")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
