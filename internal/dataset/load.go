package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/jknstat/internal/utils"
)

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, sniffs among ',', ';', '\t'.
	Delimiter rune
	// SheetName selects an XLSX sheet by name.
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based index when SheetName is empty.
	SheetIndex int
}

// DefaultOptions returns options that sniff the delimiter and read the first sheet.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Loader reads a file into a header row and data rows.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (header []string, rows [][]string, err error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// missingMarkers are cell texts treated as missing values.
var missingMarkers = []string{"", "NA", "NaN", "N/A", "n/a", "null", "NULL", "<nil>"}

// Load selects a loader by file name and builds a typed table.
func Load(path string, opt Options) (*Table, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		header, rows, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		t, err := FromRecords(filepath.Base(path), header, rows)
		if err != nil {
			return nil, fmt.Errorf("build table from %s: %w", path, err)
		}
		log.WithFields(log.Fields{
			"path":    path,
			"rows":    t.Len(),
			"columns": t.Width(),
		}).Debug("dataset loaded")
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadFirst loads the first path that exists on disk and returns it alongside the table.
func LoadFirst(paths []string, opt Options) (*Table, string, error) {
	for _, p := range paths {
		if p == "" || !utils.FileExists(p) {
			continue
		}
		t, err := Load(p, opt)
		if err != nil {
			return nil, p, err
		}
		return t, p, nil
	}
	return nil, "", fmt.Errorf("no dataset found (tried %s)", strings.Join(paths, ", "))
}

// FromRecords builds a table from a header row and data rows. Column kinds are
// detected from the values: a column whose non-missing cells all parse as
// numbers is numeric, anything else is categorical.
func FromRecords(name string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmpty
	}
	names := uniqueHeader(header)
	width := len(names)
	norm := make([][]string, 0, len(rows)+1)
	norm = append(norm, names)
	for _, r := range rows {
		rec := make([]string, width)
		for j := 0; j < width && j < len(r); j++ {
			rec[j] = strings.TrimSpace(r[j])
		}
		norm = append(norm, rec)
	}
	if len(rows) == 0 {
		cols := make([]*Column, width)
		for i, n := range names {
			cols[i] = NewCategorical(n, nil, nil)
		}
		return New(name, cols...)
	}

	df := dataframe.LoadRecords(norm,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	cols := make([]*Column, 0, width)
	for _, n := range names {
		s := df.Col(n)
		if s.Err != nil {
			return nil, fmt.Errorf("column %q: %w", n, s.Err)
		}
		switch s.Type() {
		case series.Int, series.Float:
			cols = append(cols, NewNumeric(n, s.Float()))
		default:
			cols = append(cols, NewCategorical(n, s.Records(), s.IsNaN()))
		}
	}
	return New(name, cols...)
}

// uniqueHeader names blank headers and disambiguates repeats with a ".N" suffix.
func uniqueHeader(header []string) []string {
	taken := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		cand := h
		for n := 1; taken[cand]; n++ {
			cand = fmt.Sprintf("%s.%d", h, n)
		}
		taken[cand] = true
		out[i] = cand
	}
	return out
}
