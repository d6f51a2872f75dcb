// Package dataset holds the in-memory table model and its CSV/XLSX loaders.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	Numeric     Kind = "numeric"
	Categorical Kind = "categorical"
)

var (
	// ErrColumnNotFound is returned when a column name is not part of the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedFormat is returned when no loader accepts a file.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrEmpty is returned for inputs without a header row.
	ErrEmpty = errors.New("dataset is empty")
)

// Column is a named, typed column. Numeric cells use NaN for missing values;
// categorical cells carry an explicit missing mask.
type Column struct {
	Name string
	Kind Kind

	nums []float64
	strs []string
	null []bool
}

// NewNumeric builds a numeric column. NaN entries are treated as missing.
func NewNumeric(name string, vals []float64) *Column {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return &Column{Name: name, Kind: Numeric, nums: cp}
}

// NewCategorical builds a categorical column. missing may be nil, in which
// case only empty strings count as missing.
func NewCategorical(name string, vals []string, missing []bool) *Column {
	c := &Column{Name: name, Kind: Categorical, strs: make([]string, len(vals)), null: make([]bool, len(vals))}
	copy(c.strs, vals)
	for i, v := range vals {
		if missing != nil && i < len(missing) {
			c.null[i] = missing[i]
		} else {
			c.null[i] = v == ""
		}
		if c.null[i] {
			c.strs[i] = ""
		}
	}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.nums)
	}
	return len(c.strs)
}

// IsMissing reports whether cell i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.null[i]
}

// Float returns cell i as a number. Missing and categorical cells yield NaN.
func (c *Column) Float(i int) float64 {
	if c.Kind != Numeric {
		return math.NaN()
	}
	return c.nums[i]
}

// String returns the textual form of cell i, empty for missing cells.
func (c *Column) String(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == Numeric {
		return FormatFloat(c.nums[i])
	}
	return c.strs[i]
}

// Value returns cell i as nil, float64 or string.
func (c *Column) Value(i int) any {
	if c.IsMissing(i) {
		return nil
	}
	if c.Kind == Numeric {
		return c.nums[i]
	}
	return c.strs[i]
}

// Floats returns the non-missing numeric values in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for _, v := range c.nums {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Strings returns the non-missing cells as strings in row order.
func (c *Column) Strings() []string {
	out := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			out = append(out, c.String(i))
		}
	}
	return out
}

// MissingCount returns how many cells are missing.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Count returns how many cells hold a value.
func (c *Column) Count() int { return c.Len() - c.MissingCount() }

// SetFloat overwrites a numeric cell.
func (c *Column) SetFloat(i int, v float64) {
	if c.Kind == Numeric {
		c.nums[i] = v
	}
}

// SetString overwrites a categorical cell and clears its missing flag.
func (c *Column) SetString(i int, v string) {
	if c.Kind == Categorical {
		c.strs[i] = v
		c.null[i] = false
	}
}

func (c *Column) clone() *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		cp.nums = append([]float64(nil), c.nums...)
	} else {
		cp.strs = append([]string(nil), c.strs...)
		cp.null = append([]bool(nil), c.null...)
	}
	return cp
}

func (c *Column) subset(rows []int) *Column {
	cp := &Column{Name: c.Name, Kind: c.Kind}
	if c.Kind == Numeric {
		cp.nums = make([]float64, len(rows))
		for j, i := range rows {
			cp.nums[j] = c.nums[i]
		}
		return cp
	}
	cp.strs = make([]string, len(rows))
	cp.null = make([]bool, len(rows))
	for j, i := range rows {
		cp.strs[j] = c.strs[i]
		cp.null[j] = c.null[i]
	}
	return cp
}

// Table is a rectangular set of equally long columns.
type Table struct {
	Name string

	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a table. All columns must have the same length and unique names.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{Name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column { return t.columns }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return t.columns[i], nil
}

// NumericColumns returns the numeric columns in table order.
func (t *Table) NumericColumns() []*Column { return t.byKind(Numeric) }

// CategoricalColumns returns the categorical columns in table order.
func (t *Table) CategoricalColumns() []*Column { return t.byKind(Categorical) }

func (t *Table) byKind(k Kind) []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// MissingCells returns the number of missing cells across the table.
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.columns {
		n += c.MissingCount()
	}
	return n
}

// Copy returns a deep copy that can be modified independently.
func (t *Table) Copy() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.clone()
	}
	cp, _ := New(t.Name, cols...)
	cp.rows = t.rows
	return cp
}

// Subset returns a new table holding the given rows in the given order.
func (t *Table) Subset(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.subset(rows)
	}
	cp, _ := New(t.Name, cols...)
	cp.rows = len(rows)
	return cp
}

// Row returns the textual cells of row i. Missing cells are empty.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.String(i)
	}
	return out
}

// RowKey returns a key identifying the full content of row i, distinguishing
// missing cells from empty text.
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for j, c := range t.columns {
		if j > 0 {
			b.WriteByte('\x1f')
		}
		if c.IsMissing(i) {
			b.WriteByte('\x00')
			continue
		}
		b.WriteString(c.String(i))
	}
	return b.String()
}

// Head returns up to n rows as column-name keyed records. Missing cells and
// non-finite numbers are nil so the records always encode as JSON.
func (t *Table) Head(n int) []map[string]any {
	if n > t.rows || n < 0 {
		n = t.rows
	}
	out := make([]map[string]any, n)
	for i := 0; i < n; i++ {
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			v := c.Value(i)
			if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				v = nil
			}
			rec[c.Name] = v
		}
		out[i] = rec
	}
	return out
}

// Records returns the header followed by every row as text, the layout
// encoding/csv and gota's LoadRecords expect.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.rows+1)
	out = append(out, t.Names())
	for i := 0; i < t.rows; i++ {
		out = append(out, t.Row(i))
	}
	return out
}

// FormatFloat renders v in its shortest form ("12", "12.5").
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
