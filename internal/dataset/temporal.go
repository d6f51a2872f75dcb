package dataset

import (
	"strings"
	"time"
)

// timeNameHints are substrings marking a column as a time axis by name.
var timeNameHints = []string{"tahun", "year", "tanggal"}

// IsTemporal reports whether a column can serve as a time axis: its name
// contains a time hint, or it is categorical and every value parses as a date.
func (c *Column) IsTemporal() bool {
	lower := strings.ToLower(c.Name)
	for _, h := range timeNameHints {
		if strings.Contains(lower, h) {
			return true
		}
	}
	if c.Kind != Categorical {
		return false
	}
	vals := c.Strings()
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if _, ok := ParseTime(v); !ok {
			return false
		}
	}
	return true
}

// TemporalColumns returns columns usable as a time axis, in table order.
func (t *Table) TemporalColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.IsTemporal() {
			out = append(out, c)
		}
	}
	return out
}

// ParseTime tries a list of common date layouts.
func ParseTime(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006", "02-01-2006",
		"2006-01", "2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
