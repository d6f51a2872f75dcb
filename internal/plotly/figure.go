// Package plotly builds Plotly figure JSON and standalone chart pages.
package plotly

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Number is a float that marshals NaN and infinities as null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// Numbers converts a float slice.
func Numbers(vals []float64) []Number {
	out := make([]Number, len(vals))
	for i, v := range vals {
		out[i] = Number(v)
	}
	return out
}

// Title is a Plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Marker styles bars and points.
type Marker struct {
	Color      any    `json:"color,omitempty"`
	ColorScale string `json:"colorscale,omitempty"`
	ShowScale  bool   `json:"showscale,omitempty"`
	Size       int    `json:"size,omitempty"`
}

// Trace is one data series of a figure.
type Trace struct {
	Type         string     `json:"type"`
	Name         string     `json:"name,omitempty"`
	Mode         string     `json:"mode,omitempty"`
	X            any        `json:"x,omitempty"`
	Y            any        `json:"y,omitempty"`
	Z            [][]Number `json:"z,omitempty"`
	Text         []string   `json:"text,omitempty"`
	HoverInfo    string     `json:"hoverinfo,omitempty"`
	NBinsX       int        `json:"nbinsx,omitempty"`
	Marker       *Marker    `json:"marker,omitempty"`
	ColorScale   string     `json:"colorscale,omitempty"`
	ReverseScale bool       `json:"reversescale,omitempty"`
	ZMin         *float64   `json:"zmin,omitempty"`
	ZMax         *float64   `json:"zmax,omitempty"`
	ZMid         *float64   `json:"zmid,omitempty"`
	TextTemplate string     `json:"texttemplate,omitempty"`
}

// Axis configures an x or y axis.
type Axis struct {
	Title     *Title `json:"title,omitempty"`
	TickAngle int    `json:"tickangle,omitempty"`
	Type      string `json:"type,omitempty"`
}

// Layout holds figure-wide settings.
type Layout struct {
	Title      *Title `json:"title,omitempty"`
	XAxis      *Axis  `json:"xaxis,omitempty"`
	YAxis      *Axis  `json:"yaxis,omitempty"`
	ShowLegend *bool  `json:"showlegend,omitempty"`
}

// Figure is a complete Plotly figure.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// JSON returns the figure encoded for Plotly.newPlot.
func (f *Figure) JSON() (string, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("marshal figure: %w", err)
	}
	return string(b), nil
}

func title(s string) *Title { return &Title{Text: s} }

func axis(label string) *Axis { return &Axis{Title: title(label)} }

func boolPtr(b bool) *bool { return &b }

func floatPtr(v float64) *float64 { return &v }
