package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/apex/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/jknstat/internal/utils"
)

// DefaultDPI matches the resolution used for saved figures.
const DefaultDPI = 150

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to plot")

var (
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	sumColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	meanColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	lineColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	nanColor  = color.Gray{Y: 200}
)

// Renderer writes PNG charts into Dir at the configured DPI.
type Renderer struct {
	Dir string
	DPI int
}

// NewRenderer returns a renderer for dir. A non-positive dpi selects DefaultDPI.
func NewRenderer(dir string, dpi int) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{Dir: dir, DPI: dpi}
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.Dir, name)
}

// save draws onto a fresh image canvas and writes it as PNG.
func (r *Renderer) save(name string, w, h vg.Length, fn func(dc draw.Canvas)) (string, error) {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.DPI))
	fn(draw.New(c))
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	out := r.path(name)
	if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	log.WithFields(log.Fields{"file": out, "dpi": r.DPI}).Debug("chart saved")
	return out, nil
}

func (r *Renderer) savePlot(name string, p *plot.Plot, w, h vg.Length) (string, error) {
	return r.save(name, w, h, p.Draw)
}

// saveGrid lays plots out in rows and columns. Nil cells are left blank.
func (r *Renderer) saveGrid(name string, plots [][]*plot.Plot, w, h vg.Length) (string, error) {
	if len(plots) == 0 || len(plots[0]) == 0 {
		return "", ErrNoData
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 6,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 3,
		PadBottom: vg.Millimeter * 3,
		PadLeft:   vg.Millimeter * 3,
		PadRight:  vg.Millimeter * 3,
	}
	return r.save(name, w, h, func(dc draw.Canvas) {
		canvases := plot.Align(plots, tiles, dc)
		for j := range plots {
			for i, p := range plots[j] {
				if p != nil {
					p.Draw(canvases[j][i])
				}
			}
		}
	})
}

// finite drops NaN and infinite values, which plotters reject.
func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// rotateX tilts the X tick labels for long category names.
func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}
