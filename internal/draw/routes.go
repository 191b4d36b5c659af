package draw

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/VoxDroid/routeml/internal/vrp"
)

// Default canvas: 800×800 pixels at 100 DPI.
const (
	DefaultWidth  = 800
	DefaultHeight = 800
	DefaultDPI    = 100
)

// ErrNoPoints is returned when there is nothing to draw.
var ErrNoPoints = errors.New("draw: nothing to plot")

// Options controls the canvas of a rendered plot. Zero fields take the defaults.
type Options struct {
	Width  int
	Height int
	DPI    float64
	Title  string
}

func (o Options) withDefaults(title string) Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.Title == "" {
		o.Title = title
	}
	return o
}

// PlotRoutes draws every route as a line with point markers in its own
// colour and marks the depot (node 0) with a black cross.
func PlotRoutes(w io.Writer, routes []vrp.Route, coords map[int]vrp.Point, opts Options) error {
	opts = opts.withDefaults("Routes")
	depot, ok := coords[vrp.Depot]
	if !ok {
		return vrp.ErrNoDepot
	}

	colors := Colors(len(routes))
	series := make([]chart.Series, 0, len(routes)+2)
	xs, ys := []float64{depot.X}, []float64{depot.Y}
	for i, r := range routes {
		s := chart.ContinuousSeries{
			Name:    fmt.Sprintf("route %d", i+1),
			XValues: make([]float64, 0, len(r)),
			YValues: make([]float64, 0, len(r)),
			Style: chart.Style{
				StrokeColor: colors[i],
				StrokeWidth: 2,
				DotColor:    colors[i],
				DotWidth:    4,
			},
		}
		for _, node := range r {
			p, ok := coords[node]
			if !ok {
				return fmt.Errorf("%w: %d", vrp.ErrUnknownNode, node)
			}
			s.XValues = append(s.XValues, p.X)
			s.YValues = append(s.YValues, p.Y)
		}
		xs = append(xs, s.XValues...)
		ys = append(ys, s.YValues...)
		series = append(series, s)
	}
	series = append(series, depotMarker(depot.X, depot.Y, xs, ys)...)

	graph := newChart(opts, "X", "Y", series)
	return graph.Render(chart.PNG, w)
}

// PlotRoutesFile renders PlotRoutes into path, creating parent directories,
// and returns path.
func PlotRoutesFile(path string, routes []vrp.Route, coords map[int]vrp.Point, opts Options) (string, error) {
	return path, renderFile(path, func(w io.Writer) error {
		return PlotRoutes(w, routes, coords, opts)
	})
}

func renderFile(path string, render func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newChart(opts Options, xName, yName string, series []chart.Series) chart.Chart {
	return chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  chart.XAxis{Name: xName},
		YAxis:  chart.YAxis{Name: yName},
		Series: series,
	}
}

// depotMarker draws an "x" at (x, y) as two short black segments sized
// relative to the data extent.
func depotMarker(x, y float64, xs, ys []float64) []chart.Series {
	half := 0.02 * math.Max(extent(xs), extent(ys))
	if half == 0 {
		half = 0.05
	}
	style := chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 3}
	return []chart.Series{
		chart.ContinuousSeries{
			Name:    "Depot",
			XValues: []float64{x - half, x + half},
			YValues: []float64{y - half, y + half},
			Style:   style,
		},
		chart.ContinuousSeries{
			XValues: []float64{x - half, x + half},
			YValues: []float64{y + half, y - half},
			Style:   style,
		},
	}
}

func extent(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
