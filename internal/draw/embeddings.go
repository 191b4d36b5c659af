package draw

import (
	"context"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/VoxDroid/routeml/internal/tsne"
	"github.com/VoxDroid/routeml/internal/vrp"
)

// DefaultEmbeddingPath is where PlotEmbeddingsFile writes when no path is given.
const DefaultEmbeddingPath = "test.png"

// PlotEmbeddings projects embeddings (one row per node, row 0 the depot) to
// 2D with t-SNE and scatters the nodes of each route in that route's colour.
// The depot is drawn as a black cross.
func PlotEmbeddings(ctx context.Context, w io.Writer, routes []vrp.Route, embeddings [][]float64, opts Options) error {
	opts = opts.withDefaults("Embeddings in 2D Space")
	if len(embeddings) == 0 {
		return ErrNoPoints
	}
	points, err := tsne.Embed(ctx, embeddings, tsne.Options{Seed: 42})
	if err != nil {
		return fmt.Errorf("project embeddings: %w", err)
	}

	colors := Colors(len(routes))
	series := make([]chart.Series, 0, len(routes)+2)
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, p[0])
		ys = append(ys, p[1])
	}
	for i, r := range routes {
		s := chart.ContinuousSeries{
			Name: fmt.Sprintf("route %d", i+1),
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    colors[i],
				DotWidth:    3,
			},
		}
		for _, node := range r {
			if node < 0 || node >= len(points) {
				return fmt.Errorf("%w: %d", vrp.ErrUnknownNode, node)
			}
			s.XValues = append(s.XValues, points[node][0])
			s.YValues = append(s.YValues, points[node][1])
		}
		if len(s.XValues) == 0 {
			continue
		}
		series = append(series, s)
	}
	series = append(series, depotMarker(points[vrp.Depot][0], points[vrp.Depot][1], xs, ys)...)

	graph := newChart(opts, "Dimension 1", "Dimension 2", series)
	return graph.Render(chart.PNG, w)
}

// PlotEmbeddingsFile renders PlotEmbeddings into path (DefaultEmbeddingPath
// when empty) and returns the path written.
func PlotEmbeddingsFile(ctx context.Context, path string, routes []vrp.Route, embeddings [][]float64, opts Options) (string, error) {
	if path == "" {
		path = DefaultEmbeddingPath
	}
	return path, renderFile(path, func(w io.Writer) error {
		return PlotEmbeddings(ctx, w, routes, embeddings, opts)
	})
}
