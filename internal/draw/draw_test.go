package draw

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/routeml/internal/vrp"
)

func sampleCoords() map[int]vrp.Point {
	return map[int]vrp.Point{
		0: {X: 0, Y: 0},
		1: {X: 1, Y: 2}, 2: {X: 3, Y: 1},
		3: {X: -2, Y: 1}, 4: {X: -1, Y: -3},
	}
}

func TestColors(t *testing.T) {
	assert.Nil(t, Colors(0))

	cs := Colors(4)
	require.Len(t, cs, 4)
	assert.Equal(t, rainbow[0], cs[0])
	assert.Equal(t, rainbow[64], cs[1])
	assert.Equal(t, rainbow[128], cs[2])
	assert.Equal(t, rainbow[192], cs[3])

	// blue at the start of the map, red at the end
	assert.Greater(t, rainbow[0].B, rainbow[0].R)
	assert.Greater(t, rainbow[paletteSize-1].R, rainbow[paletteSize-1].B)

	assert.Len(t, Colors(300), 300)
}

func TestPlotRoutes_WritesPNG(t *testing.T) {
	var buf bytes.Buffer
	routes := []vrp.Route{{0, 1, 2, 0}, {0, 3, 4, 0}}
	require.NoError(t, PlotRoutes(&buf, routes, sampleCoords(), Options{}))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, cfg.Width)
	assert.Equal(t, DefaultHeight, cfg.Height)
}

func TestPlotRoutes_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := PlotRoutes(&buf, []vrp.Route{{0, 9, 0}}, sampleCoords(), Options{})
	assert.ErrorIs(t, err, vrp.ErrUnknownNode)

	coords := sampleCoords()
	delete(coords, 0)
	err = PlotRoutes(&buf, []vrp.Route{{1, 2}}, coords, Options{})
	assert.ErrorIs(t, err, vrp.ErrNoDepot)
}

func TestPlotRoutesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "routes.png")
	got, err := PlotRoutesFile(path, []vrp.Route{{0, 1, 2, 3, 4, 0}}, sampleCoords(), Options{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.Equal(t, path, got)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestPlotEmbeddingsFile(t *testing.T) {
	emb := make([][]float64, 12)
	for i := range emb {
		base := 0.0
		if i > 5 {
			base = 5
		}
		emb[i] = []float64{base + float64(i%3)*0.1, base - float64(i%2)*0.1, base}
	}
	routes := []vrp.Route{{0, 1, 2, 3, 4, 5, 0}, {0, 6, 7, 8, 9, 10, 11, 0}}

	path := filepath.Join(t.TempDir(), "emb.png")
	got, err := PlotEmbeddingsFile(context.Background(), path, routes, emb, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.FileExists(t, path)

	var buf bytes.Buffer
	err = PlotEmbeddings(context.Background(), &buf, []vrp.Route{{0, 12, 0}}, emb, Options{})
	assert.ErrorIs(t, err, vrp.ErrUnknownNode)

	err = PlotEmbeddings(context.Background(), &buf, routes, nil, Options{})
	assert.ErrorIs(t, err, ErrNoPoints)
}

func writeSolid(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestConcatenateImages(t *testing.T) {
	dir := t.TempDir()
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	paths := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png"), filepath.Join(dir, "c.png")}
	writeSolid(t, paths[0], 10, 8, red)
	writeSolid(t, paths[1], 10, 8, green)
	writeSolid(t, paths[2], 10, 8, blue)

	out := filepath.Join(dir, "grid.png")
	require.NoError(t, ConcatenateImages(paths, 2, 2, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 20, 16), img.Bounds())
	assertRGBA(t, red, img.At(2, 2))
	assertRGBA(t, green, img.At(12, 2))
	assertRGBA(t, blue, img.At(2, 10))
	assertRGBA(t, color.RGBA{A: 255}, img.At(12, 10))
}

func assertRGBA(t *testing.T, want color.RGBA, got color.Color) {
	t.Helper()
	assert.Equal(t, want, color.RGBAModel.Convert(got).(color.RGBA))
}

func TestConcatenateImages_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, ConcatenateImages(nil, 1, 1, filepath.Join(dir, "x.png")), ErrNoImages)

	p := filepath.Join(dir, "a.png")
	writeSolid(t, p, 2, 2, color.White)
	err := ConcatenateImages([]string{p, p, p}, 1, 2, filepath.Join(dir, "x.png"))
	assert.ErrorIs(t, err, ErrGridTooSmall)

	assert.Error(t, ConcatenateImages([]string{p}, 0, 2, filepath.Join(dir, "x.png")))
	assert.Error(t, ConcatenateImages([]string{filepath.Join(dir, "missing.png")}, 1, 1, filepath.Join(dir, "x.png")))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults("Routes")
	assert.Equal(t, "Routes", o.Title)
	assert.Equal(t, DefaultWidth, o.Width)
	assert.Equal(t, DefaultHeight, o.Height)
	assert.Equal(t, float64(DefaultDPI), o.DPI)

	o = Options{Title: "custom", Width: 10}.withDefaults("Routes")
	assert.Equal(t, "custom", o.Title)
	assert.Equal(t, 10, o.Width)
}
