package cmd

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestPlotFromRoutesAndRegistry(t *testing.T) {
	home := setupHome(t)
	inst := writeFile(t, home, "cross.yaml", crossYAML)
	routes := writeFile(t, home, "routes.json", "[[0,1,2,0],[0,3,4,0]]")
	writeFile(t, home, "config.yaml", "plot:\n  width: 320\n  height: 240\n")

	out := filepath.Join(home, "routes.png")
	mustRun(t, "plot", inst, "--routes", routes, "-o", out)
	if w, h := pngSize(t, out); w != 320 || h != 240 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}

	saveCross(t, home, "stored")
	out2 := filepath.Join(home, "stored.png")
	mustRun(t, "plot", inst, "--solution", "stored", "-o", out2)
	pngSize(t, out2)

	if _, err := runCLI(t, "", "plot", inst); err == nil {
		t.Fatalf("expected error without --routes or --solution")
	}
}

func TestEmbedAndGrid(t *testing.T) {
	home := setupHome(t)
	emb := make([][]float64, 5)
	for i := range emb {
		emb[i] = []float64{float64(i), float64(i % 2), float64(i * i)}
	}
	b, _ := json.Marshal(emb)
	embPath := writeFile(t, home, "emb.json", string(b))
	routes := writeFile(t, home, "routes.json", "[[0,1,2,0],[0,3,4,0]]")

	a := filepath.Join(home, "a.png")
	mustRun(t, "embed", embPath, "--routes", routes, "-o", a)
	w, h := pngSize(t, a)

	grid := filepath.Join(home, "grid.png")
	mustRun(t, "grid", a, a, a, "--cols", "2", "-o", grid)
	gw, gh := pngSize(t, grid)
	if gw != 2*w || gh != 2*h {
		t.Fatalf("unexpected grid size %dx%d for cell %dx%d", gw, gh, w, h)
	}
}
