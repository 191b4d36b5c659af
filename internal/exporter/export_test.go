package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/vrp"
)

func seed(t *testing.T) *registry.Repository {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())
	dbConn, err := db.InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	r := registry.NewRepository(dbConn)
	t.Cleanup(func() { _ = r.Close() })
	inst := "toy"
	id, err := r.SaveSolution("toy-best", &inst, nil, vrp.Solution{0, 2, 1, 0, 3, 0}, 12.5)
	if err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	if err := r.AddTag(id, "best"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	return r
}

func TestExportDatabase(t *testing.T) {
	_ = seed(t)
	dst := filepath.Join(t.TempDir(), "exported.db")
	if err := ExportDatabase(dst); err != nil {
		t.Fatalf("ExportDatabase: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("exported file not found: %v", err)
	}
}

func TestExportSolution(t *testing.T) {
	_ = seed(t)
	src, err := db.InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	defer func() { _ = src.Close() }()

	dst := filepath.Join(t.TempDir(), "one", "toy.db")
	if err := ExportSolution(src, "toy-best", dst); err != nil {
		t.Fatalf("ExportSolution: %v", err)
	}

	out, err := db.Open(dst)
	if err != nil {
		t.Fatalf("open exported: %v", err)
	}
	r := registry.NewRepository(out)
	defer func() { _ = r.Close() }()
	rec, err := r.GetSolutionByName("toy-best")
	if err != nil || rec == nil {
		t.Fatalf("expected exported solution, got %v %v", rec, err)
	}
	if rec.Cost != 12.5 || len(rec.Tags) != 1 || rec.Tags[0] != "best" {
		t.Fatalf("unexpected exported record: %+v", rec)
	}

	if err := ExportSolution(src, "missing", filepath.Join(t.TempDir(), "x.db")); err == nil {
		t.Fatalf("expected error for missing solution")
	}
}

func TestExportSolutionJSON(t *testing.T) {
	_ = seed(t)
	src, err := db.InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	defer func() { _ = src.Close() }()

	var buf bytes.Buffer
	if err := ExportSolutionJSON(src, "toy-best", &buf); err != nil {
		t.Fatalf("ExportSolutionJSON: %v", err)
	}
	var doc SolutionDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Vehicles != 2 || len(doc.Routes) != 2 || doc.Instance != "toy" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
