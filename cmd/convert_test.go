package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConvertToSolutionFromStdin(t *testing.T) {
	setupHome(t)
	out, err := runCLI(t, "[[0,1,2,0],[0,3,0]]", "convert", "to-solution")
	if err != nil {
		t.Fatalf("convert to-solution: %v", err)
	}
	if strings.TrimSpace(out) != "[0,1,2,0,3,0]" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConvertToSolutionRejectsOpenRoute(t *testing.T) {
	setupHome(t)
	if _, err := runCLI(t, "[[0,1,2]]", "convert", "to-solution"); err == nil {
		t.Fatalf("expected error for a route that does not return to the depot")
	}
}

func TestConvertToRoutesFromFile(t *testing.T) {
	home := setupHome(t)
	p := writeFile(t, home, "sol.json", "[0,1,2,0,3,0,4]")
	out := mustRun(t, "convert", "to-routes", p)
	if strings.TrimSpace(out) != "[[0,1,2,0],[0,3,0]]" {
		t.Fatalf("unexpected output %q", out)
	}

	if _, err := runCLI(t, "", "convert", "to-routes", filepath.Join(home, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestConvertToRoutesPrintsEmptyList(t *testing.T) {
	setupHome(t)
	for _, in := range []string{"[]", "[0]", "[0,1,2]"} {
		out, err := runCLI(t, in, "convert", "to-routes")
		if err != nil {
			t.Fatalf("convert to-routes %s: %v", in, err)
		}
		if out != "[]\n" {
			t.Fatalf("convert to-routes %s: got %q, want %q", in, out, "[]\n")
		}
	}
}
