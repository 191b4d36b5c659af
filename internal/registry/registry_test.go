package registry

import (
	"errors"
	"testing"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/vrp"
)

func setupDemoRepo(t *testing.T) (*Repository, int64) {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())
	dbConn, err := db.InitDB()
	if err != nil {
		t.Fatalf("InitDB(): %v", err)
	}
	r := NewRepository(dbConn)
	t.Cleanup(func() { _ = r.Close() })

	inst := "cross"
	desc := "demo"
	id, err := r.SaveSolution("demo", &inst, &desc, vrp.Solution{0, 1, 2, 0, 3, 4, 0}, 8)
	if err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}
	return r, id
}

func TestRepository_SaveAndRetrieve(t *testing.T) {
	r, _ := setupDemoRepo(t)
	s, err := r.GetSolutionByName("demo")
	if err != nil {
		t.Fatalf("GetSolutionByName: %v", err)
	}
	if s == nil {
		t.Fatalf("expected solution")
	}
	if s.Vehicles != 2 {
		t.Fatalf("expected 2 vehicles, got %d", s.Vehicles)
	}
	if s.Cost != 8 {
		t.Fatalf("expected cost 8, got %v", s.Cost)
	}
	routes := s.Routes()
	if len(routes) != 2 || len(routes[0]) != 4 || routes[1][1] != 3 {
		t.Fatalf("unexpected routes: %v", routes)
	}
	if !s.Instance.Valid || s.Instance.String != "cross" {
		t.Fatalf("unexpected instance: %+v", s.Instance)
	}
}

func TestRepository_GetMissingReturnsNil(t *testing.T) {
	r, _ := setupDemoRepo(t)
	s, err := r.GetSolutionByName("nope")
	if err != nil {
		t.Fatalf("GetSolutionByName: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil for missing solution, got %+v", s)
	}
}

func TestRepository_DuplicateNameRejected(t *testing.T) {
	r, _ := setupDemoRepo(t)
	_, err := r.SaveSolution("  demo ", nil, nil, vrp.Solution{0, 1, 0}, 1)
	if !errors.Is(err, ErrNameInUse) {
		t.Fatalf("expected ErrNameInUse, got %v", err)
	}
	if _, err := r.SaveSolution("   ", nil, nil, vrp.Solution{0, 1, 0}, 1); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestRepository_List(t *testing.T) {
	r, _ := setupDemoRepo(t)
	if _, err := r.SaveSolution("second", nil, nil, vrp.Solution{0, 1, 0}, 2); err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	sets, err := r.ListSolutions()
	if err != nil {
		t.Fatalf("ListSolutions: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("expected 2 solutions, got %d", len(sets))
	}
	if sets[0].Name != "second" {
		t.Fatalf("expected newest first, got %q", sets[0].Name)
	}
}

func TestRepository_ListByInstanceCheapestFirst(t *testing.T) {
	r, _ := setupDemoRepo(t)
	inst := "cross"
	if _, err := r.SaveSolution("better", &inst, nil, vrp.Solution{0, 1, 2, 4, 3, 0}, 6.8); err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	got, err := r.ListSolutionsByInstance("cross")
	if err != nil {
		t.Fatalf("ListSolutionsByInstance: %v", err)
	}
	if len(got) != 2 || got[0].Name != "better" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestRepository_Delete(t *testing.T) {
	r, id := setupDemoRepo(t)
	if err := r.AddTag(id, "keep"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if err := r.DeleteSolution("demo"); err != nil {
		t.Fatalf("DeleteSolution: %v", err)
	}
	s, err := r.GetSolutionByName("demo")
	if err != nil {
		t.Fatalf("GetSolutionByName: %v", err)
	}
	if s != nil {
		t.Fatalf("expected solution to be deleted")
	}
	if err := r.DeleteSolution("demo"); err != nil {
		t.Fatalf("deleting a missing solution should be a no-op: %v", err)
	}
}

func TestRepository_Tags(t *testing.T) {
	r, id := setupDemoRepo(t)
	for _, tag := range []string{"paper", "baseline", "paper"} {
		if err := r.AddTag(id, tag); err != nil {
			t.Fatalf("AddTag(%q): %v", tag, err)
		}
	}
	tags, err := r.ListTags(id)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "baseline" || tags[1] != "paper" {
		t.Fatalf("unexpected tags: %v", tags)
	}

	byTag, err := r.ListSolutionsByTag("paper")
	if err != nil {
		t.Fatalf("ListSolutionsByTag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Name != "demo" || len(byTag[0].Tags) != 2 {
		t.Fatalf("unexpected tag listing: %+v", byTag)
	}

	if err := r.RemoveTag(id, "paper"); err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	if err := r.RemoveTag(id, "never-added"); err != nil {
		t.Fatalf("RemoveTag missing tag: %v", err)
	}
	s, err := r.GetSolutionByName("demo")
	if err != nil {
		t.Fatalf("GetSolutionByName: %v", err)
	}
	if len(s.Tags) != 1 || s.Tags[0] != "baseline" {
		t.Fatalf("unexpected tags after remove: %v", s.Tags)
	}
	if err := r.AddTag(id, " "); err == nil {
		t.Fatalf("expected empty tag to be rejected")
	}
}

func TestRepository_Search(t *testing.T) {
	r, _ := setupDemoRepo(t)
	res, err := r.SearchSolutions("cro")
	if err != nil {
		t.Fatalf("SearchSolutions: %v", err)
	}
	if len(res) != 1 || res[0].Name != "demo" {
		t.Fatalf("expected to find demo via instance, got %+v", res)
	}
	res, err = r.SearchSolutions("zzz")
	if err != nil {
		t.Fatalf("SearchSolutions: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("expected no results, got %+v", res)
	}
}

func TestRepository_ReplaceAndRename(t *testing.T) {
	r, id := setupDemoRepo(t)
	if err := r.ReplaceSolution(id, vrp.Solution{0, 1, 2, 4, 3, 0}, 6.8); err != nil {
		t.Fatalf("ReplaceSolution: %v", err)
	}
	if err := r.RenameSolution(id, "renamed"); err != nil {
		t.Fatalf("RenameSolution: %v", err)
	}
	s, err := r.GetSolutionByName("renamed")
	if err != nil || s == nil {
		t.Fatalf("GetSolutionByName: %v %v", s, err)
	}
	if s.Vehicles != 1 || s.Cost != 6.8 {
		t.Fatalf("unexpected replaced solution: %+v", s)
	}

	if _, err := r.SaveSolution("other", nil, nil, vrp.Solution{0, 1, 0}, 1); err != nil {
		t.Fatalf("SaveSolution: %v", err)
	}
	if err := r.RenameSolution(id, "other"); !errors.Is(err, ErrNameInUse) {
		t.Fatalf("expected ErrNameInUse, got %v", err)
	}
	if err := r.ReplaceSolution(9999, vrp.Solution{0, 0}, 0); err == nil {
		t.Fatalf("expected error replacing missing solution")
	}
}
