// Package exporter writes stored solutions out of the active database.
package exporter

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/VoxDroid/routeml/internal/config"
	dbpkg "github.com/VoxDroid/routeml/internal/db"
	"github.com/VoxDroid/routeml/internal/registry"
	"github.com/VoxDroid/routeml/internal/vrp"
)

// ExportDatabase copies the active routeml database to dstPath.
func ExportDatabase(dstPath string) error {
	src, err := config.DBPath()
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source db: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create dst db: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// ExportSolution copies one named solution, with its tags, into a
// standalone database at dstPath carrying the routeml schema.
func ExportSolution(srcDB *sql.DB, name string, dstPath string) error {
	rec, err := lookup(srcDB, name)
	if err != nil {
		return err
	}

	dstDB, err := dbpkg.Open(dstPath)
	if err != nil {
		return fmt.Errorf("open dst db: %w", err)
	}
	dst := registry.NewRepository(dstDB)
	defer func() { _ = dst.Close() }()

	id, err := dst.SaveSolution(rec.Name, nullable(rec.Instance), nullable(rec.Description), rec.Solution, rec.Cost)
	if err != nil {
		return fmt.Errorf("insert solution: %w", err)
	}
	for _, tag := range rec.Tags {
		if err := dst.AddTag(id, tag); err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// SolutionDocument is the JSON form of an exported solution.
type SolutionDocument struct {
	Name        string       `json:"name"`
	Instance    string       `json:"instance,omitempty"`
	Description string       `json:"description,omitempty"`
	Cost        float64      `json:"cost"`
	Vehicles    int          `json:"vehicles"`
	Solution    vrp.Solution `json:"solution"`
	Routes      []vrp.Route  `json:"routes"`
	Tags        []string     `json:"tags,omitempty"`
	CreatedAt   string       `json:"created_at"`
}

// ExportSolutionJSON writes the named solution as an indented SolutionDocument.
func ExportSolutionJSON(srcDB *sql.DB, name string, w io.Writer) error {
	rec, err := lookup(srcDB, name)
	if err != nil {
		return err
	}
	doc := SolutionDocument{
		Name:        rec.Name,
		Instance:    rec.Instance.String,
		Description: rec.Description.String,
		Cost:        rec.Cost,
		Vehicles:    rec.Vehicles,
		Solution:    rec.Solution,
		Routes:      rec.Routes(),
		Tags:        rec.Tags,
		CreatedAt:   rec.CreatedAt,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func lookup(srcDB *sql.DB, name string) (*registry.SolutionRecord, error) {
	rec, err := registry.NewRepository(srcDB).GetSolutionByName(name)
	if err != nil {
		return nil, fmt.Errorf("select solution: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("solution not found: %s", name)
	}
	return rec, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
