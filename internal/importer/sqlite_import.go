// Package importer brings solutions from exported databases into the active one.
package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// _ import for sqlite driver registration
	_ "modernc.org/sqlite"

	"github.com/VoxDroid/routeml/internal/config"
	"github.com/VoxDroid/routeml/internal/nameutil"
	"github.com/VoxDroid/routeml/internal/registry"
)

// ImportDatabase copies srcPath into the default database location. If overwrite
// is false and the destination exists, an error is returned.
func ImportDatabase(srcPath string, overwrite bool) error {
	dst, err := config.DBPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return errors.New("destination database exists; use overwrite=true to replace")
	}
	in, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dst dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create dst: %w", err)
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy db: %w", err)
	}
	return nil
}

// ImportSolutions copies every solution stored in the database at srcPath
// into dst. On a name collision the existing solution is replaced when
// overwrite is set; otherwise the import is renamed with a numeric suffix.
// It returns the number of solutions imported.
func ImportSolutions(dst *sql.DB, srcPath string, overwrite bool) (int, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return 0, fmt.Errorf("open src: %w", err)
	}
	srcDB, err := sql.Open("sqlite", srcPath)
	if err != nil {
		return 0, fmt.Errorf("open src: %w", err)
	}
	defer func() { _ = srcDB.Close() }()

	recs, err := registry.NewRepository(srcDB).ListSolutions()
	if err != nil {
		return 0, fmt.Errorf("read src: %w", err)
	}

	repo := registry.NewRepository(dst)
	taken := func(name string) (bool, error) {
		rec, err := repo.GetSolutionByName(name)
		return rec != nil, err
	}
	n := 0
	// oldest first so relative order survives the import
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		if err := nameutil.ValidateName(rec.Name); err != nil {
			return n, fmt.Errorf("import %q: %w", rec.Name, err)
		}
		name := rec.Name
		if overwrite {
			if err := repo.DeleteSolution(name); err != nil {
				return n, err
			}
		} else {
			name, err = nameutil.Unique(rec.Name, taken)
			if err != nil {
				return n, err
			}
		}
		id, err := repo.SaveSolution(name, nullable(rec.Instance), nullable(rec.Description), rec.Solution, rec.Cost)
		if err != nil {
			return n, fmt.Errorf("import %q: %w", rec.Name, err)
		}
		for _, tag := range rec.Tags {
			if err := repo.AddTag(id, tag); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
