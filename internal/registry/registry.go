package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/VoxDroid/routeml/internal/nameutil"
	"github.com/VoxDroid/routeml/internal/vrp"
)

// ErrNameInUse is returned when saving under a name another solution already has.
var ErrNameInUse = errors.New("registry: name already in use")

const selectColumns = "s.id, s.name, s.instance, s.description, s.cost, s.vehicles, s.encoded, s.created_at"

// Repository provides CRUD operations for stored solutions and their tags.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository using db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveSolution validates name and stores sol under it together with its
// cost. The number of vehicles is derived from the encoding.
func (r *Repository) SaveSolution(name string, instance *string, description *string, sol vrp.Solution, cost float64) (int64, error) {
	name = strings.TrimSpace(name)
	if err := nameutil.ValidateName(name); err != nil {
		return 0, err
	}
	vehicles := len(vrp.SolutionToRoutes(sol))

	trx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = trx.Rollback() }()

	// the existence check and insert happen in one statement so concurrent
	// processes cannot both claim the name
	res, err := trx.Exec(`INSERT INTO solutions (name, instance, description, cost, vehicles, encoded, created_at)
			SELECT ?, ?, ?, ?, ?, ?, datetime('now')
			WHERE NOT EXISTS(SELECT 1 FROM solutions WHERE TRIM(name) = ?)`,
		name, instance, description, cost, vehicles, vrp.FormatSolution(sol), name)
	if err != nil {
		return 0, fmt.Errorf("insert solution: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNameInUse, name)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := trx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ReplaceSolution overwrites the encoding and cost of an existing solution.
func (r *Repository) ReplaceSolution(id int64, sol vrp.Solution, cost float64) error {
	res, err := r.db.Exec("UPDATE solutions SET encoded = ?, cost = ?, vehicles = ? WHERE id = ?",
		vrp.FormatSolution(sol), cost, len(vrp.SolutionToRoutes(sol)), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RenameSolution changes the name of solution id.
func (r *Repository) RenameSolution(id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if err := nameutil.ValidateName(newName); err != nil {
		return err
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	var existingID int64
	err = trx.QueryRow("SELECT id FROM solutions WHERE TRIM(name) = ?", newName).Scan(&existingID)
	switch {
	case err == nil && existingID != id:
		return fmt.Errorf("%w: %q", ErrNameInUse, newName)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}
	if _, err := trx.Exec("UPDATE solutions SET name = ? WHERE id = ?", newName, id); err != nil {
		return err
	}
	return trx.Commit()
}

// GetSolutionByName retrieves a solution and its tags. It returns nil, nil
// when no solution has that name.
func (r *Repository) GetSolutionByName(name string) (*SolutionRecord, error) {
	row := r.db.QueryRow("SELECT "+selectColumns+" FROM solutions s WHERE s.name = ?", strings.TrimSpace(name))
	rec, err := scanSolution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachTags(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListSolutions returns all stored solutions, newest first.
func (r *Repository) ListSolutions() ([]SolutionRecord, error) {
	return r.query("SELECT " + selectColumns + " FROM solutions s ORDER BY s.created_at DESC, s.id DESC")
}

// ListSolutionsByInstance returns the solutions recorded for one instance,
// cheapest first.
func (r *Repository) ListSolutionsByInstance(instance string) ([]SolutionRecord, error) {
	return r.query("SELECT "+selectColumns+" FROM solutions s WHERE s.instance = ? ORDER BY s.cost ASC, s.id ASC", instance)
}

// ListSolutionsByTag returns all solutions that have the given tag.
func (r *Repository) ListSolutionsByTag(tag string) ([]SolutionRecord, error) {
	return r.query(`
		SELECT `+selectColumns+`
		FROM solutions s
		JOIN solution_tags st ON s.id = st.solution_id
		JOIN tags t ON t.id = st.tag_id
		WHERE t.name = ?
		ORDER BY s.created_at DESC, s.id DESC
	`, tag)
}

// SearchSolutions finds solutions whose name, instance or description contains query.
func (r *Repository) SearchSolutions(query string) ([]SolutionRecord, error) {
	pattern := "%" + query + "%"
	return r.query(`
		SELECT `+selectColumns+`
		FROM solutions s
		WHERE s.name LIKE ? OR s.instance LIKE ? OR s.description LIKE ?
		ORDER BY s.created_at DESC, s.id DESC
	`, pattern, pattern, pattern)
}

// DeleteSolution removes the named solution and its tag associations. A
// missing name is not an error.
func (r *Repository) DeleteSolution(name string) error {
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	var id int64
	if err := trx.QueryRow("SELECT id FROM solutions WHERE name = ?", name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if _, err := trx.Exec("DELETE FROM solution_tags WHERE solution_id = ?", id); err != nil {
		return err
	}
	if _, err := trx.Exec("DELETE FROM solutions WHERE id = ?", id); err != nil {
		return err
	}
	return trx.Commit()
}

// AddTag adds a tag (creating it if necessary) and associates it with the solution.
func (r *Repository) AddTag(solutionID int64, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("invalid tag: tag cannot be empty")
	}
	trx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	if _, err := trx.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", tag); err != nil {
		return err
	}
	var tagID int64
	if err := trx.QueryRow("SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
		return err
	}
	if _, err := trx.Exec("INSERT OR IGNORE INTO solution_tags (solution_id, tag_id) VALUES (?, ?)", solutionID, tagID); err != nil {
		return err
	}
	return trx.Commit()
}

// RemoveTag removes an association between a tag and a solution.
func (r *Repository) RemoveTag(solutionID int64, tag string) error {
	var tagID int64
	if err := r.db.QueryRow("SELECT id FROM tags WHERE name = ?", tag).Scan(&tagID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	_, err := r.db.Exec("DELETE FROM solution_tags WHERE solution_id = ? AND tag_id = ?", solutionID, tagID)
	return err
}

// ListTags returns the tag names associated with a solution, sorted.
func (r *Repository) ListTags(solutionID int64) ([]string, error) {
	rows, err := r.db.Query("SELECT t.name FROM tags t JOIN solution_tags st ON t.id = st.tag_id WHERE st.solution_id = ? ORDER BY t.name", solutionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Repository) attachTags(rec *SolutionRecord) error {
	tags, err := r.ListTags(rec.ID)
	if err != nil {
		return err
	}
	rec.Tags = tags
	return nil
}

// query runs a solutions SELECT and attaches tags once the result set is closed.
func (r *Repository) query(q string, args ...interface{}) ([]SolutionRecord, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	var out []SolutionRecord
	for rows.Next() {
		rec, err := scanSolution(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()
	for i := range out {
		if err := r.attachTags(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSolution(s scanner) (*SolutionRecord, error) {
	var (
		rec     SolutionRecord
		encoded string
	)
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Instance, &rec.Description, &rec.Cost, &rec.Vehicles, &encoded, &rec.CreatedAt); err != nil {
		return nil, err
	}
	sol, err := vrp.ParseSolution(encoded)
	if err != nil {
		return nil, fmt.Errorf("solution %q: %w", rec.Name, err)
	}
	rec.Solution = sol
	return &rec, nil
}
