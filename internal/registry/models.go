// Package registry stores named routing solutions in SQLite.
package registry

import (
	"database/sql"

	"github.com/VoxDroid/routeml/internal/vrp"
)

// SolutionRecord is a named solution as stored in the registry.
type SolutionRecord struct {
	ID          int64
	Name        string
	Instance    sql.NullString
	Description sql.NullString
	Cost        float64
	Vehicles    int
	Solution    vrp.Solution
	CreatedAt   string
	Tags        []string
}

// Routes decodes the stored flat solution.
func (s *SolutionRecord) Routes() []vrp.Route {
	return vrp.SolutionToRoutes(s.Solution)
}
