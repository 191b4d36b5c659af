package vrp

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadRoutes decodes a JSON array of routes, e.g. [[0,1,2,0],[0,3,0]].
func ReadRoutes(r io.Reader) ([]Route, error) {
	var routes []Route
	if err := json.NewDecoder(r).Decode(&routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return routes, nil
}

// ReadSolution decodes a JSON array of node ids, e.g. [0,1,2,0,3,0].
func ReadSolution(r io.Reader) (Solution, error) {
	var sol Solution
	if err := json.NewDecoder(r).Decode(&sol); err != nil {
		return nil, fmt.Errorf("decode solution: %w", err)
	}
	return sol, nil
}

// FormatSolution renders sol as space-separated ids; the registry stores
// solutions in this form.
func FormatSolution(sol Solution) string {
	parts := make([]string, len(sol))
	for i, n := range sol {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// ParseSolution is the inverse of FormatSolution. Commas are accepted as separators.
func ParseSolution(s string) (Solution, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	out := make(Solution, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse solution: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("parse solution: negative node id %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
