// Package vrp holds the vehicle routing primitives used by routeml: the
// route and flat-solution encodings, problem instances, cost evaluation,
// a savings-based construction heuristic and a 2-opt improvement pass.
//
// Node 0 is always the depot. A Route is a closed walk 0 → … → 0. A
// Solution is the "giant tour" encoding where routes are concatenated and
// neighbouring routes share a single depot visit:
//
//	routes   [[0 1 2 0] [0 3 0]]
//	solution [0 1 2 0 3 0]
package vrp

import "errors"

// Depot is the node id reserved for the depot.
const Depot = 0

var (
	// ErrRouteNotClosed is returned when a route does not start and end at the depot.
	ErrRouteNotClosed = errors.New("vrp: route must start and end at the depot")
	// ErrEmptyRoute is returned for a zero-length route.
	ErrEmptyRoute = errors.New("vrp: empty route")
)

// Route is a closed route: Route[0] == Route[len-1] == Depot.
type Route []int

// Solution is the flat encoding of a set of routes.
type Solution []int

// Customers returns the nodes visited between the two depot visits.
// The returned slice aliases r.
func (r Route) Customers() []int {
	if len(r) < 2 {
		return nil
	}
	return r[1 : len(r)-1]
}

// Closed reports whether r starts and ends at the depot.
func (r Route) Closed() bool {
	return len(r) >= 1 && r[0] == Depot && r[len(r)-1] == Depot
}

// RoutesToSolution flattens routes into a Solution. Every route after the
// first drops its leading depot so that consecutive routes share one.
//
// Contracts:
//   - every route is non-empty and closed (ErrEmptyRoute / ErrRouteNotClosed).
//   - an empty routes slice yields an empty, non-nil Solution.
func RoutesToSolution(routes []Route) (Solution, error) {
	size := 0
	for _, r := range routes {
		size += len(r)
	}
	out := make(Solution, 0, size)
	for i, r := range routes {
		if len(r) == 0 {
			return nil, ErrEmptyRoute
		}
		if !r.Closed() {
			return nil, ErrRouteNotClosed
		}
		if i > 0 {
			r = r[1:]
		}
		out = append(out, r...)
	}
	return out, nil
}

// SolutionToRoutes splits a Solution back into routes. A depot visit closes
// the route in progress (when it has nodes) and opens the next one. The
// trailing open route, normally the lone final depot, is discarded, so a
// solution that does not end at the depot loses its last partial route.
//
// The result is never nil; a solution that closes no route yields an
// empty slice. For valid routes r of length two or more,
// SolutionToRoutes(RoutesToSolution(r)) equals r.
func SolutionToRoutes(sol Solution) []Route {
	routes := []Route{}
	var route Route
	for _, node := range sol {
		if node == Depot && len(route) > 0 {
			route = append(route, Depot)
			routes = append(routes, route)
			route = nil
		}
		route = append(route, node)
	}
	return routes
}

// CloneRoutes deep-copies routes.
func CloneRoutes(routes []Route) []Route {
	out := make([]Route, len(routes))
	for i, r := range routes {
		out[i] = append(Route(nil), r...)
	}
	return out
}
