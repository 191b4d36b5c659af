package vrp

import (
	"errors"
	"fmt"
	"math"
)

// roundScale stabilises reported costs to 1e-9.
const roundScale = 1e9

var (
	// ErrMissingCustomer is returned when a customer is never visited.
	ErrMissingCustomer = errors.New("vrp: customer not visited")
	// ErrDuplicateVisit is returned when a customer is visited more than once.
	ErrDuplicateVisit = errors.New("vrp: customer visited more than once")
	// ErrCapacityExceeded is returned when a route's load is above capacity.
	ErrCapacityExceeded = errors.New("vrp: route exceeds vehicle capacity")
)

func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}

// RouteCost sums the edge distances along r.
func RouteCost(in *Instance, r Route) (float64, error) {
	var sum float64
	for i := 0; i+1 < len(r); i++ {
		d, err := in.Distance(r[i], r[i+1])
		if err != nil {
			return 0, err
		}
		sum += d
	}
	return round1e9(sum), nil
}

// RoutesCost sums RouteCost over routes.
func RoutesCost(in *Instance, routes []Route) (float64, error) {
	var sum float64
	for _, r := range routes {
		c, err := RouteCost(in, r)
		if err != nil {
			return 0, err
		}
		sum += c
	}
	return round1e9(sum), nil
}

// SolutionCost is the cost of a flat solution; it equals the cost of the
// routes it decodes to since shared depot visits add no distance.
func SolutionCost(in *Instance, sol Solution) (float64, error) {
	return RouteCost(in, Route(sol))
}

// ValidateRoutes checks that routes form a feasible solution for in: every
// route is closed, each customer is visited exactly once and, when the
// instance is capacitated, no route overflows.
func ValidateRoutes(in *Instance, routes []Route) error {
	seen := make(map[int]bool, len(in.Coords))
	for ri, r := range routes {
		if len(r) == 0 {
			return ErrEmptyRoute
		}
		if !r.Closed() {
			return fmt.Errorf("%w: route %d", ErrRouteNotClosed, ri)
		}
		for _, c := range r.Customers() {
			if _, ok := in.Coords[c]; !ok {
				return fmt.Errorf("%w: %d", ErrUnknownNode, c)
			}
			if c == Depot {
				continue
			}
			if seen[c] {
				return fmt.Errorf("%w: %d", ErrDuplicateVisit, c)
			}
			seen[c] = true
		}
		if in.Capacity > 0 {
			if load := in.Load(r); load > in.Capacity {
				return fmt.Errorf("%w: route %d load %g > %g", ErrCapacityExceeded, ri, load, in.Capacity)
			}
		}
	}
	for _, c := range in.Customers() {
		if !seen[c] {
			return fmt.Errorf("%w: %d", ErrMissingCustomer, c)
		}
	}
	return nil
}
