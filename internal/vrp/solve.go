package vrp

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultEps is the minimum improvement a 2-opt move must achieve.
const DefaultEps = 1e-12

var (
	// ErrTooManyRoutes is returned when construction needs more vehicles than allowed.
	ErrTooManyRoutes = errors.New("vrp: solution needs more vehicles than allowed")
	// ErrTimeLimit is returned, alongside the best routes found, when the
	// time budget runs out or the context is cancelled.
	ErrTimeLimit = errors.New("vrp: time limit reached")
)

// Options configures Solve.
type Options struct {
	// MaxVehicles caps the number of routes; 0 means unlimited.
	MaxVehicles int
	// TwoOpt enables the intra-route 2-opt pass after construction.
	TwoOpt bool
	// Eps is the improvement threshold for 2-opt; negative values are treated as 0.
	Eps float64
	// TimeLimit bounds the 2-opt pass; 0 means no limit.
	TimeLimit time.Duration
}

// DefaultOptions enables 2-opt with DefaultEps and no limits.
func DefaultOptions() Options {
	return Options{TwoOpt: true, Eps: DefaultEps}
}

// Result is the outcome of Solve.
type Result struct {
	Routes   []Route
	Solution Solution
	Cost     float64
}

// Solve builds routes for in with the savings heuristic and optionally
// polishes each route with 2-opt. The result is deterministic for a given
// instance and options.
//
// Construction always runs to completion. When the context is cancelled
// (before or during 2-opt) or the time limit expires, the routes built so
// far, which are still feasible, are returned with ErrTimeLimit.
func Solve(ctx context.Context, in *Instance, opts Options) (Result, error) {
	if in == nil {
		return Result{}, ErrNoDepot
	}
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if opts.MaxVehicles < 0 {
		return Result{}, fmt.Errorf("vrp: negative vehicle limit %d", opts.MaxVehicles)
	}
	t := newDistanceTable(in)
	routes := savingsRoutes(in, t, opts.MaxVehicles)
	if opts.MaxVehicles > 0 && len(routes) > opts.MaxVehicles {
		return Result{}, fmt.Errorf("%w: need %d, have %d", ErrTooManyRoutes, len(routes), opts.MaxVehicles)
	}

	var stopErr error
	switch {
	case ctx.Err() != nil:
		stopErr = ErrTimeLimit
	case opts.TwoOpt:
		var deadline time.Time
		if opts.TimeLimit > 0 {
			deadline = time.Now().Add(opts.TimeLimit)
		}
		stopErr = improveRoutes(ctx, t, routes, opts.Eps, deadline)
		canonicalizeRoutes(routes)
		if stopErr == nil && ctx.Err() != nil {
			stopErr = ErrTimeLimit
		}
	}

	res, err := newResult(in, routes)
	if err != nil {
		return Result{}, err
	}
	return res, stopErr
}

// improveRoutes runs 2-opt on every route concurrently. Routes share no
// nodes, so each one is improved in place independently of the others. On
// timeout every route keeps its best-so-far tour.
func improveRoutes(ctx context.Context, t *distanceTable, routes []Route, eps float64, deadline time.Time) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range routes {
		i := i
		g.Go(func() error {
			improved, err := twoOpt(ctx, t, routes[i], eps, deadline)
			routes[i] = improved
			return err
		})
	}
	return g.Wait()
}

func newResult(in *Instance, routes []Route) (Result, error) {
	if routes == nil {
		routes = []Route{}
	}
	sol, err := RoutesToSolution(routes)
	if err != nil {
		return Result{}, err
	}
	cost, err := RoutesCost(in, routes)
	if err != nil {
		return Result{}, err
	}
	return Result{Routes: routes, Solution: sol, Cost: cost}, nil
}
