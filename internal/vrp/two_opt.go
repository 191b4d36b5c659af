package vrp

import (
	"context"
	"time"
)

// twoOpt improves a single closed route with first-improvement 2-opt.
//
// For cut indices 1 ≤ i < k ≤ len(r)−2, with a=r[i−1], b=r[i], c=r[k],
// d=r[k+1], reversing r[i..k] changes the cost by
// Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d); a move is applied when Δ < −eps and
// the scan restarts. Depot endpoints never move.
//
// The deadline is checked every 2048 candidate evaluations. On expiry the
// route improved so far is returned together with ErrTimeLimit.
//
// Complexity: O(iter·m²) for a route with m customers.
func twoOpt(ctx context.Context, t *distanceTable, r Route, eps float64, deadline time.Time) (Route, error) {
	cur := append(Route(nil), r...)
	if len(cur) < 5 { // fewer than three customers: nothing to reverse
		return cur, nil
	}
	if eps < 0 {
		eps = 0
	}
	useDeadline := !deadline.IsZero()
	step := 0
	expired := func() bool {
		step++
		if step&2047 != 0 {
			return false
		}
		if ctx.Err() != nil {
			return true
		}
		return useDeadline && time.Now().After(deadline)
	}

	last := len(cur) - 2
	for {
		improved := false
		for i := 1; i < last && !improved; i++ {
			for k := i + 1; k <= last; k++ {
				if expired() {
					return cur, ErrTimeLimit
				}
				a, b, c, d := cur[i-1], cur[i], cur[k], cur[k+1]
				delta := t.at(a, c) + t.at(b, d) - t.at(a, b) - t.at(c, d)
				if delta < -eps {
					reverseInts(cur[i : k+1])
					improved = true
					break
				}
			}
		}
		if !improved {
			return cur, nil
		}
	}
}
