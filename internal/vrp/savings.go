package vrp

import "sort"

// saving is a candidate merge of the routes ending at i and starting at j.
type saving struct {
	i, j  int
	value float64
}

// savingsRoutes builds routes with the Clarke–Wright parallel savings method.
//
// Every customer starts on its own route 0 → c → 0. Pairs are scanned in
// descending order of s(i,j) = d(0,i) + d(0,j) − d(i,j) (ties by i, then j)
// and two routes are joined when i and j sit at route ends, belong to
// different routes and the joined load fits the capacity. Non-positive
// savings are only used while the route count is above maxVehicles.
//
// Complexity: O(n² log n) for sorting the candidate list, O(n) per merge.
func savingsRoutes(in *Instance, t *distanceTable, maxVehicles int) []Route {
	customers := t.ids[1:]
	if len(customers) == 0 {
		return nil
	}

	// routes[k] holds the customers of route k; nil once merged away.
	routes := make([][]int, len(customers))
	owner := make(map[int]int, len(customers))
	load := make([]float64, len(customers))
	for k, c := range customers {
		routes[k] = []int{c}
		owner[c] = k
		load[k] = in.Demand[c]
	}
	active := len(customers)

	cand := make([]saving, 0, len(customers)*(len(customers)-1)/2)
	for a := 0; a < len(customers); a++ {
		i := customers[a]
		for b := a + 1; b < len(customers); b++ {
			j := customers[b]
			cand = append(cand, saving{i: i, j: j, value: t.at(Depot, i) + t.at(Depot, j) - t.at(i, j)})
		}
	}
	sort.SliceStable(cand, func(x, y int) bool {
		if cand[x].value != cand[y].value {
			return cand[x].value > cand[y].value
		}
		if cand[x].i != cand[y].i {
			return cand[x].i < cand[y].i
		}
		return cand[x].j < cand[y].j
	})

	for _, s := range cand {
		if s.value <= 0 && (maxVehicles <= 0 || active <= maxVehicles) {
			break
		}
		ri, rj := owner[s.i], owner[s.j]
		if ri == rj {
			continue
		}
		if in.Capacity > 0 && load[ri]+load[rj] > in.Capacity {
			continue
		}
		a, b := routes[ri], routes[rj]
		// Orient so that i is the tail of a and j the head of b.
		switch {
		case a[len(a)-1] == s.i:
		case a[0] == s.i:
			reverseInts(a)
		default:
			continue
		}
		switch {
		case b[0] == s.j:
		case b[len(b)-1] == s.j:
			reverseInts(b)
		default:
			continue
		}
		merged := append(a, b...)
		routes[ri] = merged
		routes[rj] = nil
		load[ri] += load[rj]
		for _, c := range b {
			owner[c] = ri
		}
		active--
	}

	out := make([]Route, 0, active)
	for _, r := range routes {
		if r == nil {
			continue
		}
		route := make(Route, 0, len(r)+2)
		route = append(route, Depot)
		route = append(route, r...)
		route = append(route, Depot)
		out = append(out, route)
	}
	canonicalizeRoutes(out)
	return out
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// canonicalizeRoutes orients every route so its first customer is smaller
// than its last, then orders routes by first customer. Reversing a route
// does not change its cost on a symmetric instance.
func canonicalizeRoutes(routes []Route) {
	for _, r := range routes {
		c := r.Customers()
		if len(c) > 1 && c[0] > c[len(c)-1] {
			reverseInts(c)
		}
	}
	sort.SliceStable(routes, func(x, y int) bool {
		cx, cy := routes[x].Customers(), routes[y].Customers()
		if len(cx) == 0 || len(cy) == 0 {
			return len(cx) > len(cy)
		}
		return cx[0] < cy[0]
	})
}
